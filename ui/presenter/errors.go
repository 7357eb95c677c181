package presenter

import (
	"context"
	"errors"

	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/playback"
	"github.com/soocke/mediavis-go/domain/selection"
)

// ErrRequestPending is returned when a request of the same kind is still
// outstanding.
var ErrRequestPending = errors.New("presenter: request already pending")

// ErrNoMedia is returned when an operation needs an upload and none is loaded.
var ErrNoMedia = errors.New("presenter: no media loaded")

// UserMessage maps an error to the single line shown in the status bar.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, selection.ErrNotReady):
		return "The image is not laid out yet. Try again."
	case errors.Is(err, selection.ErrNoTargetImage):
		return "Load an image before starting selection mode."
	case errors.Is(err, selection.ErrEmptySelection):
		return "Drag a region on the image before applying a color."
	case errors.Is(err, selection.ErrApplyPending):
		return "A color mix is already in progress."
	case errors.Is(err, playback.ErrEmptySequence):
		return "There are no frames to play."
	case errors.Is(err, ErrRequestPending):
		return "That request is still running."
	case errors.Is(err, ErrNoMedia):
		return "Open a file first."
	case errors.Is(err, ErrNoText):
		return "Enter some text to encode."
	case errors.Is(err, ErrFramesLoading):
		return "Frames are still loading."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out."
	case errors.As(err, &gwErr):
		if gwErr.Message != "" {
			return "Error: " + gwErr.Message
		}
		return "Error: " + gwErr.Error()
	default:
		return "Error: " + err.Error()
	}
}
