package gateway

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/soocke/mediavis-go/domain/selection"
)

// ErrGateway matches every failure reported by the backend or the transport.
var ErrGateway = errors.New("gateway error")

// Error describes one failed gateway round trip.
type Error struct {
	Op        string // endpoint or action
	Status    int    // HTTP status, 0 for transport failures
	Message   string // backend-provided message, if any
	RequestID string
	Err       error // underlying transport/decoding error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGateway, e.Err}
	}
	return []error{ErrGateway}
}

// Media is an uploaded file.
type Media struct {
	Name string
	Data []byte
}

// Empty reports whether there is nothing to upload.
func (m Media) Empty() bool { return len(m.Data) == 0 }

// ImageOp names a backend image action.
type ImageOp string

const (
	OpDecompose    ImageOp = "decompose"
	OpSampling     ImageOp = "sampling"
	OpQuantization ImageOp = "quantization"
	OpMixColors    ImageOp = "mix_colors"
)

// ImageParams carries the optional fields of an image action.
type ImageParams struct {
	Rows   int
	Cols   int
	Colors int
}

// ImageResult holds every reference an image action may return. Fields not
// produced by the action are empty.
type ImageResult struct {
	OriginalURL  string
	ProcessedURL string
	PlotURL      string
	RedURL       string
	GreenURL     string
	BlueURL      string
}

// Layers returns the decomposed channel references in red, green, blue order,
// or nil when the result is not a decomposition.
func (r ImageResult) Layers() []string {
	if r.RedURL == "" || r.GreenURL == "" || r.BlueURL == "" {
		return nil
	}
	return []string{r.RedURL, r.GreenURL, r.BlueURL}
}

// VideoMetadata describes an uploaded clip.
type VideoMetadata struct {
	Duration   string
	FPS        float64
	Resolution string
}

// VideoResult is the response of a frame extraction.
type VideoResult struct {
	Metadata VideoMetadata
	Frames   []string
}

// AudioMetadata describes an uploaded sound file.
type AudioMetadata struct {
	Duration     string
	SampleRate   string
	TotalSamples int64
}

// AudioResult is the response of a waveform analysis.
type AudioResult struct {
	Metadata      AudioMetadata
	WaveformURL   string
	BinarySnippet []string
}

// TextResult is the per-character encoding table of a text request.
type TextResult struct {
	ASCII  []int
	Hex    []string
	Binary []string
}

// Gateway is the request/response surface of the media backend.
type Gateway interface {
	SubmitColorMix(ctx context.Context, media Media, rect selection.SourceRect, c color.RGBA) (ImageResult, error)
	SubmitImageOp(ctx context.Context, media Media, op ImageOp, params ImageParams) (ImageResult, error)
	SubmitVideo(ctx context.Context, media Media, frameCount int) (VideoResult, error)
	SubmitAudio(ctx context.Context, media Media, sampleCount int) (AudioResult, error)
	SubmitText(ctx context.Context, text string) (TextResult, error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Mixer adapts a Gateway and the current upload to selection.ColorMixer.
type Mixer struct {
	Gateway Gateway
	Media   func() Media
}

func (m Mixer) MixColor(ctx context.Context, rect selection.SourceRect, c color.RGBA) (string, error) {
	res, err := m.Gateway.SubmitColorMix(ctx, m.Media(), rect, c)
	if err != nil {
		return "", err
	}
	if res.ProcessedURL == "" {
		return "", &Error{Op: string(OpMixColors), Message: "response carries no processed_url"}
	}
	return res.ProcessedURL, nil
}

// Snapshot pins the current upload; the returned mixer never calls back
// into the model.
func (m Mixer) Snapshot() selection.ColorMixer {
	media := m.Media()
	return Mixer{Gateway: m.Gateway, Media: func() Media { return media }}
}

var _ selection.MixerSnapshot = Mixer{}
