package capture

import (
	"image"
	"time"

	"github.com/vova616/screenshot"

	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/ui/images"
)

// Grab returns a screen capture of the current active monitor.
func Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GrabMedia captures the screen and packages it as a PNG upload so a
// screenshot can serve as the target image.
func GrabMedia(now time.Time) (gateway.Media, *image.RGBA, error) {
	img, err := Grab()
	if err != nil {
		return gateway.Media{}, nil, err
	}
	return ToMedia(img, now), img, nil
}

// ToMedia encodes img as a timestamped PNG upload.
func ToMedia(img image.Image, now time.Time) gateway.Media {
	return gateway.Media{
		Name: "screenshot-" + now.Format("20060102-150405") + ".png",
		Data: images.EncodePNG(img),
	}
}
