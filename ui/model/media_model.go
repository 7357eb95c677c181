package model

import (
	"image"
	"image/color"

	"github.com/soocke/mediavis-go/domain/gateway"
)

// MediaModel holds the current upload, its decoded image when it is one,
// and the colour mixed into selections. The zero value is empty and usable.
// Updates occur on the UI thread.
type MediaModel struct {
	upload gateway.Media
	img    image.Image
	color  color.RGBA
}

// NewMediaModel returns an empty model mixing colour c.
func NewMediaModel(c color.RGBA) *MediaModel {
	m := &MediaModel{}
	m.SetColor(c)
	return m
}

// SetUpload replaces the current upload. img is nil for non-image media.
func (m *MediaModel) SetUpload(u gateway.Media, img image.Image) {
	if m == nil {
		return
	}
	m.upload = u
	m.img = img
}

// Clear forgets the current upload.
func (m *MediaModel) Clear() {
	if m == nil {
		return
	}
	m.upload = gateway.Media{}
	m.img = nil
}

// Upload returns the current upload (may be empty).
func (m *MediaModel) Upload() gateway.Media {
	if m == nil {
		return gateway.Media{}
	}
	return m.upload
}

// Image returns the decoded target image, or nil.
func (m *MediaModel) Image() image.Image {
	if m == nil {
		return nil
	}
	return m.img
}

// Color returns the mix colour.
func (m *MediaModel) Color() color.RGBA {
	if m == nil {
		return color.RGBA{A: 255}
	}
	return m.color
}

// SetColor stores the mix colour, forcing it opaque.
func (m *MediaModel) SetColor(c color.RGBA) {
	if m == nil {
		return
	}
	c.A = 255
	m.color = c
}
