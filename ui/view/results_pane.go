package view

import (
	"image"
	"strings"

	"github.com/soocke/mediavis-go/ui/images"
	"github.com/soocke/mediavis-go/ui/presenter"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	maxThumbs = 6
	thumbW    = 160
	thumbH    = 120
	regionW   = 200
	regionH   = 150
)

// ResultsPane shows the selected-region crop, a captioned thumbnail gallery
// and a read-only info text for request results.
type ResultsPane struct {
	regionLabel  *LabelWidget
	regionPhoto  *Img
	galleryTitle *LabelWidget
	thumbs       [maxThumbs]*LabelWidget
	captions     [maxThumbs]*LabelWidget
	photos       [maxThumbs]*Img
	infoTitle    *LabelWidget
	info         *TextWidget
}

// NewResultsPane builds the pane inside parent starting at row; it returns
// the pane and the next free row.
func NewResultsPane(parent *FrameWidget, row int) (*ResultsPane, int) {
	p := &ResultsPane{}
	blank := images.EncodePNG(images.Placeholder(regionW, regionH, "No region"))

	Grid(Label(Txt("Selected region"), Anchor("w")), In(parent), Row(row), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"))
	row++
	p.regionPhoto = NewPhoto(Data(blank))
	p.regionLabel = Label(Image(p.regionPhoto), Borderwidth(1), Relief("sunken"))
	Grid(p.regionLabel, In(parent), Row(row), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"), Pady("0.4m"))
	row++

	p.galleryTitle = Label(Txt("Results"), Anchor("w"))
	Grid(p.galleryTitle, In(parent), Row(row), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"))
	row++
	empty := images.EncodePNG(images.Placeholder(thumbW, thumbH, ""))
	for i := 0; i < maxThumbs; i++ {
		r, c := row+(i/3)*2, i%3
		p.photos[i] = NewPhoto(Data(empty))
		p.thumbs[i] = Label(Image(p.photos[i]), Borderwidth(1), Relief("groove"))
		Grid(p.thumbs[i], In(parent), Row(r), Column(c), Padx("0.3m"), Pady("0.2m"))
		p.captions[i] = Label(Txt(""))
		Grid(p.captions[i], In(parent), Row(r+1), Column(c), Padx("0.3m"))
	}
	row += (maxThumbs / 3) * 2

	p.infoTitle = Label(Txt("Details"), Anchor("w"))
	Grid(p.infoTitle, In(parent), Row(row), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"))
	row++
	p.info = Text(Height(10), Width(56))
	Grid(p.info, In(parent), Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	p.info.Configure(State("disabled"))
	row++
	return p, row
}

// ShowRegion shows the crop of the selected region; nil restores the
// placeholder.
func (p *ResultsPane) ShowRegion(img image.Image) {
	if p == nil || p.regionLabel == nil {
		return
	}
	if img == nil {
		img = images.Placeholder(regionW, regionH, "No region")
	} else {
		img = images.ScaleToFit(img, regionW, regionH)
	}
	if p.regionPhoto != nil {
		p.regionPhoto.Delete()
	}
	p.regionPhoto = NewPhoto(Data(images.EncodePNG(img)))
	p.regionLabel.Configure(Image(p.regionPhoto))
}

// ShowGallery fills the thumbnail grid; extra items beyond the grid are
// dropped and unused cells are blanked.
func (p *ResultsPane) ShowGallery(title string, items []presenter.GalleryItem) {
	if p == nil || p.galleryTitle == nil {
		return
	}
	p.galleryTitle.Configure(Txt(title))
	for i := 0; i < maxThumbs; i++ {
		var img image.Image
		caption := ""
		if i < len(items) && items[i].Image != nil {
			img = images.ScaleToFit(items[i].Image, thumbW, thumbH)
			caption = items[i].Caption
		} else {
			img = images.Placeholder(thumbW, thumbH, "")
		}
		if p.photos[i] != nil {
			p.photos[i].Delete()
		}
		p.photos[i] = NewPhoto(Data(images.EncodePNG(img)))
		p.thumbs[i].Configure(Image(p.photos[i]))
		p.captions[i].Configure(Txt(caption))
	}
}

// ShowInfo replaces the details text.
func (p *ResultsPane) ShowInfo(title string, lines []string) {
	if p == nil || p.info == nil {
		return
	}
	p.infoTitle.Configure(Txt(title))
	p.info.Configure(State("normal"))
	p.info.Delete("1.0", END)
	p.info.Insert("1.0", strings.Join(lines, "\n"))
	p.info.Configure(State("disabled"))
}
