package builder

import (
	"strings"

	"slide-generator/internal/model"
)

// Геометрия слайда в EMU (16:9 холст GoPPT по умолчанию).
const (
	emuPerInch = 914400

	slideWidth  = int64(10.0 * emuPerInch)
	slideHeight = int64(5.625 * emuPerInch)

	marginLeft   = int64(0.5 * emuPerInch)
	contentWidth = int64(9.0 * emuPerInch)
	titleTop     = int64(0.3 * emuPerInch)
	titleHeight  = int64(0.8 * emuPerInch)
	bodyTop      = int64(1.2 * emuPerInch)
	bodyHeight   = int64(3.6 * emuPerInch)
	columnGap    = int64(0.4 * emuPerInch)

	citationTop    = slideHeight - int64(0.5*emuPerInch) - citationHeight
	citationHeight = int64(0.4 * emuPerInch)

	fontTitle      = 28
	fontCoverTitle = 36
	fontBody       = 16
	fontSubtitle   = 20
	fontCitation   = 8
)

// CitationPrefix precedes the citation text on every slide that has one.
const CitationPrefix = "Source: "

// BlockKind says what a content block stands for on the slide.
type BlockKind string

const (
	BlockBody     BlockKind = "body"
	BlockLeft     BlockKind = "left_column"
	BlockRight    BlockKind = "right_column"
	BlockSubtitle BlockKind = "subtitle"
	BlockPicture  BlockKind = "picture"
)

// Frame is a position and size in EMU.
type Frame struct {
	X, Y, Width, Height int64
}

// Block is one positioned text area (or an empty picture frame).
type Block struct {
	Kind       BlockKind
	Frame      Frame
	Paragraphs []string
	FontSize   int
}

// Citation is the small italic source line at the bottom of a slide.
type Citation struct {
	Text     string
	Frame    Frame
	FontSize int
	Italic   bool
}

// Slide is a laid out slide, independent of the file format.
type Slide struct {
	Title         string
	TitleFrame    Frame
	TitleFontSize int
	Centered      bool
	Blocks        []Block
	Citation      *Citation
}

// Deck is the document model handed to the renderer.
type Deck struct {
	Title  string
	Layout model.Layout
	Theme  Theme
	Slides []Slide
}

// Build lays out one slide per record using the layout from cfg.
func Build(topic string, cfg model.PresentationConfig, records []model.SlideRecord) *Deck {
	layout := cfg.LayoutName()
	deck := &Deck{
		Title:  topic,
		Layout: layout,
		Theme:  ParseTheme(cfg.Theme),
		Slides: make([]Slide, 0, len(records)),
	}
	for _, rec := range records {
		deck.Slides = append(deck.Slides, layoutSlide(layout, rec))
	}
	return deck
}

func layoutSlide(layout model.Layout, rec model.SlideRecord) Slide {
	slide := Slide{
		Title:         rec.Header,
		TitleFrame:    Frame{X: marginLeft, Y: titleTop, Width: contentWidth, Height: titleHeight},
		TitleFontSize: fontTitle,
	}

	switch layout {
	case model.LayoutTitle:
		slide.Centered = true
		slide.TitleFontSize = fontCoverTitle
		slide.TitleFrame = Frame{X: marginLeft, Y: int64(1.5 * emuPerInch), Width: contentWidth, Height: int64(1.0 * emuPerInch)}
		slide.Blocks = []Block{{
			Kind:       BlockSubtitle,
			Frame:      Frame{X: marginLeft, Y: int64(2.7 * emuPerInch), Width: contentWidth, Height: int64(1.6 * emuPerInch)},
			Paragraphs: paragraphs(rec.Content),
			FontSize:   fontSubtitle,
		}}
	case model.LayoutTwoColumn:
		left, right := splitColumns(rec.Content)
		colWidth := (contentWidth - columnGap) / 2
		slide.Blocks = []Block{
			{Kind: BlockLeft, Frame: Frame{X: marginLeft, Y: bodyTop, Width: colWidth, Height: bodyHeight}, Paragraphs: left, FontSize: fontBody},
			{Kind: BlockRight, Frame: Frame{X: marginLeft + colWidth + columnGap, Y: bodyTop, Width: colWidth, Height: bodyHeight}, Paragraphs: right, FontSize: fontBody},
		}
	case model.LayoutContentWithImage:
		textWidth := int64(5.2 * emuPerInch)
		slide.Blocks = []Block{
			{Kind: BlockBody, Frame: Frame{X: marginLeft, Y: bodyTop, Width: textWidth, Height: bodyHeight}, Paragraphs: paragraphs(rec.Content), FontSize: fontBody},
			{Kind: BlockPicture, Frame: Frame{X: marginLeft + textWidth + columnGap, Y: bodyTop, Width: contentWidth - textWidth - columnGap, Height: bodyHeight}},
		}
	default:
		slide.Blocks = []Block{{
			Kind:       BlockBody,
			Frame:      Frame{X: marginLeft, Y: bodyTop, Width: contentWidth, Height: bodyHeight},
			Paragraphs: paragraphs(rec.Content),
			FontSize:   fontBody,
		}}
	}

	if rec.HasCitation() {
		slide.Citation = &Citation{
			Text:     CitationPrefix + rec.Citation,
			Frame:    Frame{X: marginLeft, Y: citationTop, Width: contentWidth, Height: citationHeight},
			FontSize: fontCitation,
			Italic:   true,
		}
	}
	return slide
}

// paragraphs splits content on line breaks, dropping blank lines.
func paragraphs(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitColumns делит контент на две колонки: по строкам, если их несколько,
// иначе по предложениям.
func splitColumns(content string) (left, right []string) {
	lines := paragraphs(content)
	switch len(lines) {
	case 0:
		return nil, nil
	case 1:
	default:
		half := (len(lines) + 1) / 2
		return lines[:half], lines[half:]
	}

	parts := sentences(lines[0])
	half := (len(parts) + 1) / 2
	left = []string{strings.Join(parts[:half], " ")}
	if half < len(parts) {
		right = []string{strings.Join(parts[half:], " ")}
	}
	return left, right
}

// sentences splits text after '.', '!' or '?' followed by a space.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
