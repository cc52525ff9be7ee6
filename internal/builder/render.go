package builder

import (
	"bytes"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"

	"slide-generator/internal/model"
)

const documentCreator = "slide-generator"

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

func place(shape *ppt.RichTextShape, f Frame) {
	shape.SetOffsetX(f.X).SetOffsetY(f.Y)
	shape.SetWidth(f.Width).SetHeight(f.Height)
}

// Render writes deck as a PPTX document.
func Render(deck *Deck) ([]byte, error) {
	if deck == nil || len(deck.Slides) == 0 {
		return nil, fmt.Errorf("%w: deck has no slides", model.ErrRenderFailed)
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = deck.Title
	p.GetDocumentProperties().Creator = documentCreator

	for i, s := range deck.Slides {
		// ppt.New() уже содержит один пустой слайд
		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}
		renderSlide(slide, s, deck.Theme)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("%w: create writer: %v", model.ErrRenderFailed, err)
	}
	pptxWriter, ok := w.(*ppt.PPTXWriter)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected writer type %T", model.ErrRenderFailed, w)
	}
	var buf bytes.Buffer
	if err := pptxWriter.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func renderSlide(slide *ppt.Slide, s Slide, theme Theme) {
	background := slide.CreateRichTextShape()
	place(background, Frame{Width: slideWidth, Height: slideHeight})
	background.SetFill(solidFill(theme.Background))

	title := slide.CreateRichTextShape()
	place(title, s.TitleFrame)
	tr := title.CreateTextRun(s.Title)
	tr.GetFont().SetSize(s.TitleFontSize).SetBold(true).SetColor(ppt.NewColor(theme.TitleColor))
	if s.Centered {
		alignCenter(title.GetActiveParagraph())
	}

	for _, b := range s.Blocks {
		if b.Kind == BlockPicture {
			frame := slide.CreateRichTextShape()
			place(frame, b.Frame)
			frame.SetFill(solidFill("FFF3F4F6"))
			continue
		}
		shape := slide.CreateRichTextShape()
		place(shape, b.Frame)
		for i, text := range b.Paragraphs {
			if i > 0 {
				shape.CreateParagraph()
			}
			run := shape.CreateTextRun(text)
			run.GetFont().SetSize(b.FontSize).SetColor(ppt.NewColor(theme.FontColor))
			if s.Centered {
				alignCenter(shape.GetActiveParagraph())
			}
		}
	}

	if s.Citation != nil {
		shape := slide.CreateRichTextShape()
		place(shape, s.Citation.Frame)
		run := shape.CreateTextRun(s.Citation.Text)
		run.GetFont().SetSize(s.Citation.FontSize).SetItalic(s.Citation.Italic).SetColor(ppt.NewColor(citationColor))
	}
}
