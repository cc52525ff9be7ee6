package builder

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slide-generator/internal/model"
)

var slideEntry = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)

// slideXML returns the concatenated XML of all slide parts.
func slideXML(t *testing.T, data []byte) (int, string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	count := 0
	var sb strings.Builder
	for _, f := range zr.File {
		if !slideEntry.MatchString(f.Name) {
			continue
		}
		count++
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		sb.Write(b)
	}
	return count, sb.String()
}

func TestRender(t *testing.T) {
	recs := []model.SlideRecord{
		{Header: "Alpha header", Content: "Alpha content.", Citation: "Alpha Book"},
		{Header: "Beta header", Content: "Beta content."},
		{Header: "Gamma header", Content: "Gamma one. Gamma two.", Citation: "Gamma Paper"},
	}
	for _, layout := range []string{"bullet_points", "two_column", "content_with_image", "title"} {
		t.Run(layout, func(t *testing.T) {
			data, err := Render(Build("Greek letters", layoutConfig(layout), recs))
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(data, []byte("PK")), "pptx is a zip archive")

			count, xml := slideXML(t, data)
			assert.Equal(t, len(recs), count)
			for _, r := range recs {
				assert.Contains(t, xml, r.Header)
			}
			assert.Contains(t, xml, "Source: Alpha Book")
			assert.Contains(t, xml, "Source: Gamma Paper")
			assert.NotContains(t, xml, "Source: Beta")
		})
	}
}

func TestRender_EmptyDeck(t *testing.T) {
	_, err := Render(&Deck{})
	assert.ErrorIs(t, err, model.ErrRenderFailed)
}

var runProps = regexp.MustCompile(`<a:rPr\b[^>]*>`)

// citationRuns counts 8pt italic runs.
func citationRuns(xml string) int {
	n := 0
	for _, tag := range runProps.FindAllString(xml, -1) {
		if strings.Contains(tag, `sz="800"`) && strings.Contains(tag, `i="1"`) {
			n++
		}
	}
	return n
}

func TestRender_CitationStyleAndBackground(t *testing.T) {
	recs := []model.SlideRecord{
		{Header: "Cited", Content: "Body text.", Citation: "Atlas"},
		{Header: "Uncited", Content: "Body text."},
	}

	t.Run("Default theme", func(t *testing.T) {
		data, err := Render(Build("Maps", model.PresentationConfig{}, recs))
		require.NoError(t, err)
		_, xml := slideXML(t, data)

		assert.Equal(t, 1, citationRuns(xml), "only the cited slide gets an 8pt italic run")
		assert.Regexp(t, `(?i)<a:srgbClr val="FFFFFF"`, xml, "white background fill")
	})

	t.Run("Background from theme", func(t *testing.T) {
		cfg := model.PresentationConfig{Theme: map[string]interface{}{"background": "#EEEEEE"}}
		data, err := Render(Build("Maps", cfg, recs))
		require.NoError(t, err)
		_, xml := slideXML(t, data)

		assert.Regexp(t, `(?i)<a:srgbClr val="EEEEEE"`, xml)
		assert.Equal(t, 1, citationRuns(xml))
	})
}
