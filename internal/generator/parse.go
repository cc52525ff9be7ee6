package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"slide-generator/internal/model"
)

// StripFences removes a markdown code fence around the reply:
// a leading "```json" (or bare "```") line and a trailing "```" line.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(strings.TrimPrefix(text, "```json"), "```")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// rawSlide допускает content как строку или как список пунктов.
type rawSlide struct {
	Header   string          `json:"header"`
	Content  json.RawMessage `json:"content"`
	Citation *string         `json:"citation"`
}

func (r rawSlide) content() (string, error) {
	if len(r.Content) == 0 || string(r.Content) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s, nil
	}
	var parts []string
	if err := json.Unmarshal(r.Content, &parts); err != nil {
		return "", err
	}
	return strings.Join(parts, "\n"), nil
}

// ParseSlides parses a backend reply into slide records.
// The reply must be a non-empty JSON array of objects with non-empty header and content.
func ParseSlides(text string) ([]model.SlideRecord, error) {
	cleaned := StripFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty reply", model.ErrMalformedReply)
	}

	var raw []rawSlide
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedReply, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no slides in reply", model.ErrMalformedReply)
	}

	records := make([]model.SlideRecord, 0, len(raw))
	for i, r := range raw {
		content, err := r.content()
		if err != nil {
			return nil, fmt.Errorf("%w: slide %d: content must be a string", model.ErrMalformedReply, i+1)
		}
		header := strings.TrimSpace(r.Header)
		content = strings.TrimSpace(content)
		if header == "" || content == "" {
			return nil, fmt.Errorf("%w: slide %d: header and content are required", model.ErrMalformedReply, i+1)
		}
		rec := model.SlideRecord{Header: header, Content: content}
		if r.Citation != nil {
			rec.Citation = strings.TrimSpace(*r.Citation)
		}
		records = append(records, rec)
	}
	return records, nil
}
