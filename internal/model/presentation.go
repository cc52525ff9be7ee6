package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Layout - шаблон слайда.
type Layout string

const (
	LayoutTitle            Layout = "title"
	LayoutBulletPoints     Layout = "bullet_points"
	LayoutTwoColumn        Layout = "two_column"
	LayoutContentWithImage Layout = "content_with_image"
)

// DefaultLayout is used when the config has no layout or an unknown one.
const DefaultLayout = LayoutBulletPoints

// ParseLayout maps a layout name onto a known Layout, falling back to DefaultLayout.
func ParseLayout(name string) Layout {
	switch Layout(name) {
	case LayoutTitle, LayoutBulletPoints, LayoutTwoColumn, LayoutContentWithImage:
		return Layout(name)
	default:
		return DefaultLayout
	}
}

// Recognised config keys.
const (
	ConfigKeyTheme     = "theme"
	ConfigKeyNumSlides = "num_slides"
	ConfigKeyLayout    = "layout"
)

// PresentationConfig is the client supplied configuration of a presentation.
// Only keys the client actually sent are set; defaults are applied when the deck is built.
// Unknown keys are kept verbatim in Extra so they survive merges and are echoed back.
type PresentationConfig struct {
	Theme     map[string]interface{}
	NumSlides *int
	Layout    *string
	Extra     map[string]json.RawMessage
}

// SlideCount returns the requested number of slides or def when none was set.
func (c PresentationConfig) SlideCount(def int) int {
	if c.NumSlides == nil {
		return def
	}
	return *c.NumSlides
}

// LayoutName returns the effective layout.
func (c PresentationConfig) LayoutName() Layout {
	if c.Layout == nil {
		return DefaultLayout
	}
	return ParseLayout(*c.Layout)
}

// Validate checks the slide count against [1, maxSlides].
func (c PresentationConfig) Validate(maxSlides int) error {
	if c.NumSlides == nil {
		return nil
	}
	if *c.NumSlides > maxSlides {
		return fmt.Errorf("%w: maximum %d slides allowed", ErrTooManySlides, maxSlides)
	}
	if *c.NumSlides < 1 {
		return fmt.Errorf("%w: num_slides must be positive", ErrTooFewSlides)
	}
	return nil
}

// Clone returns a copy that shares no maps with c.
func (c PresentationConfig) Clone() PresentationConfig {
	out := PresentationConfig{}
	if c.Theme != nil {
		out.Theme = make(map[string]interface{}, len(c.Theme))
		for k, v := range c.Theme {
			out.Theme[k] = v
		}
	}
	if c.NumSlides != nil {
		n := *c.NumSlides
		out.NumSlides = &n
	}
	if c.Layout != nil {
		l := *c.Layout
		out.Layout = &l
	}
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// Merge applies patch on top of a copy of c. Keys in patch overwrite same-named keys,
// everything else is retained. A null value removes the key.
func (c PresentationConfig) Merge(patch map[string]json.RawMessage) (PresentationConfig, error) {
	out := c.Clone()
	if err := out.apply(patch); err != nil {
		return c, err
	}
	return out, nil
}

func (c *PresentationConfig) apply(raw map[string]json.RawMessage) error {
	for key, value := range raw {
		isNull := len(bytes.TrimSpace(value)) == 0 || bytes.Equal(bytes.TrimSpace(value), []byte("null"))
		switch key {
		case ConfigKeyNumSlides:
			if isNull {
				c.NumSlides = nil
				continue
			}
			var n int
			if err := json.Unmarshal(value, &n); err != nil {
				return fmt.Errorf("%w: num_slides must be an integer", ErrInvalidConfig)
			}
			c.NumSlides = &n
		case ConfigKeyLayout:
			if isNull {
				c.Layout = nil
				continue
			}
			var l string
			if err := json.Unmarshal(value, &l); err != nil {
				return fmt.Errorf("%w: layout must be a string", ErrInvalidConfig)
			}
			c.Layout = &l
		case ConfigKeyTheme:
			if isNull {
				c.Theme = nil
				continue
			}
			var theme map[string]interface{}
			if err := json.Unmarshal(value, &theme); err != nil {
				return fmt.Errorf("%w: theme must be an object", ErrInvalidConfig)
			}
			c.Theme = theme
		default:
			if isNull {
				delete(c.Extra, key)
				continue
			}
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return nil
}

// UnmarshalJSON decodes a config object.
func (c *PresentationConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: config must be an object", ErrInvalidConfig)
	}
	*c = PresentationConfig{}
	return c.apply(raw)
}

// MarshalJSON encodes only the keys that are set.
func (c PresentationConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.Theme != nil {
		out[ConfigKeyTheme] = c.Theme
	}
	if c.NumSlides != nil {
		out[ConfigKeyNumSlides] = *c.NumSlides
	}
	if c.Layout != nil {
		out[ConfigKeyLayout] = *c.Layout
	}
	return json.Marshal(out)
}

// Presentation - метаданные сгенерированной презентации.
type Presentation struct {
	ID        string             `json:"id"`
	Topic     string             `json:"topic"`
	Config    PresentationConfig `json:"config"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	FilePath  string             `json:"file_path"`
}

// Clone returns a deep copy of p.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	out := *p
	out.Config = p.Config.Clone()
	return &out
}

// SlideRecord is one slide as produced by the content generator.
type SlideRecord struct {
	Header   string `json:"header"`
	Content  string `json:"content"`
	Citation string `json:"citation,omitempty"`
}

// HasCitation reports whether a citation textbox should be rendered.
func (r SlideRecord) HasCitation() bool {
	return r.Citation != ""
}
