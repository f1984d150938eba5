package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Slide types understood by the display. Anything else renders as a regular slide.
const (
	SlideTypeWelcome = "welcome"
	SlideTypeVideo   = "video"
	SlideTypeProduct = "product"
	SlideTypeOnline  = "online"
)

// Slide is one unit of carousel content. Optional fields are omitted from the
// stored JSON when empty so that absent stays absent across a save.
type Slide struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	// welcome
	Divider bool   `json:"divider,omitempty"`
	Stats   []Stat `json:"stats,omitempty"`

	// video and product
	Badge  string `json:"badge,omitempty"`
	Video  string `json:"video,omitempty"`
	Poster string `json:"poster,omitempty"`

	Image     string `json:"image,omitempty"`
	Price     Text   `json:"price,omitempty"`
	PriceNote string `json:"priceNote,omitempty"`

	// online
	URL   string `json:"url,omitempty"`
	QR    bool   `json:"qr,omitempty"`
	QRURL string `json:"qrUrl,omitempty"`
	CTA   string `json:"cta,omitempty"`

	// regular slides
	Content  []string   `json:"content,omitempty"`
	Features []Feature  `json:"features,omitempty"`
	Info     []InfoItem `json:"info,omitempty"`
	Phone    string     `json:"phone,omitempty"`
}

// Stat is a number/label pair shown in a welcome slide's stats row.
type Stat struct {
	Number Text   `json:"number"`
	Label  string `json:"label"`
}

// Feature is one card of a features grid.
type Feature struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// InfoItem is one label/value card of an info grid.
type InfoItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Text is a display string that also accepts a bare JSON number, since
// hand-edited slide files carry prices and stats either way.
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("text must be a string or number: %w", err)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}

// DecodeSlide reads one stored slide leniently. Fields with the wrong JSON
// type are skipped and reported in the error; the rest of the slide is
// still returned. Anything that is not an object decodes to an empty slide.
func DecodeSlide(raw json.RawMessage) (Slide, error) {
	var s Slide
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Slide{}, fmt.Errorf("slide is not an object: %w", err)
	}

	s = Slide{}
	var bad []string
	for key, value := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err == nil {
			err = json.Unmarshal(one, &s)
		}
		if err != nil {
			bad = append(bad, key)
		}
	}
	sort.Strings(bad)
	return s, fmt.Errorf("skipped mistyped slide fields: %s", strings.Join(bad, ", "))
}

// DecodeSlides decodes every stored slide with DecodeSlide. The result
// always has one slide per element; problems are joined into the error.
func DecodeSlides(raws []json.RawMessage) ([]Slide, error) {
	out := make([]Slide, len(raws))
	var errs []error
	for i, raw := range raws {
		s, err := DecodeSlide(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("slide %d: %w", i, err))
		}
		out[i] = s
	}
	return out, errors.Join(errs...)
}
