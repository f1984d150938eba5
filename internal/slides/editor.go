package slides

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

// ErrIndexOutOfRange is returned by list operations given an index outside the list.
var ErrIndexOutOfRange = errors.New("slide index out of range")

// DuplicateTitleSuffix is appended to the title of a duplicated slide.
const DuplicateTitleSuffix = " (kopie)"

func checkIndex[E any](list []E, i int) error {
	if i < 0 || i >= len(list) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(list))
	}
	return nil
}

// Clone deep-copies a slide so the copy shares no slices with the original.
func Clone(s models.Slide) models.Slide {
	c := s
	c.Stats = append([]models.Stat(nil), s.Stats...)
	c.Content = append([]string(nil), s.Content...)
	c.Features = append([]models.Feature(nil), s.Features...)
	c.Info = append([]models.InfoItem(nil), s.Info...)
	return c
}

// CloneList copies the list and every slide in it.
func CloneList(list []models.Slide) []models.Slide {
	out := make([]models.Slide, len(list))
	for i, s := range list {
		out[i] = Clone(s)
	}
	return out
}

// The list operations below never modify their input. They work on decoded
// slides and on raw stored elements alike.

// Append returns a new list with e at the end.
func Append[E any](list []E, e E) []E {
	out := make([]E, 0, len(list)+1)
	out = append(out, list...)
	return append(out, e)
}

// Replace returns a new list with the element at i swapped for e.
func Replace[E any](list []E, i int, e E) ([]E, error) {
	if err := checkIndex(list, i); err != nil {
		return nil, err
	}
	out := append([]E(nil), list...)
	out[i] = e
	return out, nil
}

// Delete returns a new list without the element at i.
func Delete[E any](list []E, i int) ([]E, error) {
	if err := checkIndex(list, i); err != nil {
		return nil, err
	}
	out := make([]E, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// Move returns a new list with the element at from relocated to index to.
func Move[E any](list []E, from, to int) ([]E, error) {
	if err := checkIndex(list, from); err != nil {
		return nil, err
	}
	if err := checkIndex(list, to); err != nil {
		return nil, err
	}
	out := append([]E(nil), list...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]E{moved}, out[to:]...)...)
	return out, nil
}

// duplicateIdentity returns the id and title of a copy: "<id>-copy", or
// "slide-<uuid>" when the original has none, and the title with the
// duplicate suffix.
func duplicateIdentity(id, title string) (string, string) {
	if id != "" {
		id += "-copy"
	} else {
		id = "slide-" + uuid.NewString()
	}
	if title != "" {
		title += DuplicateTitleSuffix
	}
	return id, title
}

// Duplicate appends a deep copy of the slide at i with a new identity.
func Duplicate(list []models.Slide, i int) ([]models.Slide, error) {
	if err := checkIndex(list, i); err != nil {
		return nil, err
	}
	dup := Clone(list[i])
	dup.ID, dup.Title = duplicateIdentity(dup.ID, dup.Title)
	return Append(list, dup), nil
}

// DuplicateRaw is Duplicate for stored elements. Every key of the original
// object is carried over, including ones the display does not know.
func DuplicateRaw(list []json.RawMessage, i int) ([]json.RawMessage, error) {
	if err := checkIndex(list, i); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(list[i], &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("slide %d is not an object", i)
	}

	var current struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	// mistyped id or title count as absent
	_ = json.Unmarshal(list[i], &current)

	id, title := duplicateIdentity(current.ID, current.Title)
	fields["id"], _ = json.Marshal(id)
	if title != "" {
		fields["title"], _ = json.Marshal(title)
	}
	dup, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode duplicate: %w", err)
	}
	return Append(list, json.RawMessage(dup)), nil
}

// Match is a filtered slide together with its index in the full list.
type Match struct {
	Index int          `json:"index"`
	Slide models.Slide `json:"slide"`
}

// Filter returns the slides whose title, id, subtitle or type contains q,
// case-insensitively. A blank query matches everything.
func Filter(list []models.Slide, q string) []Match {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Match, 0, len(list))
	for i, s := range list {
		if q == "" ||
			strings.Contains(strings.ToLower(s.Title), q) ||
			strings.Contains(strings.ToLower(s.ID), q) ||
			strings.Contains(strings.ToLower(s.Subtitle), q) ||
			strings.Contains(strings.ToLower(s.Type), q) {
			out = append(out, Match{Index: i, Slide: s})
		}
	}
	return out
}
