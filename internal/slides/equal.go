package slides

import "github.com/mcmusabe/blokhut-display/internal/models"

// SameTitles is the display's change check: two sequences count as equal
// when they have the same length and the same title at every position.
// Edits to any other field, or a reorder that keeps titles in place, are
// not detected. The display relies on this staying cheap.
func SameTitles(a, b []models.Slide) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Title != b[i].Title {
			return false
		}
	}
	return true
}
