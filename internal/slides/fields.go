// Package slides holds the editor-side rules for slide records: which field
// groups belong to which type, and the list operations the admin editor uses.
package slides

import "github.com/mcmusabe/blokhut-display/internal/models"

// FieldGroup names a group of type-specific form fields.
type FieldGroup string

const (
	GroupDivider   FieldGroup = "divider"
	GroupBadge     FieldGroup = "badge"
	GroupImage     FieldGroup = "image"
	GroupVideo     FieldGroup = "video"
	GroupPrice     FieldGroup = "price"
	GroupPriceNote FieldGroup = "priceNote"
	GroupURL       FieldGroup = "url"
	GroupQR        FieldGroup = "qr"
	GroupCTA       FieldGroup = "cta"
)

// AllGroups lists every optional group in form order.
var AllGroups = []FieldGroup{
	GroupDivider, GroupBadge, GroupImage, GroupVideo, GroupPrice,
	GroupPriceNote, GroupURL, GroupQR, GroupCTA,
}

// EffectiveType returns t when it is a known slide type and "" otherwise.
func EffectiveType(t string) string {
	switch t {
	case models.SlideTypeWelcome, models.SlideTypeVideo, models.SlideTypeProduct, models.SlideTypeOnline:
		return t
	default:
		return ""
	}
}

// VisibleGroups returns the optional field groups shown for type t, in form
// order. Unknown types get an empty set: only id, title and subtitle apply.
func VisibleGroups(t string) []FieldGroup {
	switch EffectiveType(t) {
	case models.SlideTypeWelcome:
		return []FieldGroup{GroupDivider}
	case models.SlideTypeVideo:
		return []FieldGroup{GroupBadge, GroupVideo}
	case models.SlideTypeProduct:
		return []FieldGroup{GroupBadge, GroupImage, GroupPrice, GroupPriceNote}
	case models.SlideTypeOnline:
		return []FieldGroup{GroupURL, GroupQR, GroupCTA}
	default:
		return []FieldGroup{}
	}
}

// Visibility maps every group to whether it is shown for type t.
func Visibility(t string) map[FieldGroup]bool {
	out := make(map[FieldGroup]bool, len(AllGroups))
	for _, g := range AllGroups {
		out[g] = false
	}
	for _, g := range VisibleGroups(t) {
		out[g] = true
	}
	return out
}

// Form is the flat editor form. Every field is always present in the form;
// FromForm decides which of them make it into the slide.
type Form struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Divider   bool   `json:"divider"`
	Badge     string `json:"badge"`
	Image     string `json:"image"`
	Video     string `json:"video"`
	Price     string `json:"price"`
	PriceNote string `json:"priceNote"`
	URL       string `json:"url"`
	QR        bool   `json:"qr"`
	CTA       string `json:"cta"`
}

// FromForm builds a slide from the editor form, keeping only non-empty
// fields of the groups visible for the form's type. Nothing is defaulted.
func FromForm(f Form) models.Slide {
	s := models.Slide{
		ID:       f.ID,
		Type:     f.Type,
		Title:    f.Title,
		Subtitle: f.Subtitle,
	}

	for _, g := range VisibleGroups(f.Type) {
		switch g {
		case GroupDivider:
			s.Divider = f.Divider
		case GroupBadge:
			s.Badge = f.Badge
		case GroupImage:
			s.Image = f.Image
		case GroupVideo:
			s.Video = f.Video
		case GroupPrice:
			s.Price = models.Text(f.Price)
		case GroupPriceNote:
			s.PriceNote = f.PriceNote
		case GroupURL:
			s.URL = f.URL
		case GroupQR:
			s.QR = f.QR
		case GroupCTA:
			s.CTA = f.CTA
		}
	}
	return s
}
