// Package render turns slide records into display-neutral render
// instructions. Nothing here touches a display surface.
package render

import "github.com/mcmusabe/blokhut-display/internal/models"

// Layout is the resolved presentation of a slide.
type Layout string

const (
	GenericLayout          Layout = "generic"
	WelcomeLayout          Layout = "welcome"
	VideoLayout            Layout = "video"
	VideoLitePlaceholder   Layout = "video-lite"
	ProductWithImageLayout Layout = "product-image"
)

// Resolve picks the layout for s. A specialised layout needs both the type
// and its defining asset: a video slide without a video path, or a product
// slide without an image, renders as a generic slide.
func Resolve(s models.Slide, lite bool) Layout {
	switch {
	case s.Type == models.SlideTypeVideo && s.Video != "":
		if lite {
			return VideoLitePlaceholder
		}
		return VideoLayout
	case s.Type == models.SlideTypeProduct && s.Image != "":
		return ProductWithImageLayout
	case s.Type == models.SlideTypeWelcome:
		return WelcomeLayout
	default:
		return GenericLayout
	}
}

// HasMedia reports whether the layout plays a media asset when active.
func (l Layout) HasMedia() bool {
	return l == VideoLayout
}
