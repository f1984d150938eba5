package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		slide models.Slide
		lite  bool
		want  Layout
	}{
		{"product with image", models.Slide{Type: "product", Title: "X", Image: "i.jpg"}, false, ProductWithImageLayout},
		{"product without image", models.Slide{Type: "product", Title: "X"}, false, GenericLayout},
		{"video", models.Slide{Type: "video", Video: "v.mp4"}, false, VideoLayout},
		{"video lite", models.Slide{Type: "video", Video: "v.mp4"}, true, VideoLitePlaceholder},
		{"video without path", models.Slide{Type: "video", Title: "V"}, false, GenericLayout},
		{"video without path lite", models.Slide{Type: "video"}, true, GenericLayout},
		{"welcome", models.Slide{Type: "welcome"}, false, WelcomeLayout},
		{"online", models.Slide{Type: "online", URL: "x"}, false, GenericLayout},
		{"untyped with image", models.Slide{Image: "i.jpg"}, false, GenericLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.slide, tt.lite); got != tt.want {
				t.Errorf("Resolve = %s, want %s", got, tt.want)
			}
		})
	}
}

func kinds(els []Element) []ElementKind {
	out := make([]ElementKind, len(els))
	for i, e := range els {
		out[i] = e.Kind
	}
	return out
}

func TestBuildProductWithImage(t *testing.T) {
	b := Build(0, models.Slide{Type: "product", Title: "X", Image: "i.jpg", Price: "€ 10", PriceNote: "incl. btw"}, Options{AssetBaseURL: "https://cdn.example.com/"})

	if b.Layout != ProductWithImageLayout {
		t.Fatalf("layout = %s", b.Layout)
	}
	want := []ElementKind{KindTitle, KindPrice, KindPriceNote, KindImage}
	if diff := cmp.Diff(want, kinds(b.Elements)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	img := b.Elements[len(b.Elements)-1]
	if img.Src != "https://cdn.example.com/i.jpg" {
		t.Errorf("image src = %q", img.Src)
	}
	if b.Class != "slide product-slide" {
		t.Errorf("class = %q", b.Class)
	}
}

func TestBuildProductWithoutImageIsGeneric(t *testing.T) {
	b := Build(0, models.Slide{Type: "product", Title: "X"}, Options{})
	if b.Layout != GenericLayout {
		t.Fatalf("layout = %s", b.Layout)
	}
	if diff := cmp.Diff([]ElementKind{KindTitle}, kinds(b.Elements)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOmitsAbsentFields(t *testing.T) {
	b := Build(0, models.Slide{}, Options{})
	if len(b.Elements) != 0 {
		t.Errorf("empty slide produced elements %v", kinds(b.Elements))
	}
	if b.Class != "slide" {
		t.Errorf("class = %q", b.Class)
	}
}

func TestBuildPriceNoteNeedsPrice(t *testing.T) {
	b := Build(0, models.Slide{PriceNote: "alleen vandaag"}, Options{})
	if len(b.Elements) != 0 {
		t.Errorf("price note without price rendered: %v", kinds(b.Elements))
	}
}

func TestBuildGenericOrder(t *testing.T) {
	s := models.Slide{
		Type:     "welcome",
		Badge:    "b",
		Title:    "t",
		Divider:  true,
		Subtitle: "s",
		Stats:    []models.Stat{{Number: "1", Label: "l"}},
		URL:      "https://example.com",
		Content:  []string{"c"},
		Features: []models.Feature{{Title: "f"}},
		Info:     []models.InfoItem{{Label: "k", Value: "v"}},
		Phone:    "0575",
		Price:    "1",
		CTA:      "go",
		QR:       true,
	}
	want := []ElementKind{
		KindBadge, KindTitle, KindDivider, KindSubtitle, KindStats, KindURL, KindList,
		KindFeatures, KindInfo, KindPhone, KindPrice, KindCTA, KindQR,
	}
	b := Build(3, s, Options{})
	if b.Layout != WelcomeLayout || b.Index != 3 {
		t.Fatalf("block = %+v", b)
	}
	if diff := cmp.Diff(want, kinds(b.Elements)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildVideo(t *testing.T) {
	s := models.Slide{Type: "video", Video: "assets/videos/tour.mp4", Poster: "assets/images/tour.jpg", Title: "Tour"}

	full := Build(0, s, Options{})
	if full.Media == nil || full.Media.Src != "assets/videos/tour.mp4" || full.Media.Poster != "assets/images/tour.jpg" {
		t.Fatalf("media = %+v", full.Media)
	}

	lite := Build(0, s, Options{Lite: true})
	if lite.Media != nil {
		t.Error("lite block carries media")
	}
	if diff := cmp.Diff([]ElementKind{KindPlaceholder, KindTitle}, kinds(lite.Elements)); diff != "" {
		t.Errorf("lite elements mismatch (-want +got):\n%s", diff)
	}
}

func TestQRData(t *testing.T) {
	tests := []struct {
		name  string
		slide models.Slide
		want  string
	}{
		{"url", models.Slide{URL: "https://example.com/a", QR: true}, "example.com/a"},
		{"qrUrl wins", models.Slide{URL: "https://example.com/a", QRURL: "http://foo.bar", QR: true}, "foo.bar"},
		{"fallback", models.Slide{QR: true}, QRFallback},
		{"bare", models.Slide{URL: "shop.example.com"}, "shop.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QRData(tt.slide); got != tt.want {
				t.Errorf("QRData = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQRElementSource(t *testing.T) {
	b := Build(0, models.Slide{QR: true, URL: "https://example.com/a b"}, Options{})
	qr := b.Elements[len(b.Elements)-1]
	if qr.Kind != KindQR {
		t.Fatalf("last element = %s", qr.Kind)
	}
	if qr.Src != "/api/qr?data=example.com%2Fa+b" {
		t.Errorf("src = %q", qr.Src)
	}
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("example.com/a", 0)
	if err != nil {
		t.Fatalf("QRPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("output is not a PNG")
	}
}

func TestHTMLEscapesAndSelectsLayout(t *testing.T) {
	product, err := HTML(Build(0, models.Slide{Type: "product", Title: "<b>X</b>", Image: "i.jpg"}, Options{}))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(product, "product-image-container") {
		t.Error("product markup missing image container")
	}
	if strings.Contains(product, "<b>X</b>") {
		t.Error("title not escaped")
	}

	lite, err := HTML(Build(1, models.Slide{Type: "video", Video: "v.mp4", Title: "T"}, Options{Lite: true}))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(lite, "video-placeholder") || strings.Contains(lite, "<video") {
		t.Errorf("lite markup = %s", lite)
	}

	video, err := HTML(Build(2, models.Slide{Type: "video", Video: "v.mp4"}, Options{}))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(video, `data-src="v.mp4"`) {
		t.Errorf("video markup = %s", video)
	}
}
