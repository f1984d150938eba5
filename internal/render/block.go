package render

import (
	"net/url"
	"strings"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

// ElementKind identifies one piece of slide markup.
type ElementKind string

const (
	KindBadge       ElementKind = "badge"
	KindTitle       ElementKind = "title"
	KindDivider     ElementKind = "divider"
	KindSubtitle    ElementKind = "subtitle"
	KindStats       ElementKind = "stats"
	KindURL         ElementKind = "url"
	KindList        ElementKind = "list"
	KindFeatures    ElementKind = "features"
	KindInfo        ElementKind = "info"
	KindPhone       ElementKind = "phone"
	KindPrice       ElementKind = "price"
	KindPriceNote   ElementKind = "priceNote"
	KindCTA         ElementKind = "cta"
	KindQR          ElementKind = "qr"
	KindImage       ElementKind = "image"
	KindPlaceholder ElementKind = "placeholder"
)

// QRLabel is shown under every QR code.
const QRLabel = "Scan voor meer info"

// Element is a single render instruction.
type Element struct {
	Kind  ElementKind `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Src   string      `json:"src,omitempty"`
	Alt   string      `json:"alt,omitempty"`
	Items []Item      `json:"items,omitempty"`
}

// Item is one entry of a repeated element (stats, features, info, list).
type Item struct {
	Icon  string `json:"icon,omitempty"`
	Title string `json:"title,omitempty"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Media is the playable asset of a block. Surfaces load it only while the
// block is active.
type Media struct {
	Src    string `json:"src"`
	Poster string `json:"poster,omitempty"`
}

// Block is the render instruction set for one slide.
type Block struct {
	Index    int       `json:"index"`
	Layout   Layout    `json:"layout"`
	Class    string    `json:"class"`
	Elements []Element `json:"elements"`
	Media    *Media    `json:"media,omitempty"`
}

// Options control asset resolution and lite mode.
type Options struct {
	Lite bool
	// AssetBaseURL is prepended to relative asset paths when set.
	AssetBaseURL string
	// QRPath is the endpoint serving QR images; defaults to /api/qr.
	QRPath string
}

// BuildAll builds one block per slide, in order.
func BuildAll(list []models.Slide, opts Options) []Block {
	out := make([]Block, len(list))
	for i, s := range list {
		out[i] = Build(i, s, opts)
	}
	return out
}

// Build produces the render instructions for the slide at index i.
func Build(i int, s models.Slide, opts Options) Block {
	layout := Resolve(s, opts.Lite)
	b := Block{
		Index:  i,
		Layout: layout,
		Class:  className(s),
	}

	switch layout {
	case VideoLayout:
		b.Elements = overlay(s)
		b.Media = &Media{Src: opts.asset(s.Video)}
		if s.Poster != "" {
			b.Media.Poster = opts.asset(s.Poster)
		}
	case VideoLitePlaceholder:
		b.Elements = append([]Element{{Kind: KindPlaceholder}}, overlay(s)...)
	case ProductWithImageLayout:
		b.Elements = productElements(s, opts)
	default:
		b.Elements = genericElements(s, opts)
	}
	return b
}

func className(s models.Slide) string {
	if s.Type == "" {
		return "slide"
	}
	return "slide " + s.Type + "-slide"
}

func overlay(s models.Slide) []Element {
	var els []Element
	els = appendText(els, KindBadge, s.Badge)
	els = appendText(els, KindTitle, s.Title)
	els = appendText(els, KindSubtitle, s.Subtitle)
	return els
}

func productElements(s models.Slide, opts Options) []Element {
	els := overlay(s)
	els = appendPrice(els, s)
	els = appendText(els, KindCTA, s.CTA)
	return append(els, Element{
		Kind: KindImage,
		Src:  opts.asset(s.Image),
		Alt:  s.Title,
		Text: "Foto: " + s.Image,
	})
}

func genericElements(s models.Slide, opts Options) []Element {
	var els []Element
	els = appendText(els, KindBadge, s.Badge)
	els = appendText(els, KindTitle, s.Title)
	if s.Divider {
		els = append(els, Element{Kind: KindDivider})
	}
	els = appendText(els, KindSubtitle, s.Subtitle)

	if len(s.Stats) > 0 {
		items := make([]Item, len(s.Stats))
		for i, st := range s.Stats {
			items[i] = Item{Value: st.Number.String(), Label: st.Label}
		}
		els = append(els, Element{Kind: KindStats, Items: items})
	}

	els = appendText(els, KindURL, s.URL)

	if len(s.Content) > 0 {
		items := make([]Item, len(s.Content))
		for i, c := range s.Content {
			items[i] = Item{Text: c}
		}
		els = append(els, Element{Kind: KindList, Items: items})
	}

	if len(s.Features) > 0 {
		items := make([]Item, len(s.Features))
		for i, f := range s.Features {
			items[i] = Item{Icon: f.Icon, Title: f.Title, Text: f.Description}
		}
		els = append(els, Element{Kind: KindFeatures, Items: items})
	}

	if len(s.Info) > 0 {
		items := make([]Item, len(s.Info))
		for i, in := range s.Info {
			items[i] = Item{Label: in.Label, Value: in.Value}
		}
		els = append(els, Element{Kind: KindInfo, Items: items})
	}

	els = appendText(els, KindPhone, s.Phone)
	els = appendPrice(els, s)
	els = appendText(els, KindCTA, s.CTA)

	if s.QR {
		data := QRData(s)
		els = append(els, Element{
			Kind: KindQR,
			Text: QRLabel,
			Alt:  data,
			Src:  opts.qrSrc(data),
		})
	}
	return els
}

func appendText(els []Element, kind ElementKind, text string) []Element {
	if text == "" {
		return els
	}
	return append(els, Element{Kind: kind, Text: text})
}

// A price note only shows together with a price.
func appendPrice(els []Element, s models.Slide) []Element {
	if s.Price == "" {
		return els
	}
	els = append(els, Element{Kind: KindPrice, Text: s.Price.String()})
	return appendText(els, KindPriceNote, s.PriceNote)
}

func (o Options) asset(path string) string {
	if o.AssetBaseURL == "" || path == "" ||
		strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(o.AssetBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (o Options) qrSrc(data string) string {
	p := o.QRPath
	if p == "" {
		p = "/api/qr"
	}
	return p + "?data=" + url.QueryEscape(data)
}
