package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var blockTemplate = template.Must(template.New("block").Parse(`
{{- define "el" -}}
{{- if eq .Kind "badge"}}<span class="product-badge">{{.Text}}</span>
{{- else if eq .Kind "title"}}<h1>{{.Text}}</h1>
{{- else if eq .Kind "divider"}}<div class="divider"></div>
{{- else if eq .Kind "subtitle"}}<p class="subtitle">{{.Text}}</p>
{{- else if eq .Kind "stats"}}<div class="stats-row">{{range .Items}}<div class="stat-item"><div class="stat-number">{{.Value}}</div><div class="stat-label">{{.Label}}</div></div>{{end}}</div>
{{- else if eq .Kind "url"}}<div class="url-display">{{.Text}}</div>
{{- else if eq .Kind "list"}}<ul class="content-list">{{range .Items}}<li>{{.Text}}</li>{{end}}</ul>
{{- else if eq .Kind "features"}}<div class="features-grid">{{range .Items}}<div class="feature-card"><div class="feature-icon">{{.Icon}}</div><h3>{{.Title}}</h3><p>{{.Text}}</p></div>{{end}}</div>
{{- else if eq .Kind "info"}}<div class="info-grid">{{range .Items}}<div class="info-card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>{{end}}</div>
{{- else if eq .Kind "phone"}}<div class="contact-highlight"><div class="phone">{{.Text}}</div></div>
{{- else if eq .Kind "price"}}<p class="price">{{.Text}}</p>
{{- else if eq .Kind "priceNote"}}<p class="price-note">{{.Text}}</p>
{{- else if eq .Kind "cta"}}<p class="cta">{{.Text}}</p>
{{- else if eq .Kind "qr"}}<div class="qr-placeholder"><div class="qr-box qr-real"><img src="{{.Src}}" alt="QR Code" class="qr-image"></div><p class="qr-label">{{.Text}}</p></div>
{{- end -}}
{{- end -}}

{{- define "content" -}}
<div class="slide-content">{{range .}}{{if and (ne .Kind "image") (ne .Kind "placeholder")}}{{template "el" .}}{{end}}{{end}}</div>
{{- end -}}

<div class="{{.Class}}" data-index="{{.Index}}">
{{- if eq .Layout "video" -}}
<div class="video-container"><video class="slide-video" preload="none" muted loop playsinline data-src="{{.Media.Src}}"{{if .Media.Poster}} poster="{{.Media.Poster}}"{{end}}><source type="video/mp4"></video><div class="video-overlay">{{template "content" .Elements}}</div></div>
{{- else if eq .Layout "video-lite" -}}
<div class="video-container video-container--lite"><div class="video-placeholder"></div><div class="video-overlay">{{template "content" .Elements}}</div></div>
{{- else if eq .Layout "product-image" -}}
{{template "content" .Elements}}{{range .Elements}}{{if eq .Kind "image"}}<div class="product-image-container"><img src="{{.Src}}" alt="{{.Alt}}" class="product-image" data-fallback="{{.Text}}"></div>{{end}}{{end}}
{{- else -}}
{{template "content" .Elements}}
{{- end -}}
</div>`))

// HTML renders a block as kiosk markup. All text is escaped.
func HTML(b Block) (string, error) {
	var buf bytes.Buffer
	if err := blockTemplate.Execute(&buf, b); err != nil {
		return "", fmt.Errorf("render block %d: %w", b.Index, err)
	}
	return buf.String(), nil
}
