package news

import (
	"time"
	"unicode/utf8"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

const (
	// ScrollSpeed is the ticker speed in pixels per second.
	ScrollSpeed = 35.0
	MinDuration = 40 * time.Second
	MaxDuration = 90 * time.Second

	// itemGap approximates the horizontal padding around one ticker item.
	itemGap = 80.0
)

// Ticker is what the display scrolls: the items twice over, for a seamless
// loop, and the duration of one full pass.
type Ticker struct {
	Items     []models.NewsItem `json:"items"`
	Duration  time.Duration     `json:"-"`
	Seconds   float64           `json:"durationSeconds"`
	Source    Source            `json:"source"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewTicker builds a ticker for items. glyphWidth is the average rendered
// width of one character in pixels.
func NewTicker(items []models.NewsItem, glyphWidth float64, source Source) Ticker {
	d := TickerDuration(ContentWidth(items, glyphWidth))
	return Ticker{
		Items:    Duplicate(items),
		Duration: d,
		Seconds:  d.Seconds(),
		Source:   source,
	}
}

// Duplicate returns items followed by a second copy of items.
func Duplicate(items []models.NewsItem) []models.NewsItem {
	out := make([]models.NewsItem, 0, 2*len(items))
	out = append(out, items...)
	return append(out, items...)
}

// ContentWidth estimates the width of one pass of the ticker in pixels.
func ContentWidth(items []models.NewsItem, glyphWidth float64) float64 {
	var w float64
	for _, it := range items {
		chars := utf8.RuneCountInString(it.Time) + utf8.RuneCountInString(it.Text)
		w += float64(chars)*glyphWidth + itemGap
	}
	return w
}

// TickerDuration converts a content width into a scroll duration, clamped
// to [MinDuration, MaxDuration] so short and long feeds stay readable.
func TickerDuration(widthPx float64) time.Duration {
	d := time.Duration(widthPx / ScrollSpeed * float64(time.Second))
	if d < MinDuration {
		return MinDuration
	}
	if d > MaxDuration {
		return MaxDuration
	}
	return d
}
