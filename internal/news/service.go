// Package news keeps the display's ticker fed from an RSS-to-JSON bridge,
// falling back to a cached feed and finally to fixed announcements.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// Source tells where the current ticker items came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

const (
	DefaultRSSURL         = "https://www.gld.nl/rss/index.xml"
	DefaultRefreshMinutes = 5
	MaxRefreshMinutes     = 60
)

// Fallback is shown when neither the bridge nor the cache has anything.
var Fallback = []models.NewsItem{
	{Time: "09:00", Text: "Welkom bij Blokhutwinkel - Europa's grootste showroom in Zutphen"},
	{Time: "09:15", Text: "Meer dan 100 blokhutten en tuinhuizen te bezichtigen"},
	{Time: "09:30", Text: "Gratis advies en 3D tekening bij elke offerte"},
	{Time: "09:45", Text: "Geen aanbetaling nodig - betaal pas bij levering"},
}

var errNoItems = errors.New("no news items")

// ConfigProvider supplies the feed URL and refresh period.
type ConfigProvider interface {
	Get() (models.SiteConfig, error)
}

// Options configures a Service.
type Options struct {
	BridgeURL  string
	Location   *time.Location
	MaxItems   int
	GlyphWidth float64
	Client     *http.Client
}

// Service fetches news and holds the current ticker.
type Service struct {
	opts    Options
	cache   FeedCache
	config  ConfigProvider
	publish func(Ticker)

	mu     sync.RWMutex
	ticker Ticker
}

// NewService returns a service. publish, when non-nil, is called with every
// new ticker.
func NewService(opts Options, cache FeedCache, config ConfigProvider, publish func(Ticker)) *Service {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = 10
	}
	return &Service{opts: opts, cache: cache, config: config, publish: publish}
}

// Current returns the last computed ticker.
func (s *Service) Current() Ticker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticker
}

// Run refreshes the ticker immediately and then after every configured
// period, re-reading the period each time.
func (s *Service) Run(ctx context.Context) error {
	for {
		s.Refresh(ctx)

		timer := time.NewTimer(s.period())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Refresh walks the bridge, cache, fallback chain and installs the first
// non-empty result. It never fails.
func (s *Service) Refresh(ctx context.Context) Ticker {
	items, source := s.load(ctx)

	t := NewTicker(items, s.opts.GlyphWidth, source)
	t.UpdatedAt = time.Now()

	s.mu.Lock()
	s.ticker = t
	s.mu.Unlock()

	if s.publish != nil {
		s.publish(t)
	}
	return t
}

func (s *Service) load(ctx context.Context) ([]models.NewsItem, Source) {
	items, err := s.fetchLive(ctx)
	if err == nil {
		if s.cache != nil {
			if err := s.cache.Store(ctx, items); err != nil {
				logx.Warn().Err(err).Msg("failed to cache news feed")
			}
		}
		logx.Debug().Int("items", len(items)).Msg("live news loaded")
		return items, SourceLive
	}
	logx.Info().Err(err).Msg("falling back to cached news")

	if s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err == nil && len(cached) > 0 {
			return cached, SourceCache
		}
		if err == nil {
			err = errNoItems
		}
		logx.Info().Err(err).Msg("falling back to built-in news")
	}

	return append([]models.NewsItem(nil), Fallback...), SourceFallback
}

type bridgeResponse struct {
	Status string       `json:"status"`
	Items  []bridgeItem `json:"items"`
}

type bridgeItem struct {
	PubDate string `json:"pubDate"`
	Title   string `json:"title"`
}

func (s *Service) fetchLive(ctx context.Context) ([]models.NewsItem, error) {
	rssURL := DefaultRSSURL
	if s.config != nil {
		if cfg, err := s.config.Get(); err == nil && cfg.RSSURL != "" {
			rssURL = cfg.RSSURL
		}
	}

	u, err := url.Parse(s.opts.BridgeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge url: %w", err)
	}
	q := u.Query()
	q.Set("rss_url", rssURL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss fetch failed: status %d", resp.StatusCode)
	}

	var body bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	if body.Status != "ok" || len(body.Items) == 0 {
		return nil, errNoItems
	}

	n := len(body.Items)
	if n > s.opts.MaxItems {
		n = s.opts.MaxItems
	}
	items := make([]models.NewsItem, n)
	for i, it := range body.Items[:n] {
		items[i] = models.NewsItem{
			Time: formatPubDate(it.PubDate, s.opts.Location),
			Text: it.Title,
		}
	}
	return items, nil
}

var pubDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

// formatPubDate renders a bridge pubDate as HH:MM in loc. The bridge sends
// UTC without a zone. Unparseable dates give an empty time.
func formatPubDate(raw string, loc *time.Location) string {
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.In(loc).Format("15:04")
		}
	}
	return ""
}

// ClampRefreshMinutes applies the admin form rule: below 1 means the
// default, above the maximum is capped.
func ClampRefreshMinutes(m int) int {
	if m < 1 {
		return DefaultRefreshMinutes
	}
	if m > MaxRefreshMinutes {
		return MaxRefreshMinutes
	}
	return m
}

func (s *Service) period() time.Duration {
	minutes := DefaultRefreshMinutes
	if s.config != nil {
		if cfg, err := s.config.Get(); err == nil {
			minutes = ClampRefreshMinutes(cfg.NewsRefreshMinutes)
		}
	}
	return time.Duration(minutes) * time.Minute
}
