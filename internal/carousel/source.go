package carousel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// HTTPSource reads slides from a remote JSON endpoint, defeating caches
// with a changing t query parameter.
type HTTPSource struct {
	URL    string
	Client *http.Client
	now    func() time.Time
}

// NewHTTPSource returns a source for rawURL using client (nil means a 10s-timeout client).
func NewHTTPSource(rawURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{URL: rawURL, Client: client, now: time.Now}
}

// FetchSlides GETs the slide array.
func (s *HTTPSource) FetchSlides(ctx context.Context) ([]models.Slide, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid slides url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build slides request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load slides: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load slides: status %d", resp.StatusCode)
	}

	var raws []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode slides: %w", err)
	}
	list, err := models.DecodeSlides(raws)
	if err != nil {
		logx.Warn().Err(err).Str("url", s.URL).Msg("slides decoded with problems")
	}
	return list, nil
}
