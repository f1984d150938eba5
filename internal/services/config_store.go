package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/internal/news"
	"github.com/mcmusabe/blokhut-display/pkg/jsonfile"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// DefaultSiteConfig is written to config.json the first time it is read.
var DefaultSiteConfig = models.SiteConfig{
	RSSURL:             news.DefaultRSSURL,
	NewsRefreshMinutes: news.DefaultRefreshMinutes,
}

// ConfigStore manages config.json.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore returns a store for filePath.
func NewConfigStore(filePath string) *ConfigStore {
	return &ConfigStore{filePath: filePath}
}

// Get returns the stored config, creating the file with defaults if it does
// not exist yet.
func (s *ConfigStore) Get() (models.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if errors.Is(err, os.ErrNotExist) {
		if werr := jsonfile.WriteAtomic(s.filePath, DefaultSiteConfig); werr != nil {
			logx.Warn().Err(werr).Msg("failed to write default config")
		}
		return DefaultSiteConfig, nil
	}
	if err != nil {
		return models.SiteConfig{}, errx.WrapStorage(err)
	}
	return cfg, nil
}

// Merge shallow-merges the JSON object patch into the stored config.
// rssUrl must be a string when present; newsRefreshMinutes is clamped.
func (s *ConfigStore) Merge(patch map[string]json.RawMessage) (models.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := map[string]json.RawMessage{}
	if err := jsonfile.Read(s.filePath, &current); err != nil && !errors.Is(err, os.ErrNotExist) {
		logx.Warn().Err(err).Msg("unreadable config, merging onto empty")
		current = map[string]json.RawMessage{}
	}
	for k, v := range patch {
		current[k] = v
	}

	if raw, ok := current["rssUrl"]; ok && string(raw) != "null" {
		var u string
		if err := json.Unmarshal(raw, &u); err != nil {
			return models.SiteConfig{}, errx.BadRequest(err, "rssUrl must be a string")
		}
	}
	if raw, ok := current["newsRefreshMinutes"]; ok {
		var m float64
		if err := json.Unmarshal(raw, &m); err != nil {
			return models.SiteConfig{}, errx.BadRequest(err, "newsRefreshMinutes must be a number")
		}
		// Bound before converting; int(m) is undefined for huge values.
		switch {
		case m > news.MaxRefreshMinutes:
			m = news.MaxRefreshMinutes
		case m < 0:
			m = 0
		}
		clamped, _ := json.Marshal(news.ClampRefreshMinutes(int(m)))
		current["newsRefreshMinutes"] = clamped
	}

	if err := jsonfile.WriteAtomic(s.filePath, current); err != nil {
		return models.SiteConfig{}, errx.WrapStorage(fmt.Errorf("failed to save config: %w", err))
	}

	cfg, err := s.read()
	if err != nil {
		return models.SiteConfig{}, errx.WrapStorage(err)
	}
	logx.Info().Str("rssUrl", cfg.RSSURL).Int("newsRefreshMinutes", cfg.NewsRefreshMinutes).Msg("config saved")
	return cfg, nil
}

// Must be called with mu held.
func (s *ConfigStore) read() (models.SiteConfig, error) {
	var cfg models.SiteConfig
	if err := jsonfile.Read(s.filePath, &cfg); err != nil {
		return models.SiteConfig{}, err
	}
	return cfg, nil
}
