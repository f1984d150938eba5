package models

// NewsItem is one entry of the scrolling ticker.
type NewsItem struct {
	Time string `json:"time"`
	Text string `json:"text"`
}

// SiteConfig is the admin-editable display configuration stored in config.json.
type SiteConfig struct {
	RSSURL             string `json:"rssUrl"`
	NewsRefreshMinutes int    `json:"newsRefreshMinutes"`
}
