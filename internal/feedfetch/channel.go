package feedfetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ChannelInfo is what the discovery flow learns about a YouTube channel.
type ChannelInfo struct {
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	FeedURL   string `json:"feed_url"`
}

// ChannelResolver turns a YouTube channel page URL into a channel id and its
// uploads feed URL by scraping the page metadata.
type ChannelResolver struct {
	httpClient *http.Client
}

// NewChannelResolver creates a new channel resolver
func NewChannelResolver(timeout time.Duration) *ChannelResolver {
	return &ChannelResolver{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Resolve fetches a channel page and extracts its identity.
func (r *ChannelResolver) Resolve(ctx context.Context, pageURL string) (*ChannelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Radar/1.0 (+https://radar.local)")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel page: %w", err)
	}

	info := &ChannelInfo{}
	if id, ok := doc.Find(`meta[itemprop="identifier"]`).Attr("content"); ok {
		info.ChannelID = id
	}
	if info.ChannelID == "" {
		if id, ok := doc.Find(`meta[itemprop="channelId"]`).Attr("content"); ok {
			info.ChannelID = id
		}
	}
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		info.Title = title
	}
	if feedURL, ok := doc.Find(`link[rel="alternate"][type="application/rss+xml"]`).Attr("href"); ok {
		info.FeedURL = feedURL
	}

	if info.ChannelID == "" {
		return nil, fmt.Errorf("no channel id found at %s", pageURL)
	}
	if info.FeedURL == "" {
		info.FeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=" + info.ChannelID
	}

	return info, nil
}
