// Package feedfetch pulls content out of monitored origins: RSS feeds on a
// schedule and YouTube channel pages on demand for the discovery flow.
package feedfetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"radar/internal/models"
	"radar/internal/services"

	"github.com/mmcdole/gofeed"
	"gorm.io/gorm"
)

const maxItemsPerFeed = 50

// RSSFetcher refreshes active RSS sources into the content store.
type RSSFetcher struct {
	db     *gorm.DB
	ingest *services.IngestService
	parser *gofeed.Parser
}

// NewRSSFetcher creates a new RSS fetcher
func NewRSSFetcher(db *gorm.DB, ingest *services.IngestService) *RSSFetcher {
	return &RSSFetcher{
		db:     db,
		ingest: ingest,
		parser: gofeed.NewParser(),
	}
}

// RefreshResult summarizes one refresh pass.
type RefreshResult struct {
	Sources  int
	Inserted int
	Skipped  int
	Errors   []string
}

// RefreshAll fetches every active RSS source across all accounts and
// dedup-inserts its entries. Each source fails independently.
func (f *RSSFetcher) RefreshAll(ctx context.Context) (*RefreshResult, error) {
	var sources []models.Source
	err := f.db.Where("type = ? AND is_active = ?", models.SourceTypeRSS, true).Find(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list RSS sources: %w", err)
	}

	result := &RefreshResult{}
	for i := range sources {
		source := sources[i]
		result.Sources++

		inserted, skipped, err := f.refreshSource(ctx, &source)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", source.URL, err))
			continue
		}
		result.Inserted += inserted
		result.Skipped += skipped
	}

	if result.Inserted > 0 || len(result.Errors) > 0 {
		log.Printf("RSS refresh: %d sources, %d inserted, %d skipped, %d errors",
			result.Sources, result.Inserted, result.Skipped, len(result.Errors))
	}
	return result, nil
}

func (f *RSSFetcher) refreshSource(ctx context.Context, source *models.Source) (int, int, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	inserted, skipped := 0, 0
	for i, entry := range feed.Items {
		if i >= maxItemsPerFeed {
			break
		}

		externalID := entry.GUID
		if externalID == "" {
			externalID = entry.Link
		}
		if externalID == "" {
			continue
		}

		item := models.ContentItem{
			AccountID:   source.AccountID,
			SourceID:    &source.ID,
			TopicID:     source.TopicID,
			Type:        models.ContentTypeArticle,
			Title:       entry.Title,
			Summary:     entry.Description,
			URL:         entry.Link,
			Author:      entryAuthor(entry),
			PublishedAt: entryPublished(entry),
			ExternalID:  "rss:" + externalID,
		}
		if entry.Image != nil {
			item.ThumbnailURL = entry.Image.URL
		}

		created, err := f.ingest.InsertItem(&item)
		if err != nil {
			return inserted, skipped, err
		}
		if created {
			inserted++
		} else {
			skipped++
		}
	}

	return inserted, skipped, nil
}

func entryAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 {
		return entry.Authors[0].Name
	}
	return ""
}

func entryPublished(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}
