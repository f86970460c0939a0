package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"radar/internal/models"

	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ContentService is the query/filter/sort surface over the aggregated items
// table, plus the lazy full-article backfill path.
type ContentService struct {
	db           *gorm.DB
	topics       *TopicsService
	httpClient   *http.Client
	fetchTimeout time.Duration
}

// NewContentService creates a new content service
func NewContentService(db *gorm.DB, topics *TopicsService, fetchTimeout time.Duration) *ContentService {
	return &ContentService{
		db:           db,
		topics:       topics,
		httpClient:   &http.Client{Timeout: fetchTimeout},
		fetchTimeout: fetchTimeout,
	}
}

// ContentQuery holds the supported listing filters.
type ContentQuery struct {
	TopicSlug string
	Search    string
	SavedOnly bool
	Limit     int
	Offset    int
}

// ContentPage is one page of content items after post-query filtering. The
// page can hold fewer than the requested limit because dismissed and expired
// items are removed after the fetch (over-fetch-and-filter, by deliberate
// fidelity to the pagination contract).
type ContentPage struct {
	Items  []models.ContentItem `json:"items"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// List runs the account-scoped content query: topic and search filters in
// SQL, ordered published_at descending with nulls last, then dismissal /
// expired-prediction / saved-only filtering applied to the fetched page.
func (s *ContentService) List(accountID uuid.UUID, q ContentQuery) (*ContentPage, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	query := s.db.Where("content_items.account_id = ?", accountID).
		Preload("Topic").
		Preload("Source").
		Preload("Interaction", "account_id = ?", accountID)

	if q.TopicSlug != "" {
		topic, err := s.topics.FindBySlug(accountID, q.TopicSlug)
		if err == ErrNotFound {
			// An unknown slug filters everything out rather than erroring.
			return &ContentPage{Items: []models.ContentItem{}, Limit: q.Limit, Offset: q.Offset}, nil
		}
		if err != nil {
			return nil, err
		}
		query = query.Where("content_items.topic_id = ?", topic.ID)
	}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(summary) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var items []models.ContentItem
	err := query.Order("published_at DESC NULLS LAST").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	now := time.Now()
	items = lo.Filter(items, func(item models.ContentItem, _ int) bool {
		if item.Interaction != nil && item.Interaction.IsDismissed {
			return false
		}
		if item.IsExpired(now) {
			return false
		}
		if q.SavedOnly && (item.Interaction == nil || !item.Interaction.IsSaved) {
			return false
		}
		return true
	})

	return &ContentPage{Items: items, Limit: q.Limit, Offset: q.Offset}, nil
}

// Get fetches one item with its topic, source, and the account's interaction.
func (s *ContentService) Get(accountID, itemID uuid.UUID) (*models.ContentItem, error) {
	var item models.ContentItem
	err := s.db.Where("id = ? AND account_id = ?", itemID, accountID).
		Preload("Topic").
		Preload("Source").
		Preload("Interaction", "account_id = ?", accountID).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content item: %w", err)
	}
	return &item, nil
}

// GetFullArticle is the backfill path: for an article with a URL and no rich
// body it fetches the page, extracts the readable content, persists it for
// future reads, and returns the updated item. Any fetch or parse failure
// falls back to whatever was already stored; the caller never sees the
// network error.
func (s *ContentService) GetFullArticle(ctx context.Context, accountID, itemID uuid.UUID) (*models.ContentItem, error) {
	item, err := s.Get(accountID, itemID)
	if err != nil {
		return nil, err
	}

	if item.Type != models.ContentTypeArticle || item.URL == "" || item.Content != "" {
		return item, nil
	}

	body, err := s.extractArticle(ctx, item.URL)
	if err != nil {
		log.Printf("Article backfill failed for %s (%s): %v", item.ID, item.URL, err)
		return item, nil
	}

	now := time.Now()
	meta := item.Meta()
	meta.ExtractedAt = &now
	item.Content = body
	if err := item.SetMeta(meta); err != nil {
		return item, nil
	}
	if err := s.db.Model(item).Updates(map[string]interface{}{
		"content":  item.Content,
		"metadata": item.Metadata,
	}).Error; err != nil {
		log.Printf("Failed to persist backfilled content for %s: %v", item.ID, err)
	}

	return item, nil
}

// Delete hard-deletes an item and cascades its interaction row.
func (s *ContentService) Delete(accountID, itemID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND account_id = ?", itemID, accountID).Delete(&models.ContentItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete content item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("account_id = ? AND content_item_id = ?", accountID, itemID).
			Delete(&models.ContentInteraction{}).Error
	})
}

// extractArticle fetches a page within the configured deadline and runs
// readability extraction over it.
func (s *ContentService) extractArticle(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Radar/1.0 (+https://radar.local)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	doc, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}
	if doc.TextContent == "" {
		return "", fmt.Errorf("no readable content found")
	}

	return doc.TextContent, nil
}
