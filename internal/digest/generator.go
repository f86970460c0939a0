// Package digest selects an account's recent content and renders the HTML
// digest email. Insight commentary comes from an external completion API and
// failures there degrade to a digest without commentary.
package digest

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"radar/internal/insight"
	"radar/internal/models"

	"github.com/google/uuid"
	"github.com/russross/blackfriday/v2"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Digest cadences, matched against preference frequencies.
const (
	CadenceMorning = "morning"
	CadenceEvening = "evening"
	CadenceWeekly  = "weekly"
)

const maxDigestItems = 20

// Insighter produces the markdown commentary for a digest.
type Insighter interface {
	Generate(ctx context.Context, items []insight.Item) (string, error)
}

// Generator builds digest emails for one account at a time.
type Generator struct {
	db        *gorm.DB
	insighter Insighter
}

// NewGenerator creates a new digest generator
func NewGenerator(db *gorm.DB, insighter Insighter) *Generator {
	return &Generator{db: db, insighter: insighter}
}

// Digest is one generated digest: rendered HTML plus the item count the
// scheduler uses to decide whether to send at all.
type Digest struct {
	HTML      string
	ItemCount int
}

// Generate selects the account's qualifying items for the cadence window and
// renders the digest. A zero item count means nothing qualified and no email
// should be sent.
func (g *Generator) Generate(ctx context.Context, accountID uuid.UUID, prefs *models.UserPreferences, cadence string, now time.Time) (*Digest, error) {
	items, err := g.selectItems(accountID, prefs, cadence, now)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Digest{}, nil
	}

	insightMarkdown := ""
	if g.insighter != nil {
		insightMarkdown, err = g.insighter.Generate(ctx, lo.Map(items, func(item models.ContentItem, _ int) insight.Item {
			return insight.Item{Title: item.Title, Summary: item.Summary}
		}))
		if err != nil {
			log.Printf("Insight generation failed for account %s: %v", accountID, err)
			insightMarkdown = ""
		}
	}

	html, err := render(items, insightMarkdown, cadence)
	if err != nil {
		return nil, fmt.Errorf("failed to render digest: %w", err)
	}

	return &Digest{HTML: html, ItemCount: len(items)}, nil
}

// selectItems fetches items published inside the cadence window, drops
// dismissed and expired ones, and applies the account's topic filter.
func (g *Generator) selectItems(accountID uuid.UUID, prefs *models.UserPreferences, cadence string, now time.Time) ([]models.ContentItem, error) {
	window := 24 * time.Hour
	if cadence == CadenceWeekly {
		window = 7 * 24 * time.Hour
	}
	cutoff := now.Add(-window)

	var items []models.ContentItem
	err := g.db.Where("account_id = ? AND published_at >= ?", accountID, cutoff).
		Preload("Topic").
		Preload("Interaction", "account_id = ?", accountID).
		Order("published_at DESC").
		Limit(maxDigestItems).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select digest items: %w", err)
	}

	topicFilter := map[string]bool{}
	for _, slug := range prefs.DigestTopics {
		topicFilter[slug] = true
	}

	items = lo.Filter(items, func(item models.ContentItem, _ int) bool {
		if item.Interaction != nil && item.Interaction.IsDismissed {
			return false
		}
		if item.IsExpired(now) {
			return false
		}
		if len(topicFilter) > 0 {
			return item.Topic != nil && topicFilter[item.Topic.Slug]
		}
		return true
	})

	return items, nil
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
	<h1>Your {{.Cadence}} Radar digest</h1>
	{{if .Insight}}<div style="background: #f5f5f5; padding: 16px; border-radius: 8px;">{{.Insight}}</div>{{end}}
	{{range .Items}}
	<div style="margin: 24px 0;">
		<h3><a href="{{.URL}}">{{.Title}}</a></h3>
		{{if .Topic}}<span style="color: {{.Topic.Color}};">{{.Topic.Name}}</span>{{end}}
		{{if .Summary}}<p>{{.Summary}}</p>{{end}}
	</div>
	{{end}}
</body>
</html>`))

// render produces the digest HTML. The AI insight arrives as markdown and is
// converted before templating.
func render(items []models.ContentItem, insightMarkdown, cadence string) (string, error) {
	var insightHTML template.HTML
	if insightMarkdown != "" {
		insightHTML = template.HTML(blackfriday.Run([]byte(insightMarkdown)))
	}

	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		Cadence string
		Insight template.HTML
		Items   []models.ContentItem
	}{
		Cadence: cadence,
		Insight: insightHTML,
		Items:   items,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
