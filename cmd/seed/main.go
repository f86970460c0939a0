package main

import (
	"flag"
	"log"
	"time"

	"radar/internal/database"
	"radar/internal/models"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// Seeds a demo account with topics, sources, and a day of content. Meant for
// local development; production accounts are provisioned through the API.
func main() {
	var userID = flag.String("user", "user-demo-1", "auth provider user id to seed")
	var email = flag.String("email", "demo@radar.local", "notification email for the demo account")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	db := database.DB

	log.Printf("Seeding demo account for user %s", *userID)

	account := models.Account{
		Name:            "Radar Demo",
		Slug:            "radar-demo",
		Plan:            models.PlanFree,
		Status:          models.AccountStatusActive,
		CreatedByUserID: *userID,
	}
	if err := db.Where(models.Account{Slug: account.Slug}).FirstOrCreate(&account).Error; err != nil {
		log.Fatal("Failed to seed account:", err)
	}

	membership := models.UserAccount{
		UserID:    *userID,
		AccountID: account.ID,
		Role:      models.RoleOwner,
		IsPrimary: true,
		Status:    models.MembershipStatusActive,
	}
	if err := db.Where(models.UserAccount{UserID: *userID, AccountID: account.ID}).
		FirstOrCreate(&membership).Error; err != nil {
		log.Fatal("Failed to seed membership:", err)
	}

	aiTopic := models.Topic{AccountID: account.ID, Name: "AI", Slug: "ai", Color: "#8b5cf6", Icon: "cpu", IsDefault: true}
	if err := db.Where(models.Topic{AccountID: account.ID, Slug: aiTopic.Slug}).FirstOrCreate(&aiTopic).Error; err != nil {
		log.Fatal("Failed to seed topic:", err)
	}

	source := models.Source{
		AccountID: account.ID,
		Type:      models.SourceTypeRSS,
		Name:      "Hacker News",
		URL:       "https://news.ycombinator.com/rss",
		TopicID:   &aiTopic.ID,
		IsActive:  true,
	}
	if err := db.Where(models.Source{AccountID: account.ID, URL: source.URL}).FirstOrCreate(&source).Error; err != nil {
		log.Fatal("Failed to seed source:", err)
	}

	published := time.Now().Add(-2 * time.Hour)
	item := models.ContentItem{
		AccountID:   account.ID,
		SourceID:    &source.ID,
		TopicID:     &aiTopic.ID,
		Type:        models.ContentTypeArticle,
		Title:       "Welcome to Radar",
		Summary:     "A sample article seeded for local development.",
		URL:         "https://example.com/welcome",
		Author:      "Radar",
		PublishedAt: &published,
		ExternalID:  "seed:welcome",
	}
	if err := db.Where(models.ContentItem{AccountID: account.ID, ExternalID: item.ExternalID}).
		FirstOrCreate(&item).Error; err != nil {
		log.Fatal("Failed to seed content item:", err)
	}

	tz := "America/New_York"
	prefs := models.UserPreferences{
		AccountID:       account.ID,
		DigestEnabled:   true,
		DigestFrequency: models.DigestFrequencyDaily,
		DigestTime:      "07:00",
		DigestTimezone:  &tz,
		DigestTopics:    pq.StringArray{},
		EmailAddress:    *email,
	}
	if err := db.Where(models.UserPreferences{AccountID: account.ID}).FirstOrCreate(&prefs).Error; err != nil {
		log.Fatal("Failed to seed preferences:", err)
	}

	log.Printf("Seeded account %s (%s)", account.Slug, account.ID)
}
