package entity

import (
	"time"

	"newsletter-sendy-layer/internal/domain"
)

// MongoSettingsDoc is the single persisted settings blob.
type MongoSettingsDoc struct {
	ID             string            `bson:"_id"`
	APIKey         string            `bson:"apiKey"`
	SendyURL       string            `bson:"sendyUrl"`
	FromName       string            `bson:"fromName"`
	FromEmail      string            `bson:"fromEmail"`
	ReplyTo        string            `bson:"replyTo"`
	BrandID        string            `bson:"brandId"`
	CampaignListID string            `bson:"campaignListId"`
	Flags          map[string]bool   `bson:"flags"`
	ListIDs        map[string]string `bson:"listIds"`
	UpdatedAt      time.Time         `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoSettingsDoc) ToDomain() *domain.Settings {
	return &domain.Settings{
		APIKey:         d.APIKey,
		SendyURL:       d.SendyURL,
		FromName:       d.FromName,
		FromEmail:      d.FromEmail,
		ReplyTo:        d.ReplyTo,
		BrandID:        d.BrandID,
		CampaignListID: d.CampaignListID,
		Flags:          d.Flags,
		ListIDs:        d.ListIDs,
	}
}

// MongoSettingsDocFromDomain converts a domain entity to a MongoDB document.
func MongoSettingsDocFromDomain(id string, settings *domain.Settings) *MongoSettingsDoc {
	return &MongoSettingsDoc{
		ID:             id,
		APIKey:         settings.APIKey,
		SendyURL:       settings.SendyURL,
		FromName:       settings.FromName,
		FromEmail:      settings.FromEmail,
		ReplyTo:        settings.ReplyTo,
		BrandID:        settings.BrandID,
		CampaignListID: settings.CampaignListID,
		Flags:          settings.Flags,
		ListIDs:        settings.ListIDs,
		UpdatedAt:      time.Now(),
	}
}
