package entity

import (
	"time"

	"newsletter-sendy-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoNewsletterDoc represents a newsletter in MongoDB.
type MongoNewsletterDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Content    string             `bson:"content"`
	CampaignID string             `bson:"campaignId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoNewsletterDoc) ToDomain() *domain.Newsletter {
	return &domain.Newsletter{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Content:    d.Content,
		CampaignID: d.CampaignID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// MongoNewsletterDocFromDomain converts a domain entity to a MongoDB document.
func MongoNewsletterDocFromDomain(newsletter *domain.Newsletter) *MongoNewsletterDoc {
	doc := &MongoNewsletterDoc{
		Title:      newsletter.Title,
		Content:    newsletter.Content,
		CampaignID: newsletter.CampaignID,
		CreatedAt:  newsletter.CreatedAt,
		UpdatedAt:  newsletter.UpdatedAt,
	}

	if newsletter.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(newsletter.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
