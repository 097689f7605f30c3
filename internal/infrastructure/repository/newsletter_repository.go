package repository

import (
	"context"
	"fmt"
	"time"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/infrastructure/repository/entity"
	"newsletter-sendy-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNewsletterRepository implements NewsletterRepository using MongoDB.
type MongoNewsletterRepository struct {
	collection *mongo.Collection
}

// NewMongoNewsletterRepository creates a new MongoDB newsletter repository.
func NewMongoNewsletterRepository(db *mongo.Database) ports.NewsletterRepository {
	return &MongoNewsletterRepository{
		collection: db.Collection("newsletters"),
	}
}

// Create inserts a newsletter and fills in its generated ID.
func (r *MongoNewsletterRepository) Create(ctx context.Context, newsletter *domain.Newsletter) error {
	now := time.Now()
	newsletter.CreatedAt = now
	newsletter.UpdatedAt = now

	doc := entity.MongoNewsletterDocFromDomain(newsletter)
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create newsletter: %w", err)
	}

	if objID, ok := result.InsertedID.(primitive.ObjectID); ok {
		newsletter.ID = objID.Hex()
	}

	return nil
}

// GetByID retrieves a newsletter, or nil when it does not exist.
func (r *MongoNewsletterRepository) GetByID(ctx context.Context, id string) (*domain.Newsletter, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoNewsletterDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get newsletter: %w", err)
	}

	return doc.ToDomain(), nil
}

// ListRecent returns the newest newsletters first.
func (r *MongoNewsletterRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Newsletter, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", err)
	}
	defer cursor.Close(ctx)

	var newsletters []*domain.Newsletter
	for cursor.Next(ctx) {
		var doc entity.MongoNewsletterDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode newsletter: %w", err)
		}
		newsletters = append(newsletters, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate newsletters: %w", err)
	}

	return newsletters, nil
}

// SetCampaignID persists the remote campaign identifier for a newsletter.
func (r *MongoNewsletterRepository) SetCampaignID(ctx context.Context, id string, campaignID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid newsletter id %q: %w", id, err)
	}

	update := bson.M{"$set": bson.M{"campaignId": campaignID, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set campaign id: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("newsletter not found: %s", id)
	}

	return nil
}
