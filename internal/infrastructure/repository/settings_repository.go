package repository

import (
	"context"
	"fmt"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/infrastructure/repository/entity"
	"newsletter-sendy-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Settings live as one blob under a fixed ID; last write wins.
const settingsDocID = "newsletter_settings"

// MongoSettingsRepository implements SettingsRepository using MongoDB.
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoDB settings repository.
func NewMongoSettingsRepository(db *mongo.Database) ports.SettingsRepository {
	return &MongoSettingsRepository{
		collection: db.Collection("settings"),
	}
}

// Get retrieves the settings blob, or nil when nothing was ever saved.
func (r *MongoSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var doc entity.MongoSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return doc.ToDomain(), nil
}

// Save replaces the settings blob, creating it on first write.
func (r *MongoSettingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	doc := entity.MongoSettingsDocFromDomain(settingsDocID, settings)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, doc, opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
