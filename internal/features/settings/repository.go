package settings

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-custody/internal/database"
)

type SettingsRepository interface {
	// Get returns nil when the settings type has never been written.
	Get(ctx context.Context, settingsType string) (*Document, error)
	Upsert(ctx context.Context, doc *Document) error
}

type settingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *database.MongodbDB) SettingsRepository {
	return &settingsRepository{
		collection: db.DB.Collection("settings"),
	}
}

func (r *settingsRepository) Get(ctx context.Context, settingsType string) (*Document, error) {
	var doc Document
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsType}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, doc *Document) error {
	doc.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": doc.Type},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
