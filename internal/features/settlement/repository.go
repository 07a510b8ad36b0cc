package settlement

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-custody/internal/database"
)

type ExportLogRepository interface {
	Create(ctx context.Context, log *ExportLog) error
	List(ctx context.Context, limit int64) ([]ExportLog, error)
}

type exportLogRepository struct {
	collection *mongo.Collection
}

func NewExportLogRepository(db *database.MongodbDB) ExportLogRepository {
	return &exportLogRepository{
		collection: db.DB.Collection("settlement_export_logs"),
	}
}

func (r *exportLogRepository) Create(ctx context.Context, log *ExportLog) error {
	log.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

func (r *exportLogRepository) List(ctx context.Context, limit int64) ([]ExportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []ExportLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
