package workflow

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-custody/internal/database"
)

var ErrNotFound = errors.New("workflow not found")

type WorkflowRepository interface {
	Create(ctx context.Context, w *ApprovalWorkflow) (*ApprovalWorkflow, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*ApprovalWorkflow, error)
	List(ctx context.Context) ([]ApprovalWorkflow, error)

	// ListActive returns active workflows in resolution order:
	// priority ascending, then creation time ascending.
	ListActive(ctx context.Context) ([]ApprovalWorkflow, error)

	Update(ctx context.Context, id primitive.ObjectID, w *ApprovalWorkflow) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type workflowRepository struct {
	collection *mongo.Collection
}

func NewWorkflowRepository(db *database.MongodbDB) WorkflowRepository {
	return &workflowRepository{
		collection: db.DB.Collection("approval_workflows"),
	}
}

func (r *workflowRepository) Create(ctx context.Context, w *ApprovalWorkflow) (*ApprovalWorkflow, error) {
	w.ID = primitive.NewObjectID()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	if _, err := r.collection.InsertOne(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *workflowRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*ApprovalWorkflow, error) {
	var w ApprovalWorkflow
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *workflowRepository) List(ctx context.Context) ([]ApprovalWorkflow, error) {
	return r.find(ctx, bson.M{})
}

func (r *workflowRepository) ListActive(ctx context.Context) ([]ApprovalWorkflow, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *workflowRepository) find(ctx context.Context, filter bson.M) ([]ApprovalWorkflow, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: 1},
		{Key: "created_at", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workflows := []ApprovalWorkflow{}
	if err := cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *workflowRepository) Update(ctx context.Context, id primitive.ObjectID, w *ApprovalWorkflow) error {
	update := bson.M{"$set": bson.M{
		"name":        w.Name,
		"description": w.Description,
		"priority":    w.Priority,
		"rules":       w.Rules,
		"updated_at":  time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workflowRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active":     active,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workflowRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
