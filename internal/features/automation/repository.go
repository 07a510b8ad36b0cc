package automation

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-custody/internal/database"
)

var ErrNotFound = errors.New("automation rule not found")

type AutomationRepository interface {
	Create(ctx context.Context, rule *AutomationRule) (*AutomationRule, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	ListActiveForStatus(ctx context.Context, status string) ([]AutomationRule, error)
	Update(ctx context.Context, id primitive.ObjectID, rule *AutomationRule) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type automationRepository struct {
	collection *mongo.Collection
}

func NewAutomationRepository(db *database.MongodbDB) AutomationRepository {
	return &automationRepository{
		collection: db.DB.Collection("automation_rules"),
	}
}

func (r *automationRepository) Create(ctx context.Context, rule *AutomationRule) (*AutomationRule, error) {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	if _, err := r.collection.InsertOne(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *automationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*AutomationRule, error) {
	var rule AutomationRule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *automationRepository) List(ctx context.Context) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{})
}

func (r *automationRepository) ListActiveForStatus(ctx context.Context, status string) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{"active": true, "trigger_status": status})
}

func (r *automationRepository) find(ctx context.Context, filter bson.M) ([]AutomationRule, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rules := []AutomationRule{}
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *automationRepository) Update(ctx context.Context, id primitive.ObjectID, rule *AutomationRule) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":           rule.Name,
		"trigger_status": rule.TriggerStatus,
		"actions":        rule.Actions,
		"active":         rule.Active,
		"updated_at":     time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *automationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
