package transaction

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/database"
)

var ErrNotFound = errors.New("transaction not found")

type ListFilter struct {
	Status    Status
	WalletID  string
	CreatedBy string
	Limit     int64
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) (*Transaction, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)

	// AppendAction writes a new approval action and the recomputed status
	// in a single update.
	AppendAction(ctx context.Context, id primitive.ObjectID, action interface{}, status Status) error

	SetStatus(ctx context.Context, id primitive.ObjectID, status Status, settledAt *time.Time) error
	MarkExported(ctx context.Context, ids []primitive.ObjectID) error

	// ListPendingOlderThan supports the stale-pending reminder sweep.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Transaction, error)

	// ListUnexportedTerminal supports the settlement export.
	ListUnexportedTerminal(ctx context.Context) ([]Transaction, error)
}

type transactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(db *database.MongodbDB) TransactionRepository {
	return &transactionRepository{
		collection: db.DB.Collection("transactions"),
	}
}

func (r *transactionRepository) Create(ctx context.Context, tx *Transaction) (*Transaction, error) {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	if tx.Approvals == nil {
		tx.Approvals = []common_models.ApprovalAction{}
	}
	if _, err := r.collection.InsertOne(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Transaction, error) {
	var tx Transaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.WalletID != "" {
		query["wallet_id"] = filter.WalletID
	}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	txs := []Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) AppendAction(ctx context.Context, id primitive.ObjectID, action interface{}, status Status) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"approvals": action},
		"$set":  bson.M{"status": status, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status Status, settledAt *time.Time) error {
	set := bson.M{"status": status, "updated_at": time.Now()}
	if settledAt != nil {
		set["settled_at"] = settledAt
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) MarkExported(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$set": bson.M{"exported": true, "updated_at": time.Now()},
	})
	return err
}

func (r *transactionRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Transaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"status":     StatusPending,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	txs := []Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) ListUnexportedTerminal(ctx context.Context) ([]Transaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"exported": false,
		"status":   bson.M{"$in": []Status{StatusApproved, StatusRejected, StatusCompleted, StatusFailed}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	txs := []Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
