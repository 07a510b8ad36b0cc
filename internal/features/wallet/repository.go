package wallet

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-custody/internal/database"
)

type WalletRepository interface {
	Create(ctx context.Context, w *Wallet) (*Wallet, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Wallet, error)
	List(ctx context.Context) ([]Wallet, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	AdjustBalance(ctx context.Context, id primitive.ObjectID, delta float64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type walletRepository struct {
	collection *mongo.Collection
}

func NewWalletRepository(db *database.MongodbDB) WalletRepository {
	return &walletRepository{
		collection: db.DB.Collection("wallets"),
	}
}

func (r *walletRepository) Create(ctx context.Context, w *Wallet) (*Wallet, error) {
	w.ID = primitive.NewObjectID()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	if _, err := r.collection.InsertOne(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *walletRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Wallet, error) {
	var w Wallet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) List(ctx context.Context) ([]Wallet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	wallets := []Wallet{}
	if err := cursor.All(ctx, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *walletRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *walletRepository) AdjustBalance(ctx context.Context, id primitive.ObjectID, delta float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"balance": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *walletRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
