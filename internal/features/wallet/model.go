package wallet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletType string

const (
	WalletTypeHot  WalletType = "hot"
	WalletTypeWarm WalletType = "warm"
	WalletTypeCold WalletType = "cold"
)

// Wallet is a custody wallet holding a single asset
type Wallet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Asset     string             `bson:"asset" json:"asset"` // Currency symbol, e.g. "BTC"
	Type      WalletType         `bson:"type" json:"type"`
	Address   string             `bson:"address" json:"address"`
	Balance   float64            `bson:"balance" json:"balance"`
	Status    string             `bson:"status" json:"status"` // active, frozen
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
