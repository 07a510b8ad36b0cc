package wallet

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletService interface {
	CreateWallet(ctx context.Context, w *Wallet) (*Wallet, error)
	GetWallet(ctx context.Context, id string) (*Wallet, error)
	ListWallets(ctx context.Context) ([]Wallet, error)
	UpdateWallet(ctx context.Context, id string, update bson.M) error
	DeleteWallet(ctx context.Context, id string) error

	// Reserve debits a wallet if the balance covers the amount.
	Reserve(ctx context.Context, id string, amount float64) error

	// Release credits a previously reserved amount back to the wallet.
	Release(ctx context.Context, id string, amount float64) error
}

type WalletServiceImpl struct {
	WalletRepo   WalletRepository
	AuditService audit.AuditService
}

func NewWalletService(walletRepo WalletRepository, auditService audit.AuditService) WalletService {
	return &WalletServiceImpl{
		WalletRepo:   walletRepo,
		AuditService: auditService,
	}
}

func (s *WalletServiceImpl) CreateWallet(ctx context.Context, w *Wallet) (*Wallet, error) {
	if w.Name == "" || w.Asset == "" {
		return nil, errors.New("wallet name and asset are required")
	}
	switch w.Type {
	case WalletTypeHot, WalletTypeWarm, WalletTypeCold:
	default:
		return nil, fmt.Errorf("invalid wallet type: %s", w.Type)
	}
	if w.Balance < 0 {
		return nil, errors.New("wallet balance cannot be negative")
	}
	if w.Status == "" {
		w.Status = "active"
	}

	created, err := s.WalletRepo.Create(ctx, w)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "wallet", created.ID.Hex(), map[string]common_models.Change{
		"name":  {New: created.Name},
		"asset": {New: created.Asset},
	})
	return created, nil
}

func (s *WalletServiceImpl) GetWallet(ctx context.Context, id string) (*Wallet, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid wallet id")
	}
	w, err := s.WalletRepo.FindByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("wallet not found")
		}
		return nil, err
	}
	return w, nil
}

func (s *WalletServiceImpl) ListWallets(ctx context.Context) ([]Wallet, error) {
	return s.WalletRepo.List(ctx)
}

func (s *WalletServiceImpl) UpdateWallet(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid wallet id")
	}
	// Balance changes go through Reserve/Release only
	delete(update, "balance")

	if err := s.WalletRepo.Update(ctx, objID, update); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "wallet", id, map[string]common_models.Change{
		"fields": {New: update},
	})
	return nil
}

func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid wallet id")
	}
	w, err := s.WalletRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if w.Balance != 0 {
		return errors.New("cannot delete a wallet with a non-zero balance")
	}

	if err := s.WalletRepo.Delete(ctx, objID); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "wallet", id, map[string]common_models.Change{
		"name": {Old: w.Name},
	})
	return nil
}

func (s *WalletServiceImpl) Reserve(ctx context.Context, id string, amount float64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid wallet id")
	}
	w, err := s.WalletRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if w.Status != "active" {
		return fmt.Errorf("wallet %s is %s", w.Name, w.Status)
	}
	if w.Balance < amount {
		return ErrInsufficientBalance
	}
	return s.WalletRepo.AdjustBalance(ctx, objID, -amount)
}

func (s *WalletServiceImpl) Release(ctx context.Context, id string, amount float64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid wallet id")
	}
	return s.WalletRepo.AdjustBalance(ctx, objID, amount)
}
