package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/config"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/transaction"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS settled_transactions (
	id TEXT PRIMARY KEY,
	wallet_id TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	currency TEXT NOT NULL,
	usd_value DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	workflow_name TEXT,
	required_approvals INTEGER,
	created_by TEXT,
	created_at TIMESTAMPTZ,
	settled_at TIMESTAMPTZ,
	exported_at TIMESTAMPTZ NOT NULL
)`

const upsertStmt = `
INSERT INTO settled_transactions
	(id, wallet_id, amount, currency, usd_value, status, workflow_name, required_approvals, created_by, created_at, settled_at, exported_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET status = $6, settled_at = $11, exported_at = $12`

type SettlementService interface {
	// ExportTerminal pushes every unexported terminal transaction to the
	// Postgres warehouse and marks it exported.
	ExportTerminal(ctx context.Context, trigger string) (*ExportLog, error)

	ListExportLogs(ctx context.Context, limit int64) ([]ExportLog, error)
}

type SettlementServiceImpl struct {
	TransactionRepo transaction.TransactionRepository
	LogRepo         ExportLogRepository
	AuditService    audit.AuditService
	Config          *config.Config
	Logger          *zap.Logger
}

func NewSettlementService(
	transactionRepo transaction.TransactionRepository,
	logRepo ExportLogRepository,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) SettlementService {
	return &SettlementServiceImpl{
		TransactionRepo: transactionRepo,
		LogRepo:         logRepo,
		AuditService:    auditService,
		Config:          cfg,
		Logger:          logger,
	}
}

func (s *SettlementServiceImpl) ExportTerminal(ctx context.Context, trigger string) (*ExportLog, error) {
	log := &ExportLog{StartedAt: time.Now(), Trigger: trigger}

	if s.Config.SettlementDSN == "" {
		return nil, errors.New("settlement warehouse is not configured")
	}

	txs, err := s.TransactionRepo.ListUnexportedTerminal(ctx)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		log.FinishedAt = time.Now()
		_ = s.LogRepo.Create(ctx, log)
		return log, nil
	}

	db, err := sql.Open("postgres", s.Config.SettlementDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to settlement warehouse: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping settlement warehouse: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableStmt); err != nil {
		return nil, err
	}

	exported := make([]primitive.ObjectID, 0, len(txs))
	for _, tx := range txs {
		_, err := db.ExecContext(ctx, upsertStmt,
			tx.ID.Hex(), tx.WalletID, tx.Amount, tx.Currency, tx.UsdValue,
			string(tx.Status), tx.Governing.WorkflowName, tx.Governing.RequiredApprovals,
			tx.CreatedBy, tx.CreatedAt, tx.SettledAt, time.Now(),
		)
		if err != nil {
			log.Failed++
			s.Logger.Warn("failed to export transaction",
				zap.String("transaction_id", tx.ID.Hex()),
				zap.Error(err),
				zap.String("func", "SettlementService.ExportTerminal"),
			)
			continue
		}
		exported = append(exported, tx.ID)
	}

	if err := s.TransactionRepo.MarkExported(ctx, exported); err != nil {
		return nil, err
	}

	log.Exported = len(exported)
	log.FinishedAt = time.Now()
	if err := s.LogRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettlement, "settlement", log.ID.Hex(), map[string]common_models.Change{
		"exported": {New: log.Exported},
		"failed":   {New: log.Failed},
		"trigger":  {New: trigger},
	})
	return log, nil
}

func (s *SettlementServiceImpl) ListExportLogs(ctx context.Context, limit int64) ([]ExportLog, error) {
	return s.LogRepo.List(ctx, limit)
}
