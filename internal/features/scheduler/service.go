// Package scheduler runs the background sweeps: stale-pending approval
// reminders and the nightly settlement export. Jobs only read transaction
// state and send notifications; they never record approval actions.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/notification"
	"go-custody/internal/features/settings"
	"go-custody/internal/features/settlement"
	"go-custody/internal/features/transaction"
)

const (
	staleSweepSchedule = "@hourly"
	exportSchedule     = "0 2 * * *"
)

type SchedulerService interface {
	Start() error
	Stop()

	// RemindStalePending notifies eligible approvers about transactions
	// pending longer than the configured threshold.
	RemindStalePending(ctx context.Context) (int, error)
}

type SchedulerServiceImpl struct {
	TransactionRepo transaction.TransactionRepository
	SettingsService settings.SettingsService
	Notifications   notification.NotificationService
	Settlement      settlement.SettlementService
	AuditService    audit.AuditService
	Logger          *zap.Logger

	cron *cron.Cron
}

func NewSchedulerService(
	transactionRepo transaction.TransactionRepository,
	settingsService settings.SettingsService,
	notifications notification.NotificationService,
	settlementService settlement.SettlementService,
	auditService audit.AuditService,
	logger *zap.Logger,
) SchedulerService {
	return &SchedulerServiceImpl{
		TransactionRepo: transactionRepo,
		SettingsService: settingsService,
		Notifications:   notifications,
		Settlement:      settlementService,
		AuditService:    auditService,
		Logger:          logger,
		cron:            cron.New(),
	}
}

func (s *SchedulerServiceImpl) Start() error {
	if _, err := s.cron.AddFunc(staleSweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.RemindStalePending(ctx); err != nil {
			s.Logger.Error("stale-pending sweep failed",
				zap.Error(err),
				zap.String("func", "SchedulerService.Start"),
			)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(exportSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.Settlement.ExportTerminal(ctx, "scheduled"); err != nil {
			s.Logger.Error("scheduled settlement export failed",
				zap.Error(err),
				zap.String("func", "SchedulerService.Start"),
			)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.Logger.Info("scheduler started",
		zap.String("stale_sweep", staleSweepSchedule),
		zap.String("export", exportSchedule),
	)
	return nil
}

func (s *SchedulerServiceImpl) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SchedulerServiceImpl) RemindStalePending(ctx context.Context) (int, error) {
	cfg, err := s.SettingsService.GetApprovalConfig(ctx)
	if err != nil {
		return 0, err
	}
	hours := cfg.StalePendingHours
	if hours <= 0 {
		hours = 24
	}

	stale, err := s.TransactionRepo.ListPendingOlderThan(ctx, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return 0, err
	}

	for _, tx := range stale {
		_ = s.Notifications.NotifyRoles(ctx, tx.Governing.ApproverRoles, notification.Input{
			Kind:     notification.KindStaleReminder,
			Title:    "Approval overdue",
			Message:  fmt.Sprintf("Transfer of %.2f %s has been pending since %s", tx.Amount, tx.Currency, tx.CreatedAt.Format(time.RFC822)),
			RecordID: tx.ID.Hex(),
		})
	}

	if len(stale) > 0 {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionScheduler, "scheduler", "stale_pending_sweep", map[string]common_models.Change{
			"reminded": {New: len(stale)},
		})
	}
	return len(stale), nil
}
