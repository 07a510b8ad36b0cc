package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-custody/internal/common/api"
	common_models "go-custody/internal/common/models"
	"go-custody/internal/config"
	"go-custody/internal/database"
	"go-custody/internal/features/approval"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/auth"
	"go-custody/internal/features/automation"
	"go-custody/internal/features/notification"
	"go-custody/internal/features/report"
	"go-custody/internal/features/role"
	"go-custody/internal/features/scheduler"
	"go-custody/internal/features/settings"
	"go-custody/internal/features/settlement"
	"go-custody/internal/features/system"
	"go-custody/internal/features/transaction"
	"go-custody/internal/features/user"
	"go-custody/internal/features/wallet"
	"go-custody/internal/features/workflow"
	"go-custody/internal/logger"
	"go-custody/internal/middleware"
	"go-custody/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the "routes" group and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down on exit.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// decisionNotifier bridges the approval feature to in-app notifications.
type decisionNotifier struct {
	notifications notification.NotificationService
}

func (d *decisionNotifier) NotifyDecision(ctx context.Context, tx *transaction.Transaction, action common_models.ApprovalAction, newStatus transaction.Status) {
	_ = d.notifications.NotifyUser(ctx, tx.CreatedBy, notification.Input{
		Kind:     notification.KindDecisionRecorded,
		Title:    "Transaction " + string(newStatus),
		Message:  fmt.Sprintf("%s %s your transfer of %.2f %s", action.UserName, action.Decision, tx.Amount, tx.Currency),
		RecordID: tx.ID.Hex(),
	})
}

// @title           Custody Approval API
// @version         1.0
// @description     Multi-party approval workflow engine for custody transfers.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			audit.NewAuditRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			wallet.NewWalletRepository,
			workflow.NewWorkflowRepository,
			transaction.NewTransactionRepository,
			settings.NewSettingsRepository,
			notification.NewNotificationRepository,
			automation.NewAutomationRepository,
			settlement.NewExportLogRepository,

			// Services
			audit.NewAuditService,
			role.NewRoleService,
			user.NewUserService,
			auth.NewAuthService,
			wallet.NewWalletService,
			workflow.NewWorkflowService,
			settings.NewSettingsService,
			notification.NewNotificationService,
			approval.NewResolver,
			transaction.NewTransactionService,
			automation.NewAutomationService,
			approval.NewApprovalService,
			report.NewReportService,
			settlement.NewSettlementService,
			scheduler.NewSchedulerService,
			system.NewHub,

			// Interface adapters to break dependency cycles
			func(s role.RoleService) middleware.RoleService { return s },
			func(r user.UserRepository) audit.UserFinder { return r },
			func(s settings.SettingsService) approval.FallbackRolesSource { return s },
			func(r *approval.Resolver) transaction.ApprovalResolver { return r },
			func(s automation.AutomationService) approval.AutomationRunner { return s },
			func(h *system.Hub) approval.EventBroadcaster { return h },
			func(n notification.NotificationService) approval.DecisionNotifier {
				return &decisionNotifier{notifications: n}
			},

			// Controllers
			auth.NewAuthController,
			role.NewRoleController,
			user.NewUserController,
			audit.NewAuditController,
			wallet.NewWalletController,
			workflow.NewWorkflowController,
			transaction.NewTransactionController,
			approval.NewApprovalController,
			settings.NewSettingsController,
			notification.NewNotificationController,
			automation.NewAutomationController,
			report.NewReportController,
			settlement.NewSettlementController,
			system.NewWebSocketController,

			// API routes
			AsRoute(auth.NewAuthApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(wallet.NewWalletApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(transaction.NewTransactionApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(report.NewReportApi),
			AsRoute(settlement.NewSettlementApi),
			AsRoute(system.NewWebSocketApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, schedulerService scheduler.SchedulerService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return schedulerService.Start()
					},
					OnStop: func(ctx context.Context) error {
						schedulerService.Stop()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
