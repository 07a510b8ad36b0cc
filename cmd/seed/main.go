package main

import (
	"context"

	common_models "go-custody/internal/common/models"
	"go-custody/internal/config"
	"go-custody/internal/database"
	"go-custody/internal/features/audit"
	"go-custody/internal/features/role"
	"go-custody/internal/features/user"
	"go-custody/internal/features/wallet"
	"go-custody/internal/features/workflow"
	"go-custody/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func seedRoles() []role.Role {
	return []role.Role{
		{
			Name:        "admin",
			Description: "Full platform access",
			IsSystem:    true,
			Permissions: []string{
				role.PermWorkflowsCreate, role.PermWorkflowsRead, role.PermWorkflowsUpdate, role.PermWorkflowsDelete,
				role.PermTransactionsCreate, role.PermTransactionsRead, role.PermTransactionsSettle,
				role.PermApprovalsAct,
				role.PermWalletsManage, role.PermWalletsRead,
				role.PermUsersManage, role.PermAuditRead, role.PermSettingsManage,
				role.PermReportsExport, role.PermSettlementRun, role.PermAutomationEdit,
			},
		},
		{
			Name:        "manager",
			Description: "Creates transfers and approves",
			IsSystem:    true,
			Permissions: []string{
				role.PermWorkflowsRead,
				role.PermTransactionsCreate, role.PermTransactionsRead,
				role.PermApprovalsAct,
				role.PermWalletsRead,
				role.PermReportsExport,
			},
		},
		{
			Name:        "operator",
			Description: "Creates transfers and runs settlement",
			IsSystem:    true,
			Permissions: []string{
				role.PermTransactionsCreate, role.PermTransactionsRead, role.PermTransactionsSettle,
				role.PermWalletsRead, role.PermSettlementRun,
			},
		},
		{
			Name:        "viewer",
			Description: "Read-only access",
			IsSystem:    true,
			Permissions: []string{
				role.PermWorkflowsRead, role.PermTransactionsRead, role.PermWalletsRead, role.PermAuditRead,
			},
		},
	}
}

// Seed populates roles, users, wallets and a starter workflow.
func Seed(
	lc fx.Lifecycle,
	roleService role.RoleService,
	userService user.UserService,
	walletService wallet.WalletService,
	workflowService workflow.WorkflowService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()
				ctx := context.Background()

				logger.Info("Seeding database...")

				for _, r := range seedRoles() {
					r := r
					existing, err := roleService.GetRoleByName(ctx, r.Name)
					if err != nil {
						logger.Error("Failed to look up role", zap.String("role", r.Name), zap.Error(err))
						continue
					}
					if existing != nil {
						existing.Permissions = r.Permissions
						if err := roleService.UpdateRole(ctx, existing.ID.Hex(), existing); err != nil {
							logger.Error("Failed to update role", zap.String("role", r.Name), zap.Error(err))
						} else {
							logger.Info("Role updated", zap.String("role", r.Name))
						}
						continue
					}
					if _, err := roleService.CreateRole(ctx, &r); err != nil {
						logger.Error("Failed to create role", zap.String("role", r.Name), zap.Error(err))
						continue
					}
					logger.Info("Role created", zap.String("role", r.Name))
				}

				users := []struct {
					user     common_models.User
					password string
				}{
					{common_models.User{Username: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", Status: "active", Roles: []string{"admin"}}, "admin123"},
					{common_models.User{Username: "mmgr", Email: "manager@example.com", FirstName: "Mila", LastName: "Manager", Status: "active", Roles: []string{"manager"}}, "manager123"},
					{common_models.User{Username: "oper", Email: "operator@example.com", FirstName: "Omar", LastName: "Operator", Status: "active", Roles: []string{"operator"}}, "operator123"},
					{common_models.User{Username: "view", Email: "viewer@example.com", FirstName: "Vera", LastName: "Viewer", Status: "active", Roles: []string{"viewer"}}, "viewer123"},
				}
				for _, u := range users {
					u := u
					if _, err := userService.CreateUser(ctx, &u.user, u.password); err != nil {
						logger.Warn("Skipping user", zap.String("username", u.user.Username), zap.Error(err))
						continue
					}
					logger.Info("User created", zap.String("username", u.user.Username))
				}

				wallets := []wallet.Wallet{
					{Name: "BTC Treasury", Asset: "BTC", Type: wallet.WalletTypeCold, Address: "bc1q-treasury", Balance: 120},
					{Name: "ETH Operations", Asset: "ETH", Type: wallet.WalletTypeWarm, Address: "0xoperations", Balance: 2500},
					{Name: "USDC Payouts", Asset: "USDC", Type: wallet.WalletTypeHot, Address: "0xpayouts", Balance: 1_000_000},
				}
				existing, err := walletService.ListWallets(ctx)
				if err != nil {
					logger.Error("Failed to list wallets", zap.Error(err))
				} else if len(existing) == 0 {
					for _, w := range wallets {
						w := w
						if _, err := walletService.CreateWallet(ctx, &w); err != nil {
							logger.Error("Failed to create wallet", zap.String("wallet", w.Name), zap.Error(err))
							continue
						}
						logger.Info("Wallet created", zap.String("wallet", w.Name))
					}
				}

				workflows, err := workflowService.ListWorkflows(ctx)
				if err != nil {
					logger.Error("Failed to list workflows", zap.Error(err))
				} else if len(workflows) == 0 {
					starter := &workflow.ApprovalWorkflow{
						Name:        "High value transfers",
						Description: "Transfers above 10k require two approvals; above 100k three.",
						Priority:    1,
						Active:      true,
						Rules: []workflow.ApprovalRule{
							{Condition: "amount > 100000 || usd_value > 100000", RequiredApprovals: 3, ApproverRoles: []string{"admin"}},
							{Condition: "amount > 10000", RequiredApprovals: 2, ApproverRoles: []string{"manager", "admin"}},
						},
					}
					if _, err := workflowService.CreateWorkflow(ctx, starter); err != nil {
						logger.Error("Failed to create workflow", zap.Error(err))
					} else {
						logger.Info("Workflow created", zap.String("workflow", starter.Name))
					}
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			audit.NewAuditRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			wallet.NewWalletRepository,
			workflow.NewWorkflowRepository,

			audit.NewAuditService,
			role.NewRoleService,
			user.NewUserService,
			wallet.NewWalletService,
			workflow.NewWorkflowService,

			func(r user.UserRepository) audit.UserFinder { return r },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
