package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/deevseek/washcorner/internal/auth"
	categoryDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/category"
	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	washserviceDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/washservice"
	"github.com/deevseek/washcorner/internal/rbac"
	rbacRepository "github.com/deevseek/washcorner/internal/rbac/postgres"
	"github.com/deevseek/washcorner/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedRBACOnly      bool
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, permissions and reference data",
	Long: `Bring roles and permissions in line with the catalog, then insert the
reference data a fresh installation needs: an administrator account,
position salary rates, wash services and expense categories. Existing
rows are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		dbs, err := initDB(cfg.Database, lg)
		if err != nil {
			return err
		}
		defer dbs.Close()

		ctx := context.Background()
		if err := rbac.NewSeeder(rbacRepository.NewRBACRepository(dbs.Gorm), lg).Ensure(ctx); err != nil {
			return err
		}
		if seedRBACOnly {
			return nil
		}

		if seedAdminPassword != "" {
			if err := seedAdmin(ctx, dbs.Gorm, seedAdminEmail, seedAdminPassword, cfg.Security.BCryptCost, lg); err != nil {
				return err
			}
		}
		return seedReferenceData(ctx, dbs.Gorm, lg)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedRBACOnly, "rbac-only", false, "only synchronize roles and permissions")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@washcorner.local", "email of the administrator account")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password of the administrator account; the account is skipped when empty")
}

// seedAdmin creates the administrator account unless the email is taken.
func seedAdmin(ctx context.Context, db *gorm.DB, email, password string, cost int, lg *slog.Logger) error {
	var role rbacDatamodel.Role
	if err := db.WithContext(ctx).Where("name = ?", rbac.RoleAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("admin role missing, run the rbac seed first: %w", err)
	}

	var existing userDatamodel.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		lg.Info("administrator already exists", "email", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup administrator: %w", err)
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return fmt.Errorf("hash administrator password: %w", err)
	}
	admin := &userDatamodel.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}
	lg.Info("seeded administrator", "email", email, "id", admin.ID)
	return nil
}

var seedPositions = []payrollDatamodel.PositionSalary{
	{Position: "Washer", DailyRate: decimal.NewFromInt(100000), MonthlySalary: decimal.NewFromInt(2500000), Description: "Pencuci kendaraan"},
	{Position: "Detailer", DailyRate: decimal.NewFromInt(125000), MonthlySalary: decimal.NewFromInt(3000000), Description: "Poles dan detailing"},
	{Position: "Kasir", DailyRate: decimal.NewFromInt(110000), MonthlySalary: decimal.NewFromInt(2750000), Description: "Kasir dan administrasi"},
	{Position: "Supervisor", DailyRate: decimal.NewFromInt(150000), MonthlySalary: decimal.NewFromInt(4000000), Description: "Pengawas shift"},
}

var seedServices = []washserviceDatamodel.Service{
	{Name: "Cuci Motor", Price: 15000, DurationMinutes: 20, IsActive: true},
	{Name: "Cuci Mobil Kecil", Price: 35000, DurationMinutes: 30, IsActive: true},
	{Name: "Cuci Mobil Besar", Price: 50000, DurationMinutes: 45, IsActive: true},
	{Name: "Cuci + Wax", Price: 75000, DurationMinutes: 60, IsActive: true},
	{Name: "Cuci Mesin", Price: 60000, DurationMinutes: 45, IsActive: true},
}

var seedCategories = []categoryDatamodel.ExpenseCategory{
	{Name: "Listrik dan Air", Description: "Tagihan listrik dan air", IsActive: true},
	{Name: "Sabun dan Chemical", Description: "Sabun, wax, semir ban", IsActive: true},
	{Name: "Perawatan Alat", Description: "Servis mesin steam dan vacuum", IsActive: true},
	{Name: "Sewa Tempat", Description: "Sewa lahan usaha", IsActive: true},
	{Name: "Lain-lain", Description: "Biaya operasional lain", IsActive: true},
}

// seedReferenceData inserts the rows missing by name.
func seedReferenceData(ctx context.Context, db *gorm.DB, lg *slog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range seedPositions {
			row := p
			res := tx.Where("position = ?", row.Position).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed position %s: %w", row.Position, res.Error)
			}
			if res.RowsAffected > 0 {
				lg.Info("seeded position salary", "position", row.Position)
			}
		}
		for _, s := range seedServices {
			row := s
			res := tx.Where("name = ?", row.Name).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed service %s: %w", row.Name, res.Error)
			}
			if res.RowsAffected > 0 {
				lg.Info("seeded wash service", "service", row.Name)
			}
		}
		for _, c := range seedCategories {
			row := c
			res := tx.Where("name = ?", row.Name).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed expense category %s: %w", row.Name, res.Error)
			}
			if res.RowsAffected > 0 {
				lg.Info("seeded expense category", "category", row.Name)
			}
		}
		return nil
	})
}
