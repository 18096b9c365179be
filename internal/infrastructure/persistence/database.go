package persistence

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fleetops/backend/internal/infrastructure/config"
	"github.com/fleetops/backend/internal/infrastructure/persistence/models"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a new database connection with the given configuration
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return newDatabaseWithLogLevel(cfg, logger.Silent)
}

// NewDatabaseWithLogger creates a new database connection with custom logger settings
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, logLevel logger.LogLevel) (*Database, error) {
	return newDatabaseWithLogLevel(cfg, logLevel)
}

func newDatabaseWithLogLevel(cfg *config.DatabaseConfig, logLevel logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}

// Migrate creates or updates the schema for all persistence models and the
// composite unique indexes that back per-organization uniqueness rules.
func (d *Database) Migrate() error {
	return Migrate(d.DB)
}

// Migrate runs AutoMigrate for all models on the given connection.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.OrganizationModel{},
		&models.UserModel{},
		&models.EditRequestModel{},
		&models.CustomerModel{},
		&models.TruckModel{},
		&models.DriverModel{},
		&models.TripModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
		&models.ExpenseCategoryModel{},
		&models.ExpenseModel{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	// Per-organization uniqueness. The invoice number index also guards
	// NextSequence against concurrent number reuse.
	uniqueIndexes := []struct {
		name    string
		table   string
		columns string
	}{
		{"idx_trucks_org_registration", "trucks", "organization_id, registration_number"},
		{"idx_drivers_org_license", "drivers", "organization_id, license_number"},
		{"idx_invoices_org_number", "invoices", "organization_id, invoice_number"},
		{"idx_expense_categories_org_name", "expense_categories", "organization_id, name"},
	}
	for _, idx := range uniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s failed: %w", idx.name, err)
		}
	}

	return nil
}
