package db

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"invoicely/internal/logger"
	"invoicely/internal/models"
)

// Connect opens the database selected by dsn. sqlite connects
// directly; postgres gets a short retry loop since the container often
// comes up after the app.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
	}
	log := logger.WithComponent("db")

	logLevel := gormlogger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = gormlogger.Info
	}
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}

	if IsSQLiteDSN(dsn) {
		return gorm.Open(sqlite.Open(dsn), cfg)
	}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msg("retrying DB connection")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	return db, nil
}

// ConnectAndMigrate connects using the normalized DATABASE_DSN and
// brings the schema up to date. MIGRATIONS=1 runs SQL migrations via
// golang-migrate (postgres only); otherwise AutoMigrate keeps dev
// setups current. DB_SEED=1 seeds a small product catalog.
func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	log := logger.WithComponent("db")

	db, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info().Str("dsn", maskDSN(dsn)).Msg("database connected")

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if IsSQLiteDSN(dsn) {
			return nil, fmt.Errorf("MIGRATIONS=1 requires a postgres DSN")
		}
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range []any{&models.Client{}, &models.Product{}, &models.Invoice{}, &models.LineItem{}} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func seed(db *gorm.DB) {
	baseProducts := []models.Product{
		{ID: "seed-consulting", Name: "Consulting hour", Price: 40, Quantity: 100, Currency: "USD", IsAvailable: true},
		{ID: "seed-hosting", Name: "Hosting (monthly)", Price: 12.5, Quantity: 100, Currency: "USD", IsAvailable: true},
		{ID: "seed-design", Name: "Design package", Price: 2500, Quantity: 20, Currency: "EGP", IsAvailable: true},
	}
	for _, p := range baseProducts {
		var existing models.Product
		if err := db.Where("id = ?", p.ID).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&p)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

var passwordRegex = regexp.MustCompile(`(password=)([^\s]+)`)

func maskDSN(dsn string) string {
	return passwordRegex.ReplaceAllString(dsn, `${1}***`)
}
