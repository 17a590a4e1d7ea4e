package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

var CatalogDB *gorm.DB

// InitDB opens the catalog store and keeps it in CatalogDB.
func InitDB(s Settings) error {
	db, err := OpenDB(s)
	if err != nil {
		return err
	}
	CatalogDB = db
	return nil
}

// OpenDB opens the store described by s.DB with the pool settings applied,
// migrating the schema when db.auto_migrate is set.
func OpenDB(s Settings) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if s.Production() {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dialector, err := dialectorFor(s.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s catalog database: %w", s.DB.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(s.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(s.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := WithTimeout()
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("catalog database ping failed: %w", err)
	}
	log.Printf("✅ Catalog database connected (GORM, %s)", s.DB.Driver)

	if s.DB.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
		}
		log.Println("✅ Catalog schema migrated")
	}
	return db, nil
}

func dialectorFor(db DBSettings) (gorm.Dialector, error) {
	switch db.Driver {
	case "postgres":
		return postgres.Open(PostgresDSN(db)), nil
	case "sqlite":
		if db.URL != "" {
			return sqlite.Open(db.URL), nil
		}
		return sqlite.Open(db.Name), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

// PostgresDSN prefers db.url and otherwise builds a key/value DSN.
func PostgresDSN(db DBSettings) string {
	if db.URL != "" {
		return db.URL
	}
	log.Println("⚠️ DB_URL not set, using host/port settings")
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		db.Host, db.User, db.Password, db.Name, db.Port,
	)
}

func CloseDB() {
	if CatalogDB == nil {
		return
	}
	if sqlDB, _ := CatalogDB.DB(); sqlDB != nil {
		sqlDB.Close()
		log.Println("✅ Catalog database connection closed (GORM)")
	}
}

// WithTimeout returns a context with a 10s timeout (bumped from 5s for Neon cold starts)
func WithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// WithCustomTimeout is WithTimeout for long jobs such as seeding.
func WithCustomTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
