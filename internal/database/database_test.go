package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"

	"gagyebu/internal/models"
)

func TestConfig(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		if _, err := NewConfig(); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})

	t.Run("postgres DSN and migrate URL", func(t *testing.T) {
		cfg := &Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
		if !strings.Contains(cfg.DSN(), "dbname=ledger") {
			t.Errorf("unexpected DSN %q", cfg.DSN())
		}
		want := "postgres://u:p%40ss@db:5432/ledger?sslmode=disable"
		if got := cfg.MigrateURL(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("sqlite DSN enables foreign keys", func(t *testing.T) {
		cfg := &Config{Driver: DriverSQLite, SQLitePath: "ledger.db"}
		if cfg.DSN() != "ledger.db?_foreign_keys=on" {
			t.Errorf("unexpected DSN %q", cfg.DSN())
		}
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("iofs source: %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		t.Fatalf("expected a first migration: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
	if _, _, err := src.ReadUp(version); err != nil {
		t.Errorf("missing up migration: %v", err)
	}
	if _, _, err := src.ReadDown(version); err != nil {
		t.Errorf("missing down migration: %v", err)
	}
}

func TestSQLiteManager(t *testing.T) {
	cfg := &Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "gagyebu.db")}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	for _, model := range models.All() {
		if !m.DB().Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}

	if _, err := m.NewMigrator(); err == nil {
		t.Error("expected versioned migrations to be refused for sqlite")
	}
}
