package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// Environment variables consulted for the test database.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTestDBURL   = "TASKR_TEST_DB_URL"
)

// GetTestDatabaseURL returns DATABASE_URL, falling back to TASKR_TEST_DB_URL.
func GetTestDatabaseURL() string {
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		return url
	}
	return os.Getenv(EnvTestDBURL)
}

// IsIntegrationTestEnvironment reports whether an external database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

var (
	shared     *sql.DB
	sharedErr  error
	sharedOnce sync.Once
)

// GetTestDBWithT returns a migrated database shared by every test in the
// binary. Without a configured URL a postgres container is started; the test
// is skipped if that is not possible either.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	sharedOnce.Do(func() {
		shared, sharedErr = openShared()
	})
	if errors.Is(sharedErr, ErrContainerUnavailable) {
		t.Skipf("%s not set and no container runtime: %v", EnvDatabaseURL, sharedErr)
	}
	require.NoError(t, sharedErr, "failed to prepare test database")

	return shared
}

func openShared() (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	url := GetTestDatabaseURL()
	if url == "" {
		var err error
		url, err = startPostgresContainer(ctx)
		if err != nil {
			return nil, err
		}
	}

	db, err := Open(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Open connects to url and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, TestTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("database ping failed: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}
