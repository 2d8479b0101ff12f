package testdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:16-alpine"

// ErrContainerUnavailable is returned when no postgres container could be started.
var ErrContainerUnavailable = errors.New("postgres test container unavailable")

// startPostgresContainer starts a throwaway PostgreSQL server and returns
// its connection string. Ryuk removes the container when the test binary
// exits.
func startPostgresContainer(ctx context.Context) (string, error) {
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("taskr_test"),
		tcpostgres.WithUsername("taskr"),
		tcpostgres.WithPassword("taskr"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContainerUnavailable, err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	return url, nil
}
