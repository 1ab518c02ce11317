package testutil

import (
	"context"
	"net"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/nkiryanov/shop/internal/db"
)

const postgresImage = "postgres:17-alpine"

// RandomPort returns free port on 127.0.0.1
func RandomPort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:")
	if err != nil {
		return 0, err
	}
	defer ln.Close() // nolint:errcheck

	return ln.Addr().(*net.TCPAddr).Port, nil
}

// PostgresContainer is migrated shop database
type PostgresContainer struct {
	DSN       string
	Pool      *pgxpool.Pool
	Terminate func()
}

// StartPostgresContainer runs postgres in docker and applies shop migrations
// The test is skipped when docker is not available and fails on any other error
// Terminate has to be called when tests are done
func StartPostgresContainer(t *testing.T) PostgresContainer {
	t.Helper()

	if out, err := exec.Command("docker", "info", "--format", "{{.ServerVersion}}").CombinedOutput(); err != nil {
		t.Skipf("docker is not available, skip db tests. Output: %s", out)
	}

	container, err := postgres.Run(t.Context(),
		postgresImage,
		postgres.WithDatabase("shop-test"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "postgres container has to start")

	// Host port is mapped by docker, connection string already points to it
	dsn, err := container.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err, "postgres connection string has to be available")
	t.Logf("Container with pg started, DSN=%v", dsn)

	pool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "shop schema has to be migrated")

	return PostgresContainer{
		DSN:  dsn,
		Pool: pool,
		Terminate: func() {
			pool.Close()
			testcontainers.CleanupContainer(t, container)
		},
	}
}

// Pool and transactions both satisfy it, nested call opens a savepoint
type beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// WithTx runs testFunc inside transaction that is rolled back afterwards
// So every subtest starts from the migrated schema with seeded roles only
func WithTx(conn beginner, t *testing.T, testFunc func(tx pgx.Tx)) {
	t.Helper()

	tx, err := conn.Begin(t.Context())
	require.NoError(t, err, "test transaction has to begin")

	defer func() {
		// Context may be already cancelled when test fails, rollback anyway
		err := tx.Rollback(context.WithoutCancel(t.Context()))
		require.NoError(t, err, "test transaction has to be rolled back")
	}()

	testFunc(tx)
}
