//go:build e2e

package e2e

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"servicebay/cmd/bootstrap"
	"servicebay/cmd/bootstrap/components"
	"servicebay/internal/infra/db"
	"servicebay/internal/pkg/config"
	"servicebay/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

// one postgres per test binary; ryuk reaps it when the binary exits
var shared struct {
	once sync.Once
	host string
	port string
	err  error
}

func postgresAddr(t *testing.T) (string, string) {
	t.Helper()
	shared.once.Do(func() {
		shared.host, shared.port, shared.err = startPostgres()
	})
	require.NoError(t, shared.err, "postgres container")
	return shared.host, shared.port
}

func startPostgres() (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			// throwaway data, so trade durability for speed
			Cmd: []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off", "-c", "full_page_writes=off"},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return adminDSN(host, port.Port())
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"app": "servicebay", "purpose": "e2e"},
		},
	})
	if err != nil {
		return "", "", err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return "", "", err
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return "", "", err
	}
	return host, port.Port(), nil
}

func adminDSN(host, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port)
}

// freshDatabase creates a migrated, seeded database private to the calling suite.
func freshDatabase(t *testing.T) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()
	host, port := postgresAddr(t)
	name := "servicebay_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN(host, port))
	require.NoError(t, err)
	defer admin.Close()

	// CREATE DATABASE can race on the template lock when suites start together
	err = retry(ctx, 5, func() error {
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		return err
	})
	require.NoError(t, err, "create database %s", name)
	t.Cleanup(func() { dropDatabase(host, port, name) })

	cfg := config.DBConfig{
		Host: host, Port: port, User: pgUser, Password: pgPassword,
		DBName: name, SSLMode: "disable", TimeZone: "UTC", MaxConns: 10,
	}
	pool, closePool, err := db.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(closePool)

	require.NoError(t, applyMigrations(ctx, pool))
	require.NoError(t, dbtest.SeedReferenceData(pool))
	return pool, cfg
}

func retry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		slog.Warn("retrying", "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
		}
	}
	return err
}

func dropDatabase(host, port, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN(host, port))
	if err != nil {
		return
	}
	defer admin.Close()
	if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
		slog.Warn("drop test database", "database", name, "error", err)
	}
}

// applyMigrations runs every file under migrations/ in name order.
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("migration %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// repoRoot walks up from the package directory `go test` runs in.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above working directory")
		}
		dir = parent
	}
}

// newApp wires the production modules against the test pool. Background
// workers stay off so tests observe outbox rows instead of racing the relay.
func newApp(t *testing.T, pool *pgxpool.Pool, dbCfg config.DBConfig) (*gin.Engine, config.Config) {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg

	var router *gin.Engine
	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.TracingModule,
		bootstrap.RedisModule,
		bootstrap.MQModule,
		bootstrap.GatewayModule,
		bootstrap.AuthModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start fx app")
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("stop fx app", "error", err)
		}
	})
	return router, cfg
}

// SharedSuite is embedded by every e2e suite. Each suite gets its own
// database; subtests start from a reset schema.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	t := s.T()
	pool, dbCfg := freshDatabase(t)
	s.DB = pool
	s.Router, s.Config = newApp(t, pool, dbCfg)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}
