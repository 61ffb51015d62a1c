//go:build integration

// Integration tests for the screening result store.  They require Docker and
// run only with the "integration" build tag.
package repositories_test

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gmseabra/MolDB-Screening/internal/config"
	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/database/postgres"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/database/postgres/repositories"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
)

// startPostgres launches a PostgreSQL 16 container, applies the repo
// migrations, and returns a connected pool with the matching config.
func startPostgres(t *testing.T) (*pgxpool.Pool, config.DatabaseConfig) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "molscreen_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		DBName:   "molscreen_test",
		SSLMode:  "disable",
		MaxConns: 4,
	}
	dsn := postgres.DSN(cfg)
	require.NoError(t, postgres.RunMigrations(dsn, "file://"+migrationsDir(t)))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, cfg
}

// migrationsDir resolves the repo's migrations directory relative to this
// source file.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "..", "migrations")
}

func scoredLibrary(t *testing.T, scores []float64) *compound.Library {
	t.Helper()
	records := make([]compound.Compound, len(scores))
	for i, s := range scores {
		fp, err := compound.ParseFingerprint(fmt.Sprintf("%08b", i+1))
		require.NoError(t, err)
		records[i] = compound.Compound{
			ID:             fmt.Sprintf("CPD-%03d", i+1),
			Fingerprint:    fp,
			DockingScore:   compound.ScorePtr(s),
			PredictedScore: compound.ScorePtr(s + 0.1),
		}
	}
	lib, err := compound.NewLibrary(records)
	require.NoError(t, err)
	return lib
}

func TestScreeningRepository_RoundTrip(t *testing.T) {
	pool, _ := startPostgres(t)
	repo := repositories.NewScreeningRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	run := repositories.Run{
		ID:          uuid.New(),
		DatasetPath: "library.csv",
		ModelKind:   "regressor",
		Trees:       300,
		Seed:        42,
		TrainSize:   700,
		LibrarySize: 1000,
		TopK:        3,
		StartedAt:   time.Now().UTC().Truncate(time.Microsecond),
		FinishedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.SaveRun(ctx, run))

	got, err := repo.FindRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.DatasetPath, got.DatasetPath)
	assert.Equal(t, run.ModelKind, got.ModelKind)
	assert.Equal(t, run.TopK, got.TopK)

	lib := scoredLibrary(t, []float64{-9, -8, -7, -6, -5})
	ranks := map[string]int{"CPD-001": 1, "CPD-002": 2, "CPD-003": 3}
	require.NoError(t, repo.SavePredictions(ctx, run.ID, lib, ranks))

	top, err := repo.TopPredictions(ctx, run.ID, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "CPD-001", top[0].CompoundID)
	require.NotNil(t, top[0].SelectedRank)
	assert.Equal(t, 1, *top[0].SelectedRank)
	require.NotNil(t, top[0].DockingScore)
	assert.Equal(t, -9.0, *top[0].DockingScore)
}

func TestConnection_HealthCheckAndSchemaVersion(t *testing.T) {
	_, cfg := startPostgres(t)
	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	hcErr := conn.HealthCheck(ctx)
	assert.True(t, hcErr == nil, "HealthCheck returned %#v", hcErr)

	version, dirty, err := postgres.MigrationVersion(postgres.DSN(cfg), "file://"+migrationsDir(t))
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)
}

func TestScreeningRepository_FindRun_NotFound(t *testing.T) {
	pool, _ := startPostgres(t)
	repo := repositories.NewScreeningRepository(pool, logging.NewNopLogger())

	_, err := repo.FindRun(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestScreeningRepository_UnselectedRankIsNull(t *testing.T) {
	pool, _ := startPostgres(t)
	repo := repositories.NewScreeningRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	run := repositories.Run{
		ID: uuid.New(), DatasetPath: "x.csv", ModelKind: "classifier",
		Trees: 10, Seed: 1, TrainSize: 2, LibrarySize: 2, TopK: 1,
		StartedAt: time.Now(), FinishedAt: time.Now(),
	}
	require.NoError(t, repo.SaveRun(ctx, run))

	lib := scoredLibrary(t, []float64{-4, -3})
	require.NoError(t, repo.SavePredictions(ctx, run.ID, lib, map[string]int{"CPD-001": 1}))

	top, err := repo.TopPredictions(ctx, run.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.NotNil(t, top[0].SelectedRank)
	assert.Nil(t, top[1].SelectedRank)
}
