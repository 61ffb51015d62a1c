// Package repositories persists screening runs and their predictions.
package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Run is the persisted metadata of one screening run.
type Run struct {
	ID          uuid.UUID
	DatasetPath string
	ModelKind   string
	Trees       int
	Seed        int64
	TrainSize   int
	LibrarySize int
	TopK        int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// ScreeningRepository stores runs and bulk-inserts their predictions.
type ScreeningRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewScreeningRepository constructs a ready-to-use repository.
func NewScreeningRepository(pool *pgxpool.Pool, log logging.Logger) *ScreeningRepository {
	return &ScreeningRepository{pool: pool, log: log.Named("screening_repo")}
}

// SaveRun persists run metadata.
func (r *ScreeningRepository) SaveRun(ctx context.Context, run Run) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO screening_runs (
			id, dataset_path, model_kind, trees, seed,
			train_size, library_size, top_k, started_at, finished_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		run.ID, run.DatasetPath, run.ModelKind, run.Trees, run.Seed,
		run.TrainSize, run.LibrarySize, run.TopK, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "inserting screening run")
	}
	r.log.Debug("run saved", logging.String("run_id", run.ID.String()))
	return nil
}

// SavePredictions bulk-inserts the scored library for a run over the COPY
// protocol.  selectedRanks maps compound IDs to their 1-based selection rank;
// unselected compounds get a NULL rank.
func (r *ScreeningRepository) SavePredictions(ctx context.Context, runID uuid.UUID, lib *compound.Library, selectedRanks map[string]int) error {
	if lib.Len() == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, lib.Len())
	for _, rec := range lib.Records() {
		if !rec.HasPrediction() {
			continue
		}
		var rank interface{}
		if n, ok := selectedRanks[rec.ID]; ok {
			rank = n
		}
		var docking interface{}
		if rec.HasScore() {
			docking = rec.Score()
		}
		rows = append(rows, []interface{}{runID, rec.ID, rec.Predicted(), docking, rank})
	}

	count, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"predictions"},
		[]string{"run_id", "compound_id", "predicted_score", "docking_score", "selected_rank"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "bulk inserting predictions")
	}
	r.log.Debug("predictions saved",
		logging.String("run_id", runID.String()),
		logging.Int("rows", int(count)),
	)
	return nil
}

// FindRun loads run metadata by ID.
func (r *ScreeningRepository) FindRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var run Run
	err := r.pool.QueryRow(ctx, `
		SELECT id, dataset_path, model_kind, trees, seed,
		       train_size, library_size, top_k, started_at, finished_at
		FROM screening_runs WHERE id = $1`, id).
		Scan(&run.ID, &run.DatasetPath, &run.ModelKind, &run.Trees, &run.Seed,
			&run.TrainSize, &run.LibrarySize, &run.TopK, &run.StartedAt, &run.FinishedAt)
	if err == pgx.ErrNoRows {
		return Run{}, errors.NotFound("screening run not found").WithDetail(id.String())
	}
	if err != nil {
		return Run{}, errors.Wrap(err, errors.CodeDatabaseError, "loading screening run")
	}
	return run, nil
}

// TopPredictions returns the k best predictions of a run, ascending by
// predicted score.
func (r *ScreeningRepository) TopPredictions(ctx context.Context, runID uuid.UUID, k int) ([]Prediction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT compound_id, predicted_score, docking_score, selected_rank
		FROM predictions
		WHERE run_id = $1
		ORDER BY predicted_score ASC
		LIMIT $2`, runID, k)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "querying predictions")
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.CompoundID, &p.PredictedScore, &p.DockingScore, &p.SelectedRank); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "scanning prediction")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "iterating predictions")
	}
	return out, nil
}

// Prediction is one persisted compound prediction.
type Prediction struct {
	CompoundID     string
	PredictedScore float64
	DockingScore   *float64
	SelectedRank   *int
}
