package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workout-platform/internal/domain"
)

// ExerciseRepository defines persistence access for individual exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Exercise, error)
	Delete(ctx context.Context, id string) error
}

type exerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository returns a Postgres-backed implementation.
func NewExerciseRepository(pool *pgxpool.Pool) ExerciseRepository {
	return &exerciseRepository{pool: pool}
}

const exerciseColumns = `id, session_id, name, description, weight, reps, series, duration, distance, created_at`

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	const query = `
        INSERT INTO exercises (session_id, name, description, weight, reps, series, duration, distance)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		exercise.SessionID,
		exercise.Name,
		exercise.Description,
		exercise.Weight,
		exercise.Reps,
		exercise.Series,
		exercise.Duration,
		exercise.Distance,
	).Scan(&exercise.ID, &exercise.CreatedAt)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	const query = `SELECT ` + exerciseColumns + ` FROM exercises WHERE id=$1`

	var exercise domain.Exercise
	if err := scanExercise(r.pool.QueryRow(ctx, query, id), &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *exerciseRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Exercise, error) {
	const query = `SELECT ` + exerciseColumns + ` FROM exercises WHERE session_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		var exercise domain.Exercise
		if err := scanExercise(rows, &exercise); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}

func (r *exerciseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM exercises WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanExercise(row pgx.Row, exercise *domain.Exercise) error {
	return row.Scan(
		&exercise.ID,
		&exercise.SessionID,
		&exercise.Name,
		&exercise.Description,
		&exercise.Weight,
		&exercise.Reps,
		&exercise.Series,
		&exercise.Duration,
		&exercise.Distance,
		&exercise.CreatedAt,
	)
}
