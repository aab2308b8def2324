package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workout-platform/internal/domain"
)

// SessionRepository defines persistence access for workout sessions and their
// exercises. Exercises live under sessions, so the cascade delete is here.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error)
	GetByOwnerAndName(ctx context.Context, ownerID, name string) (*domain.WorkoutSession, error)
	ListAll(ctx context.Context) ([]domain.WorkoutSession, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutSession, error)
	DeleteCascade(ctx context.Context, id string) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a Postgres-backed implementation.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

const sessionColumns = `id, owner_id, name, date, notes, created_at, updated_at`

// Create persists the session and any attached exercises in one transaction,
// so a failed exercise insert never leaves a half-written session behind.
func (r *sessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const insertSession = `
        INSERT INTO workout_sessions (owner_id, name, date, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, insertSession,
		session.OwnerID,
		session.Name,
		session.Date,
		session.Notes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return err
	}

	const insertExercise = `
        INSERT INTO exercises (session_id, name, description, weight, reps, series, duration, distance)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	for i := range session.Exercises {
		ex := &session.Exercises[i]
		ex.SessionID = session.ID
		if err := tx.QueryRow(ctx, insertExercise,
			ex.SessionID,
			ex.Name,
			ex.Description,
			ex.Weight,
			ex.Reps,
			ex.Series,
			ex.Duration,
			ex.Distance,
		).Scan(&ex.ID, &ex.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	return r.getBy(ctx, `SELECT `+sessionColumns+` FROM workout_sessions WHERE id=$1`, id)
}

// GetByOwnerAndName matches the natural key exactly and case-sensitively.
// When duplicates exist under the same owner the oldest one wins.
func (r *sessionRepository) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*domain.WorkoutSession, error) {
	const query = `
        SELECT ` + sessionColumns + `
        FROM workout_sessions
        WHERE owner_id=$1 AND name=$2
        ORDER BY created_at
        LIMIT 1`

	var session domain.WorkoutSession
	if err := scanSession(r.pool.QueryRow(ctx, query, ownerID, name), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListAll(ctx context.Context) ([]domain.WorkoutSession, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM workout_sessions ORDER BY created_at`)
}

func (r *sessionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutSession, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM workout_sessions WHERE owner_id=$1 ORDER BY created_at`, ownerID)
}

// DeleteCascade removes the session and its exercises atomically: either all
// rows go or none do.
func (r *sessionRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM exercises WHERE session_id=$1`, id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM workout_sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *sessionRepository) getBy(ctx context.Context, query string, arg any) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := scanSession(r.pool.QueryRow(ctx, query, arg), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]domain.WorkoutSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.WorkoutSession{}
	for rows.Next() {
		var session domain.WorkoutSession
		if err := scanSession(rows, &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row, session *domain.WorkoutSession) error {
	return row.Scan(
		&session.ID,
		&session.OwnerID,
		&session.Name,
		&session.Date,
		&session.Notes,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
}
