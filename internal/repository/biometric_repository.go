package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workout-platform/internal/domain"
)

// BiometricRepository defines persistence access for body measurements.
type BiometricRepository interface {
	Create(ctx context.Context, record *domain.Biometric) error
	Update(ctx context.Context, record *domain.Biometric) error
	GetByID(ctx context.Context, id string) (*domain.Biometric, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Biometric, error)
	Delete(ctx context.Context, id string) error
}

type biometricRepository struct {
	pool *pgxpool.Pool
}

// NewBiometricRepository returns a Postgres-backed implementation.
func NewBiometricRepository(pool *pgxpool.Pool) BiometricRepository {
	return &biometricRepository{pool: pool}
}

const biometricColumns = `id, owner_id, weight_kg, height_m, bmi, body_fat_pct, muscle_mass_kg, systolic_bp, diastolic_bp, heart_rate, recorded_at`

func (r *biometricRepository) Create(ctx context.Context, record *domain.Biometric) error {
	const query = `
        INSERT INTO biometrics (owner_id, weight_kg, height_m, bmi, body_fat_pct, muscle_mass_kg, systolic_bp, diastolic_bp, heart_rate)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, recorded_at`

	return r.pool.QueryRow(ctx, query,
		record.OwnerID,
		record.WeightKg,
		record.HeightM,
		record.BMI,
		record.BodyFatPct,
		record.MuscleMassKg,
		record.SystolicBP,
		record.DiastolicBP,
		record.HeartRate,
	).Scan(&record.ID, &record.RecordedAt)
}

func (r *biometricRepository) Update(ctx context.Context, record *domain.Biometric) error {
	const query = `
        UPDATE biometrics
        SET weight_kg=$1, height_m=$2, bmi=$3, body_fat_pct=$4, muscle_mass_kg=$5,
            systolic_bp=$6, diastolic_bp=$7, heart_rate=$8
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		record.WeightKg,
		record.HeightM,
		record.BMI,
		record.BodyFatPct,
		record.MuscleMassKg,
		record.SystolicBP,
		record.DiastolicBP,
		record.HeartRate,
		record.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *biometricRepository) GetByID(ctx context.Context, id string) (*domain.Biometric, error) {
	const query = `SELECT ` + biometricColumns + ` FROM biometrics WHERE id=$1`

	var record domain.Biometric
	if err := scanBiometric(r.pool.QueryRow(ctx, query, id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *biometricRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Biometric, error) {
	const query = `SELECT ` + biometricColumns + ` FROM biometrics WHERE owner_id=$1 ORDER BY recorded_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.Biometric{}
	for rows.Next() {
		var record domain.Biometric
		if err := scanBiometric(rows, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *biometricRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM biometrics WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanBiometric(row pgx.Row, record *domain.Biometric) error {
	return row.Scan(
		&record.ID,
		&record.OwnerID,
		&record.WeightKg,
		&record.HeightM,
		&record.BMI,
		&record.BodyFatPct,
		&record.MuscleMassKg,
		&record.SystolicBP,
		&record.DiastolicBP,
		&record.HeartRate,
		&record.RecordedAt,
	)
}
