package dto

import (
	"time"

	"github.com/spec-kit/workout-platform/internal/domain"
)

// CreateBiometricRequest payload. BMI is never accepted from input.
type CreateBiometricRequest struct {
	Username     string   `json:"username"`
	WeightKg     float64  `json:"weight_kg"`
	HeightM      float64  `json:"height_m"`
	BodyFatPct   *float64 `json:"body_fat_pct"`
	MuscleMassKg *float64 `json:"muscle_mass_kg"`
	SystolicBP   *int     `json:"systolic_bp"`
	DiastolicBP  *int     `json:"diastolic_bp"`
	HeartRate    *int     `json:"heart_rate"`
}

// UpdateBiometricRequest carries optional fields for a partial update.
type UpdateBiometricRequest struct {
	WeightKg     *float64 `json:"weight_kg"`
	HeightM      *float64 `json:"height_m"`
	BodyFatPct   *float64 `json:"body_fat_pct"`
	MuscleMassKg *float64 `json:"muscle_mass_kg"`
	SystolicBP   *int     `json:"systolic_bp"`
	DiastolicBP  *int     `json:"diastolic_bp"`
	HeartRate    *int     `json:"heart_rate"`
}

// BiometricResponse is the outward measurement shape.
type BiometricResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	WeightKg     float64   `json:"weight_kg"`
	HeightM      float64   `json:"height_m"`
	BMI          *float64  `json:"bmi,omitempty"`
	BodyFatPct   *float64  `json:"body_fat_pct,omitempty"`
	MuscleMassKg *float64  `json:"muscle_mass_kg,omitempty"`
	SystolicBP   *int      `json:"systolic_bp,omitempty"`
	DiastolicBP  *int      `json:"diastolic_bp,omitempty"`
	HeartRate    *int      `json:"heart_rate,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// FromBiometric maps a domain record.
func FromBiometric(record *domain.Biometric) BiometricResponse {
	return BiometricResponse{
		ID:           record.ID,
		OwnerID:      record.OwnerID,
		Username:     record.OwnerUsername,
		WeightKg:     record.WeightKg,
		HeightM:      record.HeightM,
		BMI:          record.BMI,
		BodyFatPct:   record.BodyFatPct,
		MuscleMassKg: record.MuscleMassKg,
		SystolicBP:   record.SystolicBP,
		DiastolicBP:  record.DiastolicBP,
		HeartRate:    record.HeartRate,
		RecordedAt:   record.RecordedAt,
	}
}

// FromBiometrics maps a slice of domain records.
func FromBiometrics(records []domain.Biometric) []BiometricResponse {
	out := make([]BiometricResponse, 0, len(records))
	for i := range records {
		out = append(out, FromBiometric(&records[i]))
	}
	return out
}
