package domain

import "time"

// Biometric is a point-in-time body measurement for a user. BMI is computed
// from weight and height when both are present, not accepted from input.
type Biometric struct {
	ID            string
	OwnerID       string
	OwnerUsername string
	WeightKg      float64
	HeightM       float64
	BMI           *float64
	BodyFatPct    *float64
	MuscleMassKg  *float64
	SystolicBP    *int
	DiastolicBP   *int
	HeartRate     *int
	RecordedAt    time.Time
}
