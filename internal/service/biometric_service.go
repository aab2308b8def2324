package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workout-platform/internal/domain"
	"github.com/spec-kit/workout-platform/internal/events"
	"github.com/spec-kit/workout-platform/internal/identity"
	"github.com/spec-kit/workout-platform/internal/repository"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// BiometricService manages body measurements, resolving owners through the
// auth service the same way sessions do.
type BiometricService struct {
	records    repository.BiometricRepository
	resolver   identity.Resolver
	dispatcher events.Dispatcher
}

// BiometricCreateInput describes a new measurement. BMI is not accepted from
// input; it is derived from weight and height.
type BiometricCreateInput struct {
	WeightKg     float64
	HeightM      float64
	BodyFatPct   *float64
	MuscleMassKg *float64
	SystolicBP   *int
	DiastolicBP  *int
	HeartRate    *int
}

// BiometricUpdateInput describes a partial update to an existing record.
type BiometricUpdateInput struct {
	WeightKg     *float64
	HeightM      *float64
	BodyFatPct   *float64
	MuscleMassKg *float64
	SystolicBP   *int
	DiastolicBP  *int
	HeartRate    *int
}

// NewBiometricService constructs the service.
func NewBiometricService(records repository.BiometricRepository, resolver identity.Resolver, dispatcher events.Dispatcher) *BiometricService {
	return &BiometricService{records: records, resolver: resolver, dispatcher: dispatcher}
}

// Create resolves the owner, derives BMI and persists the record. Nothing is
// written when resolution fails.
func (s *BiometricService) Create(ctx context.Context, ownerUsername string, input BiometricCreateInput) (*domain.Biometric, error) {
	if input.WeightKg <= 0 || input.HeightM <= 0 {
		return nil, apperrors.NewValidationError("weight and height must be positive", nil)
	}

	ident, err := s.resolver.ResolveByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": ownerUsername})
		}
		return nil, apperrors.NewUpstreamUnavailable("auth service", err)
	}

	record := &domain.Biometric{
		OwnerID:      ident.ID,
		WeightKg:     input.WeightKg,
		HeightM:      input.HeightM,
		BMI:          computeBMI(input.WeightKg, input.HeightM),
		BodyFatPct:   input.BodyFatPct,
		MuscleMassKg: input.MuscleMassKg,
		SystolicBP:   input.SystolicBP,
		DiastolicBP:  input.DiastolicBP,
		HeartRate:    input.HeartRate,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	record.OwnerUsername = ident.Username

	s.publish(ctx, events.Event{
		Type:          events.EventBiometricRecorded,
		OwnerID:       record.OwnerID,
		OwnerUsername: record.OwnerUsername,
		Payload: events.BiometricRecordedPayload{
			BiometricID: record.ID,
			WeightKg:    record.WeightKg,
			BMI:         record.BMI,
		},
	})
	return record, nil
}

// ListByUsername returns the owner's measurements, oldest first. An unknown
// owner yields an empty list.
func (s *BiometricService) ListByUsername(ctx context.Context, ownerUsername string) ([]domain.Biometric, error) {
	ident, err := s.resolver.ResolveByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return []domain.Biometric{}, nil
		}
		return nil, apperrors.NewUpstreamUnavailable("auth service", err)
	}

	records, err := s.records.ListByOwner(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].OwnerUsername = ident.Username
	}
	return records, nil
}

// Update applies a partial update and recomputes BMI from the final values.
func (s *BiometricService) Update(ctx context.Context, id string, input BiometricUpdateInput) (*domain.Biometric, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("biometric record", map[string]any{"id": id})
		}
		return nil, err
	}

	if input.WeightKg != nil {
		record.WeightKg = *input.WeightKg
	}
	if input.HeightM != nil {
		record.HeightM = *input.HeightM
	}
	if input.BodyFatPct != nil {
		record.BodyFatPct = input.BodyFatPct
	}
	if input.MuscleMassKg != nil {
		record.MuscleMassKg = input.MuscleMassKg
	}
	if input.SystolicBP != nil {
		record.SystolicBP = input.SystolicBP
	}
	if input.DiastolicBP != nil {
		record.DiastolicBP = input.DiastolicBP
	}
	if input.HeartRate != nil {
		record.HeartRate = input.HeartRate
	}
	if record.WeightKg <= 0 || record.HeightM <= 0 {
		return nil, apperrors.NewValidationError("weight and height must be positive", nil)
	}
	record.BMI = computeBMI(record.WeightKg, record.HeightM)

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a measurement by id.
func (s *BiometricService) Delete(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("biometric record", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *BiometricService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func computeBMI(weightKg, heightM float64) *float64 {
	if weightKg <= 0 || heightM <= 0 {
		return nil
	}
	bmi := weightKg / (heightM * heightM)
	return &bmi
}
