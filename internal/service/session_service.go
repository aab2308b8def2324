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

// UnknownUsername is substituted when a stored owner id can no longer be
// resolved against the auth service. One bad lookup must not blank a listing.
const UnknownUsername = "unknown"

// SessionService turns username-addressed operations into id-addressed
// persistence and decorates reads with usernames resolved at request time.
type SessionService struct {
	sessions   repository.SessionRepository
	exercises  repository.ExerciseRepository
	resolver   identity.Resolver
	dispatcher events.Dispatcher
}

// SessionDependencies bundles requirements for the session service.
type SessionDependencies struct {
	SessionRepo  repository.SessionRepository
	ExerciseRepo repository.ExerciseRepository
	Resolver     identity.Resolver
	Dispatcher   events.Dispatcher
}

// SessionCreateInput describes a session creation payload.
type SessionCreateInput struct {
	Name      string
	Date      time.Time
	Notes     *string
	Exercises []ExerciseInput
}

// ExerciseInput describes one exercise attached to a session.
type ExerciseInput struct {
	Name        string
	Description *string
	Weight      *float64
	Reps        *int
	Series      *int
	Duration    *float64
	Distance    *float64
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	return &SessionService{
		sessions:   deps.SessionRepo,
		exercises:  deps.ExerciseRepo,
		resolver:   deps.Resolver,
		dispatcher: deps.Dispatcher,
	}
}

// Create resolves the owner first and persists only on success, so a missing
// or unreachable owner never leaves a partial write behind.
func (s *SessionService) Create(ctx context.Context, ownerUsername string, input SessionCreateInput) (*domain.WorkoutSession, error) {
	ident, err := s.resolveOwner(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}

	session := &domain.WorkoutSession{
		OwnerID: ident.ID,
		Name:    input.Name,
		Date:    input.Date,
		Notes:   input.Notes,
	}
	for _, ex := range input.Exercises {
		session.Exercises = append(session.Exercises, exerciseFromInput(ex))
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	session.OwnerUsername = ident.Username

	s.publish(ctx, events.Event{
		Type:          events.EventSessionCreated,
		OwnerID:       session.OwnerID,
		OwnerUsername: session.OwnerUsername,
		Payload: events.SessionCreatedPayload{
			SessionID:     session.ID,
			Name:          session.Name,
			ExerciseCount: len(session.Exercises),
		},
	})
	return session, nil
}

// ListAll returns every stored session with its owner's current username
// merged in. A failed lookup degrades that one record to the sentinel instead
// of failing the whole listing.
func (s *SessionService) ListAll(ctx context.Context) ([]domain.WorkoutSession, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		ident, err := s.resolver.ResolveByID(ctx, sessions[i].OwnerID)
		if err != nil {
			sessions[i].OwnerUsername = UnknownUsername
		} else {
			sessions[i].OwnerUsername = ident.Username
		}
		if err := s.attachExercises(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// GetByUsername resolves the username once and filters local records by the
// resolved id. An owner the auth service does not know yields an empty list,
// not an error.
func (s *SessionService) GetByUsername(ctx context.Context, ownerUsername string) ([]domain.WorkoutSession, error) {
	ident, err := s.resolver.ResolveByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return []domain.WorkoutSession{}, nil
		}
		return nil, apperrors.NewUpstreamUnavailable("auth service", err)
	}

	sessions, err := s.sessions.ListByOwner(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].OwnerUsername = ident.Username
		if err := s.attachExercises(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// Delete removes the session matching (owner username, session name) together
// with its exercises. It reports false when the owner or the session does not
// exist; resolver unavailability still surfaces as an error.
func (s *SessionService) Delete(ctx context.Context, ownerUsername, name string) (bool, error) {
	ident, err := s.resolver.ResolveByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.NewUpstreamUnavailable("auth service", err)
	}

	session, err := s.sessions.GetByOwnerAndName(ctx, ident.ID, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if err := s.sessions.DeleteCascade(ctx, session.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	s.publish(ctx, events.Event{
		Type:          events.EventSessionDeleted,
		OwnerID:       ident.ID,
		OwnerUsername: ident.Username,
		Payload: events.SessionDeletedPayload{
			SessionID: session.ID,
			Name:      session.Name,
		},
	})
	return true, nil
}

// AddExercise appends an exercise to the session addressed by
// (owner username, session name).
func (s *SessionService) AddExercise(ctx context.Context, ownerUsername, sessionName string, input ExerciseInput) (*domain.Exercise, error) {
	ident, err := s.resolveOwner(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByOwnerAndName(ctx, ident.ID, sessionName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("session", map[string]any{"name": sessionName})
		}
		return nil, err
	}

	exercise := exerciseFromInput(input)
	exercise.SessionID = session.ID
	if err := s.exercises.Create(ctx, &exercise); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:          events.EventExerciseAdded,
		OwnerID:       ident.ID,
		OwnerUsername: ident.Username,
		Payload: events.ExerciseAddedPayload{
			SessionID:    session.ID,
			ExerciseID:   exercise.ID,
			ExerciseName: exercise.Name,
		},
	})
	return &exercise, nil
}

// ExercisesByUsername gathers all exercises across the owner's sessions.
// Like GetByUsername, an unknown owner yields an empty list.
func (s *SessionService) ExercisesByUsername(ctx context.Context, ownerUsername string) ([]domain.Exercise, error) {
	ident, err := s.resolver.ResolveByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return []domain.Exercise{}, nil
		}
		return nil, apperrors.NewUpstreamUnavailable("auth service", err)
	}

	sessions, err := s.sessions.ListByOwner(ctx, ident.ID)
	if err != nil {
		return nil, err
	}

	exercises := []domain.Exercise{}
	for _, session := range sessions {
		list, err := s.exercises.ListBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, list...)
	}
	return exercises, nil
}

func (s *SessionService) resolveOwner(ctx context.Context, username string) (*identity.Identity, error) {
	ident, err := s.resolver.ResolveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, apperrors.NewUpstreamUnavailable("auth service", err)
	}
	return ident, nil
}

func (s *SessionService) attachExercises(ctx context.Context, session *domain.WorkoutSession) error {
	list, err := s.exercises.ListBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Exercises = list
	return nil
}

func (s *SessionService) publish(ctx context.Context, event events.Event) {
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

func exerciseFromInput(input ExerciseInput) domain.Exercise {
	return domain.Exercise{
		Name:        input.Name,
		Description: input.Description,
		Weight:      input.Weight,
		Reps:        input.Reps,
		Series:      input.Series,
		Duration:    input.Duration,
		Distance:    input.Distance,
	}
}
