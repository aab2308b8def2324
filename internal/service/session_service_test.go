package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workout-platform/internal/domain"
	"github.com/spec-kit/workout-platform/internal/identity"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// stubResolver resolves from fixed maps; a set err fails every call.
type stubResolver struct {
	byUsername map[string]*identity.Identity
	byID       map[string]*identity.Identity
	err        error
}

func (r *stubResolver) ResolveByUsername(_ context.Context, username string) (*identity.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	ident, ok := r.byUsername[username]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return ident, nil
}

func (r *stubResolver) ResolveByID(_ context.Context, id string) (*identity.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	ident, ok := r.byID[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return ident, nil
}

// memStore is an in-memory implementation of both the session and exercise
// repositories, sharing one exercise table so cascade deletes are observable.
type memStore struct {
	sessions  []domain.WorkoutSession
	exercises map[string][]domain.Exercise
}

func newMemStore() *memStore {
	return &memStore{exercises: make(map[string][]domain.Exercise)}
}

func (m *memStore) Create(_ context.Context, session *domain.WorkoutSession) error {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	for i := range session.Exercises {
		session.Exercises[i].ID = uuid.NewString()
		session.Exercises[i].SessionID = session.ID
		m.exercises[session.ID] = append(m.exercises[session.ID], session.Exercises[i])
	}
	stored := *session
	stored.Exercises = nil
	m.sessions = append(m.sessions, stored)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.WorkoutSession, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			session := m.sessions[i]
			return &session, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) GetByOwnerAndName(_ context.Context, ownerID, name string) (*domain.WorkoutSession, error) {
	for i := range m.sessions {
		if m.sessions[i].OwnerID == ownerID && m.sessions[i].Name == name {
			session := m.sessions[i]
			return &session, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) ListAll(_ context.Context) ([]domain.WorkoutSession, error) {
	out := make([]domain.WorkoutSession, len(m.sessions))
	copy(out, m.sessions)
	return out, nil
}

func (m *memStore) ListByOwner(_ context.Context, ownerID string) ([]domain.WorkoutSession, error) {
	out := []domain.WorkoutSession{}
	for _, session := range m.sessions {
		if session.OwnerID == ownerID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (m *memStore) DeleteCascade(_ context.Context, id string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			delete(m.exercises, id)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ExerciseRepository methods.

func (m *memStore) CreateExercise(_ context.Context, exercise *domain.Exercise) error {
	exercise.ID = uuid.NewString()
	exercise.CreatedAt = time.Now()
	m.exercises[exercise.SessionID] = append(m.exercises[exercise.SessionID], *exercise)
	return nil
}

func (m *memStore) ListBySession(_ context.Context, sessionID string) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, len(m.exercises[sessionID]))
	copy(out, m.exercises[sessionID])
	return out, nil
}

// exerciseRepo adapts memStore to the ExerciseRepository interface, whose
// Create signature collides with the session one.
type exerciseRepo struct {
	store *memStore
}

func (r exerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) error {
	return r.store.CreateExercise(ctx, exercise)
}

func (r exerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	for _, list := range r.store.exercises {
		for i := range list {
			if list[i].ID == id {
				exercise := list[i]
				return &exercise, nil
			}
		}
	}
	return nil, pgx.ErrNoRows
}

func (r exerciseRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Exercise, error) {
	return r.store.ListBySession(ctx, sessionID)
}

func (r exerciseRepo) Delete(_ context.Context, id string) error {
	for sessionID, list := range r.store.exercises {
		for i := range list {
			if list[i].ID == id {
				r.store.exercises[sessionID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return pgx.ErrNoRows
}

func newTestSessionService(resolver identity.Resolver) (*SessionService, *memStore) {
	store := newMemStore()
	svc := NewSessionService(SessionDependencies{
		SessionRepo:  store,
		ExerciseRepo: exerciseRepo{store: store},
		Resolver:     resolver,
		Dispatcher:   nil,
	})
	return svc, store
}

func aliceResolver() *stubResolver {
	alice := &identity.Identity{ID: "id-alice", Username: "alice", Email: "alice@example.com", IsActive: true}
	return &stubResolver{
		byUsername: map[string]*identity.Identity{"alice": alice},
		byID:       map[string]*identity.Identity{"id-alice": alice},
	}
}

func TestCreateSessionUnknownOwnerPersistsNothing(t *testing.T) {
	svc, store := newTestSessionService(aliceResolver())

	_, err := svc.Create(context.Background(), "ghost", SessionCreateInput{Name: "leg-day", Date: time.Now()})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	listing, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listing)
	assert.Empty(t, store.sessions)
}

func TestCreateSessionResolverUnavailablePersistsNothing(t *testing.T) {
	resolver := &stubResolver{err: fmt.Errorf("%w: connection refused", identity.ErrUnavailable)}
	svc, store := newTestSessionService(resolver)

	_, err := svc.Create(context.Background(), "alice", SessionCreateInput{Name: "leg-day", Date: time.Now()})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", domainErr.Code)
	assert.Equal(t, 503, domainErr.HTTPStatus)
	assert.Empty(t, store.sessions)
}

func TestCreateSessionAttachesUsername(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())

	session, err := svc.Create(context.Background(), "alice", SessionCreateInput{
		Name: "leg-day",
		Date: time.Now(),
		Exercises: []ExerciseInput{
			{Name: "squat", Reps: intPtr(5), Series: intPtr(5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "id-alice", session.OwnerID)
	assert.Equal(t, "alice", session.OwnerUsername)
	require.Len(t, session.Exercises, 1)
	assert.Equal(t, "squat", session.Exercises[0].Name)
}

func TestListAllDegradesToSentinelOnDeletedOwner(t *testing.T) {
	resolver := aliceResolver()
	svc, _ := newTestSessionService(resolver)

	_, err := svc.Create(context.Background(), "alice", SessionCreateInput{Name: "leg-day", Date: time.Now()})
	require.NoError(t, err)

	// Owner removed from the identity service after the record was written.
	delete(resolver.byID, "id-alice")

	listing, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, UnknownUsername, listing[0].OwnerUsername)
}

func TestListAllDegradesToSentinelWhenResolverDown(t *testing.T) {
	resolver := aliceResolver()
	svc, _ := newTestSessionService(resolver)

	_, err := svc.Create(context.Background(), "alice", SessionCreateInput{Name: "leg-day", Date: time.Now()})
	require.NoError(t, err)

	resolver.err = fmt.Errorf("%w: timeout", identity.ErrUnavailable)

	listing, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, UnknownUsername, listing[0].OwnerUsername)
}

func TestGetByUsernameUnknownOwnerYieldsEmpty(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())

	sessions, err := svc.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestGetByUsernameResolverDownIsAnError(t *testing.T) {
	resolver := aliceResolver()
	resolver.err = fmt.Errorf("%w: timeout", identity.ErrUnavailable)
	svc, _ := newTestSessionService(resolver)

	_, err := svc.GetByUsername(context.Background(), "alice")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", domainErr.Code)
}

func TestDeleteCascadesToExercises(t *testing.T) {
	svc, store := newTestSessionService(aliceResolver())

	session, err := svc.Create(context.Background(), "alice", SessionCreateInput{
		Name: "leg-day",
		Date: time.Now(),
		Exercises: []ExerciseInput{
			{Name: "squat"},
			{Name: "deadlift"},
		},
	})
	require.NoError(t, err)
	require.Len(t, store.exercises[session.ID], 2)

	deleted, err := svc.Delete(context.Background(), "alice", "leg-day")
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Empty(t, store.sessions)
	assert.Empty(t, store.exercises[session.ID])
}

func TestDeleteReportsFalseForMissingSessionOrOwner(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())

	deleted, err := svc.Delete(context.Background(), "alice", "no-such-session")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.Delete(context.Background(), "ghost", "leg-day")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAddExerciseToSessionByName(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())

	_, err := svc.Create(context.Background(), "alice", SessionCreateInput{Name: "leg-day", Date: time.Now()})
	require.NoError(t, err)

	exercise, err := svc.AddExercise(context.Background(), "alice", "leg-day", ExerciseInput{Name: "lunge", Reps: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, "lunge", exercise.Name)

	exercises, err := svc.ExercisesByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "lunge", exercises[0].Name)
}

func TestAddExerciseMissingSession(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())

	_, err := svc.AddExercise(context.Background(), "alice", "no-such-session", ExerciseInput{Name: "lunge"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestSessionLifecycleEndToEnd(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", SessionCreateInput{Name: "leg-day", Date: time.Now()})
	require.NoError(t, err)

	sessions, err := svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "leg-day", sessions[0].Name)
	assert.Equal(t, "alice", sessions[0].OwnerUsername)

	deleted, err := svc.Delete(ctx, "alice", "leg-day")
	require.NoError(t, err)
	assert.True(t, deleted)

	sessions, err = svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestGetByUsernameMatchIsCaseSensitive(t *testing.T) {
	svc, _ := newTestSessionService(aliceResolver())
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", SessionCreateInput{Name: "Leg-Day", Date: time.Now()})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "alice", "leg-day")
	require.NoError(t, err)
	assert.False(t, deleted, "natural key lookups are exact-match")

	deleted, err = svc.Delete(ctx, "alice", "Leg-Day")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func intPtr(v int) *int {
	return &v
}
