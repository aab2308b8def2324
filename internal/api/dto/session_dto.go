package dto

import (
	"time"

	"github.com/spec-kit/workout-platform/internal/domain"
	"github.com/spec-kit/workout-platform/internal/service"
)

// CreateSessionRequest payload. Sessions are addressed by the owner's
// username at the API boundary; the internal owner id never appears in input.
type CreateSessionRequest struct {
	Username  string            `json:"username"`
	Name      string            `json:"name"`
	Date      time.Time         `json:"date"`
	Notes     *string           `json:"notes"`
	Exercises []ExerciseRequest `json:"exercises"`
}

// ExerciseRequest describes one exercise in a create payload.
type ExerciseRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Weight      *float64 `json:"weight"`
	Reps        *int     `json:"reps"`
	Series      *int     `json:"series"`
	Duration    *float64 `json:"duration"`
	Distance    *float64 `json:"distance"`
}

// AddExerciseRequest appends an exercise to an existing session, addressed by
// (username, session name).
type AddExerciseRequest struct {
	Username    string `json:"username"`
	SessionName string `json:"session_name"`
	ExerciseRequest
}

// SessionResponse is the outward session shape with the resolved username
// merged in.
type SessionResponse struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"user_id"`
	Username  string             `json:"username"`
	Name      string             `json:"name"`
	Date      time.Time          `json:"date"`
	Notes     *string            `json:"notes,omitempty"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// ExerciseResponse is the outward exercise shape.
type ExerciseResponse struct {
	ID          string   `json:"id"`
	SessionID   string   `json:"session_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Reps        *int     `json:"reps,omitempty"`
	Series      *int     `json:"series,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
}

// ToExerciseInput converts the request shape for the service layer.
func (r ExerciseRequest) ToExerciseInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		Description: r.Description,
		Weight:      r.Weight,
		Reps:        r.Reps,
		Series:      r.Series,
		Duration:    r.Duration,
		Distance:    r.Distance,
	}
}

// FromSession maps a domain session to its response shape.
func FromSession(session *domain.WorkoutSession) SessionResponse {
	resp := SessionResponse{
		ID:        session.ID,
		OwnerID:   session.OwnerID,
		Username:  session.OwnerUsername,
		Name:      session.Name,
		Date:      session.Date,
		Notes:     session.Notes,
		Exercises: FromExercises(session.Exercises),
	}
	return resp
}

// FromSessions maps a slice of domain sessions.
func FromSessions(sessions []domain.WorkoutSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, FromSession(&sessions[i]))
	}
	return out
}

// FromExercise maps a domain exercise.
func FromExercise(exercise *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:          exercise.ID,
		SessionID:   exercise.SessionID,
		Name:        exercise.Name,
		Description: exercise.Description,
		Weight:      exercise.Weight,
		Reps:        exercise.Reps,
		Series:      exercise.Series,
		Duration:    exercise.Duration,
		Distance:    exercise.Distance,
	}
}

// FromExercises maps a slice of domain exercises.
func FromExercises(exercises []domain.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		out = append(out, FromExercise(&exercises[i]))
	}
	return out
}
