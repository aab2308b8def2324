package domain

import "time"

// WorkoutSession groups exercises performed by one user on one day.
// OwnerID references a user in the auth service; it is fixed at creation and
// never re-resolved. OwnerUsername is transient: filled in at read time by the
// identity resolver, never persisted.
type WorkoutSession struct {
	ID            string
	OwnerID       string
	OwnerUsername string
	Name          string
	Date          time.Time
	Notes         *string
	Exercises     []Exercise
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Exercise is a single movement inside a session. Weight, duration and
// distance are optional because not every exercise uses them.
type Exercise struct {
	ID          string
	SessionID   string
	Name        string
	Description *string
	Weight      *float64
	Reps        *int
	Series      *int
	Duration    *float64
	Distance    *float64
	CreatedAt   time.Time
}
