package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionCreated    EventType = "session_created"
	EventSessionDeleted    EventType = "session_deleted"
	EventExerciseAdded     EventType = "exercise_added"
	EventBiometricRecorded EventType = "biometric_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	OwnerID       string      `json:"owner_id"`
	OwnerUsername string      `json:"owner_username"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// SessionCreatedPayload payload.
type SessionCreatedPayload struct {
	SessionID     string `json:"session_id"`
	Name          string `json:"name"`
	ExerciseCount int    `json:"exercise_count"`
}

// SessionDeletedPayload payload.
type SessionDeletedPayload struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// ExerciseAddedPayload payload.
type ExerciseAddedPayload struct {
	SessionID    string `json:"session_id"`
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
}

// BiometricRecordedPayload payload.
type BiometricRecordedPayload struct {
	BiometricID string   `json:"biometric_id"`
	WeightKg    float64  `json:"weight_kg"`
	BMI         *float64 `json:"bmi,omitempty"`
}
