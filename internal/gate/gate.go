// Package gate decides whether a user may start or continue a quiz
// attempt. Checks run in a fixed order and the first blocking condition
// wins; everything past a blocking status is never evaluated.
package gate

import (
	"time"

	"lms-quiz-service/internal/models"
)

type Status string

const (
	NotPublished       Status = "not_published"
	NotYetAvailable    Status = "not_yet_available"
	Closed             Status = "closed"
	AttemptsExhausted  Status = "attempts_exhausted"
	AccessCodeRequired Status = "access_code_required"
	Ready              Status = "ready"
)

// Blocking reports whether the status is terminal: display only, no
// further transition except Ready and AccessCodeRequired.
func (s Status) Blocking() bool {
	switch s {
	case NotPublished, NotYetAvailable, Closed, AttemptsExhausted:
		return true
	}
	return false
}

// Decision is the gate outcome plus the context a caller needs to render
// it: when the quiz opens, how many attempts were used, and the most
// recent attempt for the exhausted screen.
type Decision struct {
	Status       Status          `json:"status"`
	AvailableAt  time.Time       `json:"availableAt,omitempty"`
	AttemptCount int             `json:"attemptCount"`
	MaxAttempts  int             `json:"maxAttempts"`
	LastAttempt  *models.Attempt `json:"lastAttempt,omitempty"`
}

// Check evaluates the gate for one user. attempts must be ordered most
// recent first. codeVerified is session-local state: whether this session
// already presented the correct access code.
func Check(quiz *models.Quiz, attempts []models.Attempt, codeVerified bool, now time.Time) Decision {
	d := Decision{
		Status:       Ready,
		AttemptCount: len(attempts),
		MaxAttempts:  quiz.EffectiveMaxAttempts(),
	}

	if !quiz.Published {
		d.Status = NotPublished
		return d
	}

	if openAt, ok := quiz.AvailableFrom(); ok && now.Before(openAt) {
		d.Status = NotYetAvailable
		d.AvailableAt = openAt
		return d
	}

	if closeAt, ok := quiz.AvailableUntil(); ok && now.After(closeAt) {
		d.Status = Closed
		return d
	}

	if len(attempts) >= d.MaxAttempts {
		d.Status = AttemptsExhausted
		if len(attempts) > 0 {
			d.LastAttempt = &attempts[0]
		}
		return d
	}

	if quiz.AccessCode != "" && !codeVerified {
		d.Status = AccessCodeRequired
		return d
	}

	return d
}
