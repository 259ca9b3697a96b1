package model

import "time"

const (
	MethodPassword = "password"
	MethodOAuth    = "oauth"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type LoginAttempt struct {
	ID         int64 `sql:"primary_key"`
	Method     string
	Provider   string
	Email      string
	Outcome    string
	OccurredAt time.Time
}

func (a LoginAttempt) Failed() bool {
	return a.Outcome == OutcomeFailure
}
