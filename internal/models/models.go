package models

import "time"

type Account struct {
	ID       int64
	Email    string
	PassHash string
}

// Session is the verified claim set carried by a token. It exists for the
// duration of one request and is never persisted.
type Session struct {
	AccountID int64
	NotBefore time.Time
	ExpiresAt time.Time
}

type Activity struct {
	ID                int64  `json:"id"`
	AccountID         int64  `json:"account_id"`
	Title             string `json:"title"`
	Content           string `json:"content"`
	TimeBudgetSeconds int64  `json:"time_budget_seconds"`
}

// TimeSpent is a manually recorded time entry attached to an activity.
type TimeSpent struct {
	ID         int64 `json:"id"`
	ActivityID int64 `json:"activity_id"`
	Seconds    int64 `json:"seconds"`
}

// Message is published to the broker after a successful registration.
type Message struct {
	Email   string `json:"to"`
	Purpose string `json:"purpose"`
}
