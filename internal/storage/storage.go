package storage

import "errors"

var (
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrTimerNotRunning  = errors.New("timer is not running")
)
