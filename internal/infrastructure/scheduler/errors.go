package scheduler

import "errors"

var (
	// ErrLockNotObtained is returned when another replica holds the job lock
	ErrLockNotObtained = errors.New("job lock held by another instance")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when Start is called twice
	ErrAlreadyRunning = errors.New("scheduler is already running")
)
