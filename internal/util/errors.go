package util

import "errors"

var (
	ErrLearnerNotFound    = errors.New("learner not found")
	ErrSessionNotFound    = errors.New("feed session not found")
	ErrSessionForbidden   = errors.New("feed session belongs to another learner")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrWorkshopFull       = errors.New("workshop is full")
	ErrAlreadyRegistered  = errors.New("already registered for workshop")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrMediaNotAvailable  = errors.New("media file not available")
	ErrNotVideoLesson     = errors.New("curriculum lesson is not a video")
	ErrInvalidReason      = errors.New("invalid navigation reason")
	ErrInvalidSort        = errors.New("invalid sort order")
	ErrUnknownOption      = errors.New("unknown onboarding option")
)
