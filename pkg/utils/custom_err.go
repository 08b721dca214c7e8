package utils

import "errors"

var (
	ErrItineraryNotFound      = errors.New("itinerary not found")
	ErrNodeNotFound           = errors.New("node not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDatabaseError          = errors.New("database error")
	ErrNodeAlreadyLit         = errors.New("node already lit")
	ErrNodeStateFinal         = errors.New("node lifecycle state is final")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of AI")
	ErrGenerationFailed       = errors.New("itinerary generation failed")
)
