package domain

import "context"

// WarmReport summarises one explanation warm-up run.
type WarmReport struct {
	Requested   int
	Generated   int
	AlreadyWarm int
	Failed      int
	// Skipped counts entries not attempted because the upstream quota or cooldown stopped the run.
	Skipped int
}

// BatchService defines the interface for batch operations.
type BatchService interface {
	WarmExplanations(ctx context.Context, requests []ExplanationRequest) (*WarmReport, error)
}
