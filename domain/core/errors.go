package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	// Configuration errors: caller or wiring bugs, never retried
	ErrNoProvider           = errors.New("no provider configured for metric")
	ErrUnsupportedBreakdown = errors.New("unsupported breakdown")
	ErrInvalidDatasetID     = errors.New("invalid dataset ID")
	ErrUnknownDimension     = errors.New("unknown demographic dimension")

	// Breakdown shape errors
	ErrNoDemographic        = errors.New("no demographic breakdown enabled")
	ErrMultipleDemographics = errors.New("more than one demographic breakdown enabled")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewNoProviderError(metricID string) error {
	return fmt.Errorf("%w: %s", ErrNoProvider, metricID)
}

func NewUnsupportedBreakdownError(providerID, breakdown string) error {
	return fmt.Errorf("%w: provider %s cannot serve %s", ErrUnsupportedBreakdown, providerID, breakdown)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigurationError reports errors caused by an invalid request or wiring
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoProvider) ||
		errors.Is(err, ErrUnsupportedBreakdown) ||
		errors.Is(err, ErrInvalidDatasetID) ||
		errors.Is(err, ErrUnknownDimension) ||
		errors.Is(err, ErrNoDemographic) ||
		errors.Is(err, ErrMultipleDemographics)
}
