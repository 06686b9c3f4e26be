package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 generation fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	QueryID   ID
	DatasetID ID
)

func (id QueryID) String() string   { return ID(id).String() }
func (id DatasetID) String() string { return ID(id).String() }

// NewQueryID creates a time-ordered identifier for a metric query
func NewQueryID() QueryID {
	return QueryID(NewID())
}

// ParseDatasetID validates the "<source>-<table>" shape shared by every dataset ID
func ParseDatasetID(s string) (DatasetID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: dataset ID cannot be empty", ErrInvalidDatasetID)
	}
	if s == "brfss" {
		return DatasetID(s), nil
	}
	source, table, ok := strings.Cut(s, "-")
	if !ok || source == "" || table == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDatasetID, s)
	}
	return DatasetID(s), nil
}

// Source returns the upstream source part of the dataset ID
func (id DatasetID) Source() string {
	source, _, _ := strings.Cut(string(id), "-")
	return source
}
