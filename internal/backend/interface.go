package backend

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"finboard/internal/finance"
)

// Connector hands out a finance backend acting for one caller.
type Connector interface {
	// Connect returns a backend authenticated with ts. A nil ts falls back
	// to the service credential, if one is configured.
	Connect(ts oauth2.TokenSource) finance.Backend

	// RequiresCredential reports whether requests without a caller
	// credential must be refused.
	RequiresCredential() bool
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the connector and optional cleanup function
type BackendResult struct {
	Connector Connector
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// REST specific
	APIURL     string
	APIToken   string
	APITimeout time.Duration

	// Memory specific
	Seed bool
}

// BackendType represents the type of backend
type BackendType string

const (
	RESTBackend   BackendType = "rest"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
