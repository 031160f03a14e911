package backend

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"finboard/internal/finance"
	"finboard/internal/finance/memory"
	"finboard/internal/finance/rest"
	"finboard/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RESTBackend:
		return f.createRESTBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRESTBackend(config Config) (*BackendResult, error) {
	var opts []rest.Option
	if config.APITimeout > 0 {
		opts = append(opts, rest.WithTimeout(config.APITimeout))
	}
	client, err := rest.New(config.APIURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize finance API client: %w", err)
	}

	var service oauth2.TokenSource
	if config.APIToken != "" {
		service = rest.BearerToken(config.APIToken)
	}

	f.logger.Info("Initialized REST backend",
		"api_url", config.APIURL,
		"service_token", service != nil)

	return &BackendResult{Connector: &restConnector{client: client, service: service}}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := memory.New()
	if config.Seed {
		if err := memory.Seed(ctx, store); err != nil {
			return nil, fmt.Errorf("failed to seed memory backend: %w", err)
		}
	}

	f.logger.Info("Initialized memory backend", "seeded", config.Seed)

	return &BackendResult{Connector: Static(store)}, nil
}

type restConnector struct {
	client  *rest.Client
	service oauth2.TokenSource
}

func (c *restConnector) Connect(ts oauth2.TokenSource) finance.Backend {
	if ts == nil {
		ts = c.service
	}
	return c.client.WithTokenSource(ts)
}

func (c *restConnector) RequiresCredential() bool { return true }

type staticConnector struct {
	backend finance.Backend
}

// Static serves the same backend to every caller and never asks for a
// credential.
func Static(b finance.Backend) Connector {
	return staticConnector{backend: b}
}

func (c staticConnector) Connect(oauth2.TokenSource) finance.Backend { return c.backend }

func (c staticConnector) RequiresCredential() bool { return false }
