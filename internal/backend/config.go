package backend

import (
	"fmt"

	"finboard/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.FinanceBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.FinanceBackend)
	}

	return Config{
		Type:       backendType,
		APIURL:     appConfig.FinanceAPIURL,
		APIToken:   appConfig.FinanceAPIToken,
		APITimeout: appConfig.FinanceAPITimeout,
		Seed:       backendType == MemoryBackend,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == RESTBackend && c.APIURL == "" {
		return fmt.Errorf("finance API URL is required for rest backend")
	}
	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	return []string{RESTBackend.String(), MemoryBackend.String()}
}
