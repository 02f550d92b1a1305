package inference

import (
	"fmt"
	"time"

	"github.com/command-pidog/pidog-api/internal/httpc"
)

// openRouterURL is the OpenRouter API root.
const openRouterURL = "https://openrouter.ai/api/v1"

// llmClient allows for slow vision completions. Callers still bound each
// request with a context deadline.
var llmClient = httpc.NewClient(90 * time.Second)

// ProviderInfo is the provider listing served by /agent/providers.
type ProviderInfo struct {
	Name         string `json:"name"`
	Available    bool   `json:"available"`
	DefaultModel string `json:"default_model"`
}

// RegistryConfig holds the provider endpoints and defaults.
type RegistryConfig struct {
	OllamaURL        string
	OllamaModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	DefaultProvider  string
}

// Registry resolves provider names to configured clients.
type Registry struct {
	cfg RegistryConfig
}

// NewRegistry creates a registry from provider configuration.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{cfg: cfg}
}

// Get returns the named provider, or the configured default when name is
// empty. A non-empty model overrides the provider's default model.
func (r *Registry) Get(name, model string) (Provider, error) {
	if name == "" {
		name = r.cfg.DefaultProvider
	}
	switch name {
	case "ollama":
		m := r.cfg.OllamaModel
		if model != "" {
			m = model
		}
		return NewClient("ollama", r.cfg.OllamaURL+"/v1", m, WithHTTPClient(llmClient)), nil
	case "openrouter":
		if r.cfg.OpenRouterAPIKey == "" {
			return nil, WrapError("openrouter", ErrNoAPIKey)
		}
		m := r.cfg.OpenRouterModel
		if model != "" {
			m = model
		}
		return NewClient("openrouter", openRouterURL, m,
			WithAPIKey(r.cfg.OpenRouterAPIKey),
			WithHeader("HTTP-Referer", "https://github.com/command-pidog"),
			WithHTTPClient(llmClient),
		), nil
	default:
		return nil, WrapError(name, fmt.Errorf("%w: use 'ollama' or 'openrouter'", ErrUnknownProvider))
	}
}

// List describes every known provider for the API.
func (r *Registry) List() []ProviderInfo {
	return []ProviderInfo{
		{Name: "ollama", Available: true, DefaultModel: r.cfg.OllamaModel},
		{Name: "openrouter", Available: r.cfg.OpenRouterAPIKey != "", DefaultModel: r.cfg.OpenRouterModel},
	}
}
