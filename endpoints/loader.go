package endpoints

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/capture/signature"
	"gopkg.in/yaml.v3"
)

/* Loader manages endpoint configuration from endpoints.yaml
 * Provides in-memory lookup by path for the ingestion route
 */

// Config represents the structure of endpoints.yaml
type Config struct {
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// EndpointConfig represents a single endpoint in the YAML file
type EndpointConfig struct {
	ID                 string `yaml:"id"`
	Name               string `yaml:"name"`
	Path               string `yaml:"path"`
	Active             *bool  `yaml:"active"` // Default: true
	VerificationMethod string `yaml:"verification_method"`
	VerificationSecret string `yaml:"verification_secret"` // ${VAR} is expanded from the environment
}

// Loader holds the loaded endpoints
type Loader struct {
	mu     sync.RWMutex
	byPath map[string]capture.Endpoint
	byID   map[string]capture.Endpoint
}

// NewLoader creates a new endpoint loader
func NewLoader() *Loader {
	return &Loader{
		byPath: make(map[string]capture.Endpoint),
		byID:   make(map[string]capture.Endpoint),
	}
}

// Load reads and parses an endpoints file, replacing any previously loaded set.
// Nothing is replaced when the file is invalid.
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading endpoints file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing endpoints YAML: %w", err)
	}

	byPath := make(map[string]capture.Endpoint, len(config.Endpoints))
	byID := make(map[string]capture.Endpoint, len(config.Endpoints))

	for i, ec := range config.Endpoints {
		ep, err := ec.toEndpoint()
		if err != nil {
			return fmt.Errorf("endpoint #%d: %w", i+1, err)
		}
		if _, dup := byID[ep.ID]; dup {
			return fmt.Errorf("duplicate endpoint id %q", ep.ID)
		}
		if _, dup := byPath[ep.Path]; dup {
			return fmt.Errorf("duplicate endpoint path %q", ep.Path)
		}
		byPath[ep.Path] = ep
		byID[ep.ID] = ep
	}

	l.mu.Lock()
	l.byPath = byPath
	l.byID = byID
	l.mu.Unlock()

	return nil
}

// FindByPath resolves the endpoint for a /hook/{path} token
func (l *Loader) FindByPath(ctx context.Context, path string) (capture.Endpoint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ep, ok := l.byPath[NormalizePath(path)]
	if !ok {
		return capture.Endpoint{}, capture.ErrEndpointNotFound
	}
	return ep, nil
}

// Get retrieves an endpoint by its ID
func (l *Loader) Get(id string) (capture.Endpoint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ep, ok := l.byID[id]
	if !ok {
		return capture.Endpoint{}, fmt.Errorf("endpoint %s: %w", id, capture.ErrEndpointNotFound)
	}
	return ep, nil
}

// List returns all loaded endpoints ordered by ID
func (l *Loader) List() []capture.Endpoint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := make([]capture.Endpoint, 0, len(l.byID))
	for _, ep := range l.byID {
		list = append(list, ep)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// NormalizePath strips a leading /hook/ prefix and surrounding slashes
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	p = strings.TrimPrefix(p, "hook/")
	return p
}

func (ec EndpointConfig) toEndpoint() (capture.Endpoint, error) {
	method, err := signature.ParseMethod(ec.VerificationMethod)
	if err != nil {
		return capture.Endpoint{}, fmt.Errorf("endpoint %q: %w", ec.ID, err)
	}

	active := true
	if ec.Active != nil {
		active = *ec.Active
	}

	ep := capture.Endpoint{
		ID:                 ec.ID,
		Name:               ec.Name,
		Path:               NormalizePath(ec.Path),
		Active:             active,
		VerificationMethod: method,
		VerificationSecret: os.ExpandEnv(ec.VerificationSecret),
	}
	if ep.Name == "" {
		ep.Name = ep.ID
	}

	if err := Validate(ep); err != nil {
		return capture.Endpoint{}, err
	}
	return ep, nil
}
