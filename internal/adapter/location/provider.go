package location

import (
	"fmt"
	"os"
	"strings"

	"github.com/scanforge/artifact-fetch/internal/port"
)

// Provider resolves tool install directories from a static map built at
// startup, falling back to an environment variable derived from the key
// (dots and dashes become underscores, letters are uppercased).
type Provider struct {
	locations map[string]string
}

// Ensure Provider implements port.LocationProvider
var _ port.LocationProvider = (*Provider)(nil)

// New creates a Provider over the given key-to-directory map.
func New(locations map[string]string) *Provider {
	return &Provider{locations: locations}
}

// Locate returns the directory configured for key.
func (p *Provider) Locate(key string) (string, error) {
	if dir := p.locations[key]; dir != "" {
		return dir, nil
	}
	if dir := os.Getenv(EnvName(key)); dir != "" {
		return dir, nil
	}
	return "", fmt.Errorf("no location configured for %q (set %s)", key, EnvName(key))
}

// EnvName returns the environment variable consulted for a location key.
func EnvName(key string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
	return mapped
}
