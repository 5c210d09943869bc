package discovery

import "fmt"

// Config bounds pagination and the candidate superset fetched for ranking.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	// MaxCandidates is the safe upper bound of rows fetched before the
	// in-memory re-sort. Pages beyond it are not reachable.
	MaxCandidates int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:  20,
		MaxLimit:      100,
		MaxCandidates: 5000,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit %d below default limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.MaxCandidates < c.MaxLimit {
		return fmt.Errorf("max candidates %d below max limit %d", c.MaxCandidates, c.MaxLimit)
	}
	return nil
}
