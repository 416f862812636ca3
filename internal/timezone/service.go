// Package timezone resolves coordinates to IANA timezone names. Segmentation
// uses it to anchor next-day departures to the traveller's local clock.
package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Service looks up the IANA timezone name for a coordinate.
type Service interface {
	Lookup(latitude, longitude float64) (string, error)
}

type service struct {
	finder tzf.F
	mu     sync.RWMutex
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService creates or returns the process-wide timezone service. A
// singleton because the tzf finder holds the full timezone polygon dataset
// in memory; loading it once is enough. A failed load is sticky: every call
// after a failure reports the same error rather than a nil service.
func NewService() (Service, error) {
	once.Do(func() {
		instance, initErr = newService(tzf.NewDefaultFinder)
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

func newService(load func() (tzf.F, error)) (*service, error) {
	finder, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone finder: %w", err)
	}
	return &service{finder: finder}, nil
}

// Lookup returns names like "Europe/Paris" or "America/Denver".
func (s *service) Lookup(latitude, longitude float64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := s.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", fmt.Errorf("no timezone found for lat=%f lon=%f", latitude, longitude)
	}
	return name, nil
}
