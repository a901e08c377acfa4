// Package content defines the read-only reference data contracts: city and
// neighborhood profiles used to seed new sessions, and the built-in event
// template pools. The core engine never mutates reference data.
package content

import (
	"context"
	"errors"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
)

// ErrCityNotFound is returned for lookups of unknown city ids. There is
// deliberately no fallback to a default city: a bad id is a caller bug and
// must surface as an error, not as Los Angeles.
var ErrCityNotFound = errors.New("city not found")

// NeighborhoodProfile is the reference shape of one neighborhood.
type NeighborhoodProfile struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Pulse pulse.NeighborhoodPulse `json:"pulse"`
}

// CityProfile is the reference shape of a city with its neighborhoods.
type CityProfile struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Region        string                `json:"region"`
	Pulse         pulse.CityPulse       `json:"pulse"`
	Neighborhoods []NeighborhoodProfile `json:"neighborhoods"`
}

// CitySummary is the listing shape for admin endpoints.
type CitySummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Region        string `json:"region"`
	Neighborhoods int    `json:"neighborhoods"`
}

// Provider is the read contract the session layer depends on.
type Provider interface {
	// GetCityWithNeighborhoods returns the profile for a city id, or
	// ErrCityNotFound.
	GetCityWithNeighborhoods(ctx context.Context, id string) (*CityProfile, error)

	// ListCities returns summaries of every known city.
	ListCities(ctx context.Context) ([]CitySummary, error)
}

// ToState converts a profile into the mutable per-session city state. The
// family starts in the first neighborhood unless the caller overrides it.
func (p *CityProfile) ToState() game.CityState {
	st := game.CityState{
		ID:     p.ID,
		Name:   p.Name,
		Region: p.Region,
		Pulse:  p.Pulse,
	}
	for _, n := range p.Neighborhoods {
		st.Neighborhoods = append(st.Neighborhoods, game.Neighborhood{
			ID:    n.ID,
			Name:  n.Name,
			Pulse: n.Pulse,
		})
	}
	if len(st.Neighborhoods) > 0 {
		st.CurrentNeighborhoodID = st.Neighborhoods[0].ID
	}
	return st
}
