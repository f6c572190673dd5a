package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"wayfarer/internal/types"
)

var (
	ErrNoRoute        = errors.New("no route found")
	ErrNotFound       = errors.New("location not found")
	ErrUnknownProfile = errors.New("unknown transport profile")
)

// Mode is a Google Maps travel mode.
type Mode = maps.Mode

// DefaultProfile is used when the caller does not pick a transport profile.
const DefaultProfile = "driving-car"

// Profiles lists the accepted transport profiles.
var Profiles = []string{
	"driving-car", "driving-hgv",
	"foot-walking", "foot-hiking",
	"cycling-regular", "cycling-road", "cycling-mountain", "cycling-electric",
}

// ModeForProfile maps a transport profile to a Maps travel mode.
func ModeForProfile(profile string) (Mode, error) {
	switch profile {
	case "driving-car", "driving-hgv":
		return maps.TravelModeDriving, nil
	case "foot-walking", "foot-hiking":
		return maps.TravelModeWalking, nil
	case "cycling-regular", "cycling-road", "cycling-mountain", "cycling-electric":
		return maps.TravelModeBicycling, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
}

// RouteSummary is the first leg of the best route.
type RouteSummary struct {
	Duration time.Duration
	Meters   int
}

// NewClient creates a Maps client. baseURL is only set in tests.
func NewClient(apiKey, baseURL string) (*maps.Client, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

func NewRouteService(client *maps.Client) *RouteService {
	return &RouteService{client: client}
}

// Route returns duration and distance between two coordinates.
func (s *RouteService) Route(ctx context.Context, from, to types.Point, mode Mode) (RouteSummary, error) {
	r := &maps.DirectionsRequest{
		Origin:      from.LatLng(),
		Destination: to.LatLng(),
		Mode:        mode,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RouteSummary{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteSummary{}, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return RouteSummary{Duration: leg.Duration, Meters: leg.Distance.Meters}, nil
}
