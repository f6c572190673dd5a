package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"wayfarer/internal/types"
)

// Place represents a resolved location.
type Place struct {
	Name     string
	Address  string
	Location types.Point
}

// PlacesService resolves place names to coordinates.
type PlacesService struct {
	client *maps.Client
}

func NewPlacesService(client *maps.Client) *PlacesService {
	return &PlacesService{client: client}
}

// Resolve geocodes name. Names of venues (hotels, museums) often miss in the
// Geocoding API, so a text search is tried before giving up.
func (s *PlacesService) Resolve(ctx context.Context, name string) (Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Place{}, ErrNotFound
	}

	place, geoErr := s.geocode(ctx, name)
	if geoErr == nil {
		return place, nil
	}

	place, err := s.textSearch(ctx, name)
	if err == nil {
		return place, nil
	}
	return Place{}, fmt.Errorf("resolve %q: %w", name, geoErr)
}

func (s *PlacesService) geocode(ctx context.Context, name string) (Place, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: name})
	if err != nil {
		return Place{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return Place{}, ErrNotFound
	}
	r := results[0]
	return Place{
		Name:     name,
		Address:  r.FormattedAddress,
		Location: types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
	}, nil
}

func (s *PlacesService) textSearch(ctx context.Context, name string) (Place, error) {
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: name})
	if err != nil {
		return Place{}, fmt.Errorf("places api error: %w", err)
	}
	if len(resp.Results) == 0 {
		return Place{}, ErrNotFound
	}
	r := resp.Results[0]
	return Place{
		Name:     r.Name,
		Address:  r.FormattedAddress,
		Location: types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
	}, nil
}
