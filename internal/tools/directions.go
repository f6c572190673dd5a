package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"wayfarer/internal/ai"
	"wayfarer/internal/maps"
	"wayfarer/internal/types"
)

const directionsTimeout = 30 * time.Second

// Router computes a route between two coordinates.
type Router interface {
	Route(ctx context.Context, from, to types.Point, mode maps.Mode) (maps.RouteSummary, error)
}

// PlaceResolver turns a place name into coordinates.
type PlaceResolver interface {
	Resolve(ctx context.Context, name string) (maps.Place, error)
}

// Directions computes travel time and distance between two places.
type Directions struct {
	router   Router
	resolver PlaceResolver
}

// NewDirections returns an unconfigured adapter when router or resolver is nil.
func NewDirections(router Router, resolver PlaceResolver) *Directions {
	return &Directions{router: router, resolver: resolver}
}

type coordinates struct {
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
}

type directionsArgs struct {
	StartName   string       `json:"start_location_name" validate:"required_without=StartCoords"`
	EndName     string       `json:"end_location_name" validate:"required_without=EndCoords"`
	StartCoords *coordinates `json:"start_coords"`
	EndCoords   *coordinates `json:"end_coords"`
	Profile     string       `json:"profile"`
}

func (d *Directions) Kind() Kind { return KindDirections }

func (d *Directions) Schema() ai.ToolSchema {
	coordParams := []ai.Param{
		{Name: "longitude", Type: ai.TypeNumber, Required: true},
		{Name: "latitude", Type: ai.TypeNumber, Required: true},
	}
	return ai.ToolSchema{
		Name:        NameDirections,
		Description: "Calculates a route between two points. Provide either location names (e.g., 'Hotel XYZ, City') or coordinates. Returns the travel duration and distance.",
		Params: []ai.Param{
			{Name: "start_location_name", Type: ai.TypeString, Description: "Name of the starting location (e.g., 'Hotel Le Djoloff, Dakar'). Provide this OR start_coords."},
			{Name: "end_location_name", Type: ai.TypeString, Description: "Name of the ending location (e.g., 'IFAN Museum of African Arts, Dakar'). Provide this OR end_coords."},
			{Name: "start_coords", Type: ai.TypeObject, Properties: coordParams, Description: "Coordinates of the starting location (longitude, latitude). Provide this OR start_location_name."},
			{Name: "end_coords", Type: ai.TypeObject, Properties: coordParams, Description: "Coordinates of the ending location (longitude, latitude). Provide this OR end_location_name."},
			{Name: "profile", Type: ai.TypeString, Enum: maps.Profiles, Description: "Mode of transport. Defaults to 'driving-car'."},
		},
	}
}

func (d *Directions) Execute(ctx context.Context, args map[string]any) Outcome {
	if d.router == nil || d.resolver == nil {
		return failure(ErrNotConfigured, "Directions API is not configured. Cannot get directions.")
	}

	var in directionsArgs
	if err := decodeArgs(args, &in); err != nil {
		return failure(err, fmt.Sprintf("Input Error: %v", err))
	}
	if in.Profile == "" {
		in.Profile = maps.DefaultProfile
	}
	mode, err := maps.ModeForProfile(in.Profile)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrInvalidArgs, err), fmt.Sprintf("Input Error: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, directionsTimeout)
	defer cancel()

	start, startDesc, out, ok := d.endpoint(ctx, in.StartName, in.StartCoords, "start")
	if !ok {
		return out
	}
	end, endDesc, out, ok := d.endpoint(ctx, in.EndName, in.EndCoords, "end")
	if !ok {
		return out
	}

	route, err := d.router.Route(ctx, start, end, mode)
	if errors.Is(err, maps.ErrNoRoute) {
		return failure(fmt.Errorf("%w: %v", ErrNoResults, err),
			fmt.Sprintf("No route found between the specified locations for profile '%s'.", in.Profile))
	}
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrUpstream, err),
			fmt.Sprintf("Directions API Error: Could not get directions. (%v)", err))
	}

	minutes := int(math.Round(route.Duration.Minutes()))
	km := float64(route.Meters) / 1000
	return success(fmt.Sprintf(
		"Directions found from '%s' to '%s' using '%s':\n- Estimated Duration: %d minutes\n- Distance: %.1f km\n- Straight-line Distance: %.1f km",
		startDesc, endDesc, in.Profile, minutes, km, maps.DistanceKm(start, end)))
}

// endpoint resolves one end of the route. Explicit coordinates win over a name.
func (d *Directions) endpoint(ctx context.Context, name string, c *coordinates, label string) (types.Point, string, Outcome, bool) {
	if c != nil {
		p := types.Point{Lat: c.Latitude, Lng: c.Longitude}
		desc := name
		if desc == "" {
			desc = fmt.Sprintf("Coords(%.4f, %.4f)", p.Lat, p.Lng)
		}
		return p, desc, Outcome{}, true
	}
	place, err := d.resolver.Resolve(ctx, name)
	if err != nil {
		return types.Point{}, "", failure(fmt.Errorf("%w: %v", ErrNoResults, err),
			fmt.Sprintf("Could not find coordinates for %s location: %s", label, name)), false
	}
	return place.Location, name, Outcome{}, true
}
