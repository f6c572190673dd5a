package tools

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"wayfarer/internal/ai"
)

const defaultSearchResults = 5

// SearchConfig holds Google Programmable Search credentials.
type SearchConfig struct {
	APIKey   string
	EngineID string
	// Endpoint overrides the API base URL.
	Endpoint string
	Results  int64
}

// WebSearch runs Google Custom Search queries and flattens the hits to text.
type WebSearch struct {
	svc *customsearch.Service
	cx  string
	num int64
}

// NewWebSearch returns an unconfigured searcher when the key or engine id is missing.
func NewWebSearch(ctx context.Context, cfg SearchConfig) (*WebSearch, error) {
	num := cfg.Results
	if num <= 0 || num > 10 {
		num = defaultSearchResults
	}
	w := &WebSearch{cx: cfg.EngineID, num: num}
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return w, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	w.svc = svc
	return w, nil
}

func (w *WebSearch) configured() bool {
	return w != nil && w.svc != nil
}

// Run executes query and renders each hit as title, link and snippet.
// An empty string means the search succeeded without hits.
func (w *WebSearch) Run(ctx context.Context, query string) (string, error) {
	res, err := w.svc.Cse.List().Q(query).Cx(w.cx).Num(w.num).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	hits := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		hits = append(hits, fmt.Sprintf("%s\n%s\n%s", item.Title, item.Link, strings.TrimSpace(item.Snippet)))
	}
	return strings.Join(hits, "\n\n"), nil
}

// ActivitiesSearch finds things to do at a destination.
type ActivitiesSearch struct {
	web *WebSearch
}

func NewActivitiesSearch(web *WebSearch) *ActivitiesSearch {
	return &ActivitiesSearch{web: web}
}

type activitiesArgs struct {
	Destination string `json:"destination" validate:"required"`
	Interests   string `json:"interests" validate:"required"`
}

func (a *ActivitiesSearch) Kind() Kind { return KindActivities }

func (a *ActivitiesSearch) Schema() ai.ToolSchema {
	return ai.ToolSchema{
		Name:        NameActivities,
		Description: "Searches Google for activities, tours, and points of interest for a user. Use this to find things to do at a travel destination based on the user's interests.",
		Params: []ai.Param{
			{Name: "destination", Type: ai.TypeString, Required: true, Description: "The city or country to search for activities (e.g., 'Marrakech', 'Morocco')."},
			{Name: "interests", Type: ai.TypeString, Required: true, Description: "User's interests for activities (e.g., 'history, food', 'hiking, museums', 'beach, nightlife')."},
		},
	}
}

func (a *ActivitiesSearch) Execute(ctx context.Context, args map[string]any) Outcome {
	if !a.web.configured() {
		return failure(ErrNotConfigured, "Google Search is not configured.")
	}
	var in activitiesArgs
	if err := decodeArgs(args, &in); err != nil {
		return failure(err, fmt.Sprintf("Input Error: %v", err))
	}

	query := ActivitiesQuery(in.Destination, in.Interests)
	results, err := a.web.Run(ctx, query)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrUpstream, err), fmt.Sprintf("Error during Google search: %v", err))
	}
	if results == "" {
		return failure(ErrNoResults, fmt.Sprintf("No activities found for '%s'. Try a broader search.", query))
	}
	return success(fmt.Sprintf("Activity search results for '%s':\n\n%s", query, results))
}

// ActivitiesQuery builds the search phrase for a destination and interests.
func ActivitiesQuery(destination, interests string) string {
	return fmt.Sprintf("top activities and attractions in %s for %s", destination, interests)
}

// EntertainmentSearch recommends series or movies by genre.
type EntertainmentSearch struct {
	web *WebSearch
}

func NewEntertainmentSearch(web *WebSearch) *EntertainmentSearch {
	return &EntertainmentSearch{web: web}
}

type entertainmentArgs struct {
	Genre      string `json:"genre" validate:"required"`
	SearchType string `json:"search_type" validate:"required"`
	Keywords   string `json:"keywords"`
}

func (e *EntertainmentSearch) Kind() Kind { return KindEntertainment }

func (e *EntertainmentSearch) Schema() ai.ToolSchema {
	return ai.ToolSchema{
		Name:        NameEntertainment,
		Description: "Searches Google for series or movie recommendations based on genre and keywords.",
		Params: []ai.Param{
			{Name: "genre", Type: ai.TypeString, Required: true, Description: "The genre of the series or movie (e.g., 'sci-fi', 'comedy', 'thriller')."},
			{Name: "search_type", Type: ai.TypeString, Required: true, Enum: []string{"series", "movies"}, Description: "The type of entertainment to search for. Must be 'series' or 'movies'."},
			{Name: "keywords", Type: ai.TypeString, Description: "Optional keywords to refine the search (e.g., 'space exploration', '90s')."},
		},
	}
}

func (e *EntertainmentSearch) Execute(ctx context.Context, args map[string]any) Outcome {
	if !e.web.configured() {
		return failure(ErrNotConfigured, "Google Search is not configured.")
	}
	var in entertainmentArgs
	if err := decodeArgs(args, &in); err != nil {
		return failure(err, fmt.Sprintf("Input Error: %v", err))
	}
	switch strings.ToLower(in.SearchType) {
	case "series", "movies":
	default:
		return failure(ErrInvalidArgs, "Error: search_type must be 'series' or 'movies'.")
	}

	query := EntertainmentQuery(in.Genre, in.SearchType, in.Keywords)
	results, err := e.web.Run(ctx, query)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrUpstream, err), fmt.Sprintf("Error during Google search: %v", err))
	}
	if results == "" {
		return failure(ErrNoResults, fmt.Sprintf("No recommendations found for '%s'.", query))
	}
	return success(fmt.Sprintf("Entertainment recommendations for '%s':\n\n%s", query, results))
}

// EntertainmentQuery builds "best <genre> <type> [about <keywords>]".
func EntertainmentQuery(genre, searchType, keywords string) string {
	parts := []string{"best", genre, searchType}
	if keywords != "" {
		parts = append(parts, "about "+keywords)
	}
	return strings.Join(parts, " ")
}
