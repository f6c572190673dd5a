package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomSearch(t *testing.T, queries *[]string) *WebSearch {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		*queries = append(*queries, q)
		assert.Equal(t, "cx-1", r.URL.Query().Get("cx"))
		w.Header().Set("Content-Type", "application/json")
		switch q {
		case "top activities and attractions in Atlantis for diving":
			_, _ = w.Write([]byte(`{"items":[]}`))
		case "top activities and attractions in Errorland for anything":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
		default:
			_, _ = w.Write([]byte(`{"items":[
			 {"title":"Jardin Majorelle","link":"https://example.com/majorelle","snippet":"Botanical garden. "},
			 {"title":"Bahia Palace","link":"https://example.com/bahia","snippet":"19th century palace."}]}`))
		}
	}))
	t.Cleanup(srv.Close)

	web, err := NewWebSearch(context.Background(), SearchConfig{APIKey: "key", EngineID: "cx-1", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	return web
}

func TestActivitiesSearch_Execute(t *testing.T) {
	var queries []string
	a := NewActivitiesSearch(newCustomSearch(t, &queries))

	out := a.Execute(context.Background(), map[string]any{"destination": "Marrakech", "interests": "history, food"})
	require.False(t, out.Failed(), out.Text)
	assert.Equal(t, []string{"top activities and attractions in Marrakech for history, food"}, queries)
	assert.Equal(t,
		"Activity search results for 'top activities and attractions in Marrakech for history, food':\n\n"+
			"Jardin Majorelle\nhttps://example.com/majorelle\nBotanical garden.\n\n"+
			"Bahia Palace\nhttps://example.com/bahia\n19th century palace.",
		out.Text)
}

func TestActivitiesSearch_Failures(t *testing.T) {
	var queries []string
	web := newCustomSearch(t, &queries)
	a := NewActivitiesSearch(web)
	ctx := context.Background()

	out := a.Execute(ctx, map[string]any{"destination": "Atlantis", "interests": "diving"})
	assert.ErrorIs(t, out.Err, ErrNoResults)
	assert.Equal(t, "No activities found for 'top activities and attractions in Atlantis for diving'. Try a broader search.", out.Text)

	out = a.Execute(ctx, map[string]any{"destination": "Errorland", "interests": "anything"})
	assert.ErrorIs(t, out.Err, ErrUpstream)
	assert.Contains(t, out.Text, "Error during Google search:")

	out = a.Execute(ctx, map[string]any{"destination": "Marrakech"})
	assert.ErrorIs(t, out.Err, ErrInvalidArgs)

	unconfigured, err := NewWebSearch(ctx, SearchConfig{})
	require.NoError(t, err)
	out = NewActivitiesSearch(unconfigured).Execute(ctx, map[string]any{"destination": "Marrakech", "interests": "food"})
	assert.ErrorIs(t, out.Err, ErrNotConfigured)
	assert.Equal(t, "Google Search is not configured.", out.Text)
}

func TestEntertainmentSearch_Execute(t *testing.T) {
	var queries []string
	e := NewEntertainmentSearch(newCustomSearch(t, &queries))
	ctx := context.Background()

	out := e.Execute(ctx, map[string]any{"genre": "sci-fi", "search_type": "series", "keywords": "space exploration"})
	require.False(t, out.Failed())
	assert.Equal(t, "best sci-fi series about space exploration", queries[0])
	assert.Contains(t, out.Text, "Entertainment recommendations for 'best sci-fi series about space exploration':")

	out = e.Execute(ctx, map[string]any{"genre": "comedy", "search_type": "Movies"})
	require.False(t, out.Failed())
	assert.Equal(t, "best comedy Movies", queries[1])

	out = e.Execute(ctx, map[string]any{"genre": "comedy", "search_type": "podcasts"})
	assert.ErrorIs(t, out.Err, ErrInvalidArgs)
	assert.Equal(t, "Error: search_type must be 'series' or 'movies'.", out.Text)
	assert.Len(t, queries, 2)
}
