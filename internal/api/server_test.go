package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/council/internal/archive"
	"github.com/pbaille/council/internal/assign"
	"github.com/pbaille/council/internal/catalog"
	"github.com/pbaille/council/internal/domain"
	"github.com/pbaille/council/internal/store"
)

// Prometheus instruments register globally; one shared set keeps repeated
// server construction from panicking on duplicate registration.
var testMetrics = NewMetrics("council_test")

type seededRand struct{ n int }

func (r *seededRand) Intn(n int) int {
	r.n++
	return r.n % n
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.New(t.TempDir(), store.WithClock(func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cat := catalog.Default()
	srv := New(cat, st, assign.New(cat, &seededRand{}), archive.New(st, t.TempDir()), testMetrics, ":0")
	return srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestTopicEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/topic", map[string]string{
		"question": "How should we architect our Postgres caching layer?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Topic    string   `json:"topic"`
		Personas []string `json:"personas"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "architecture", body.Topic)
	assert.Len(t, body.Personas, 3)
}

func TestTopicRequiresQuestion(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/topic", map[string]string{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignUnknownPersona(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/assign", map[string]any{
		"question": "anything",
		"personas": []string{"The Nonexistent"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Contains(t, body["error"], "unknown persona")
}

func TestAssignEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/assign", map[string]any{
		"question": "How should we architect our Postgres caching layer?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Assignment map[string]struct {
			Persona string `json:"persona"`
		} `json:"assignment"`
		Topic string `json:"topic"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "architecture", body.Topic)
	assert.Equal(t, "The Contrarian", body.Assignment["seat_1"].Persona)
}

func TestSimilarityEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/similarity", map[string]any{
		"responses": map[string]any{
			"codex":  "ship fast mvp",
			"seat_2": "ship fast mvp",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Pairs []struct {
			Seats   [2]string `json:"agents"`
			Jaccard float64   `json:"jaccard"`
		} `json:"pairs"`
		AverageSimilarity float64 `json:"average_similarity"`
		HighConsensus     bool    `json:"high_consensus"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Pairs, 1)
	assert.Equal(t, [2]string{"seat_1", "seat_2"}, body.Pairs[0].Seats)
	assert.Equal(t, 1.0, body.AverageSimilarity)
	assert.True(t, body.HighConsensus)
}

func TestSimilarityRequiresTwoResponses(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/similarity", map[string]any{
		"responses": map[string]any{"seat_1": "alone"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]any{
		"topic":    "pivot",
		"question": "Should we pivot?",
		"personas": map[string]string{"seat_1": "The Contrarian"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Session
	decode(t, rec, &created)
	require.Equal(t, "2026-03-14-09-26-pivot", created.ID)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+created.ID+"/rounds", map[string]any{
		"seat_1": "pivot now",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var roundResp map[string]int
	decode(t, rec, &roundResp)
	assert.Equal(t, 1, roundResp["round"])

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+created.ID+"/rating", map[string]int{"rating": 5})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+created.ID+"/outcome", map[string]string{
		"status": "followed",
		"note":   "pivoted",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loaded domain.Session
	decode(t, rec, &loaded)
	assert.Len(t, loaded.Rounds, 1)
	require.NotNil(t, loaded.Rating)
	assert.Equal(t, 5, *loaded.Rating)
	require.NotNil(t, loaded.Outcome)
	assert.Equal(t, "followed", loaded.Outcome.Status)

	rec = doJSON(t, h, http.MethodGet, "/v1/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Sessions []domain.Summary `json:"sessions"`
	}
	decode(t, rec, &listing)
	assert.Len(t, listing.Sessions, 1)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+created.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var archived map[string]string
	decode(t, rec, &archived)
	assert.NotEmpty(t, archived["path"])
}

func TestSessionCreateRequiresQuestion(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/sessions", map[string]string{"topic": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionNotFound(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/sessions/2026-01-01-00-00-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/2026-01-01-00-00-missing/rating", map[string]int{"rating": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidRating(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]string{"question": "q"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Session
	decode(t, rec, &created)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+created.ID+"/rating", map[string]int{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistorianEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]string{
		"topic":    "postgres cache layer",
		"question": "How should we cache reads?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/historian", map[string]string{
		"question": "postgres cache layer sizing",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Related       []domain.RelevanceResult `json:"related"`
		QueryKeywords []string                 `json:"query_keywords"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Related, 1)
	assert.Contains(t, body.Related[0].MatchingKeywords, "postgres")
	assert.NotEmpty(t, body.QueryKeywords)
}

func TestParseEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/v1/parse", map[string]string{
		"command": `/council --fun --seats 4 Should we pivot?`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Question string `json:"question"`
		Fun      bool   `json:"fun"`
		Seats    int    `json:"seats"`
		Mode     string `json:"mode"`
	}
	decode(t, rec, &body)
	assert.True(t, body.Fun)
	assert.Equal(t, 4, body.Seats)
	assert.Equal(t, "parallel", body.Mode)
	assert.Equal(t, "Should we pivot?", body.Question)
}
