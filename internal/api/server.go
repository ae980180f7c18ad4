// Package api exposes the council operations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pbaille/council/internal/archive"
	"github.com/pbaille/council/internal/assign"
	"github.com/pbaille/council/internal/catalog"
	"github.com/pbaille/council/internal/classifier"
	"github.com/pbaille/council/internal/command"
	"github.com/pbaille/council/internal/consensus"
	"github.com/pbaille/council/internal/domain"
	"github.com/pbaille/council/internal/historian"
	"github.com/pbaille/council/internal/store"
)

// Server handles HTTP requests for the council API.
type Server struct {
	catalog  *catalog.Catalog
	store    *store.Store
	assignor *assign.Assignor
	archiver *archive.Archiver
	metrics  *Metrics
	addr     string
}

// New creates an API server. Metrics may be nil, in which case a fresh
// registry-backed set is created.
func New(cat *catalog.Catalog, st *store.Store, assignor *assign.Assignor, archiver *archive.Archiver, metrics *Metrics, addr string) *Server {
	if metrics == nil {
		metrics = NewMetrics("council")
	}
	return &Server{
		catalog:  cat,
		store:    st,
		assignor: assignor,
		archiver: archiver,
		metrics:  metrics,
		addr:     addr,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	log.Printf("listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.Router())
}

// Router builds the route table. Exposed separately so tests can drive it
// through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.health)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		MetricsHandler().ServeHTTP(w, req)
	})

	r.Post("/v1/topic", s.classifyTopic)
	r.Post("/v1/assign", s.assignSeats)
	r.Post("/v1/parse", s.parseCommand)
	r.Post("/v1/similarity", s.similarity)
	r.Post("/v1/historian", s.historian)

	r.Post("/v1/sessions", s.createSession)
	r.Get("/v1/sessions", s.listSessions)
	r.Get("/v1/sessions/{id}", s.getSession)
	r.Post("/v1/sessions/{id}/rounds", s.appendRound)
	r.Post("/v1/sessions/{id}/rating", s.setRating)
	r.Post("/v1/sessions/{id}/outcome", s.setOutcome)
	r.Post("/v1/sessions/{id}/archive", s.archiveSession)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type questionRequest struct {
	Question string `json:"question"`
}

func (s *Server) classifyTopic(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "topic", http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.fail(w, "topic", http.StatusBadRequest, "question is required")
		return
	}
	s.ok(w, "topic", http.StatusOK, classifier.Classify(s.catalog, req.Question))
}

type assignRequest struct {
	Question string   `json:"question"`
	Topic    string   `json:"topic,omitempty"`
	Personas []string `json:"personas,omitempty"`
	Fun      bool     `json:"fun,omitempty"`
	Seats    int      `json:"seats,omitempty"`
}

func (s *Server) assignSeats(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "assign", http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.assignor.Assign(assign.Request{
		Question: req.Question,
		Topic:    req.Topic,
		Personas: req.Personas,
		Fun:      req.Fun,
		Seats:    req.Seats,
	})
	if err != nil {
		var unknown *catalog.UnknownPersonaError
		if errors.As(err, &unknown) {
			s.fail(w, "assign", http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, "assign", http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(w, "assign", http.StatusOK, result)
}

type parseRequest struct {
	Command string `json:"command"`
}

func (s *Server) parseCommand(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "parse", http.StatusBadRequest, "invalid request body")
		return
	}
	s.ok(w, "parse", http.StatusOK, command.Parse(s.catalog, req.Command))
}

type similarityRequest struct {
	Responses map[string]any `json:"responses"`
}

func (s *Server) similarity(w http.ResponseWriter, r *http.Request) {
	var req similarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "similarity", http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Responses) < 2 {
		s.fail(w, "similarity", http.StatusBadRequest, "at least two responses are required")
		return
	}
	s.ok(w, "similarity", http.StatusOK, consensus.Score(seatTexts(req.Responses)))
}

func (s *Server) historian(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "historian", http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := historian.Retrieve(s.store, req.Question)
	if err != nil {
		s.fail(w, "historian", http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.HistorianHits.Observe(float64(len(result.Related)))
	s.ok(w, "historian", http.StatusOK, result)
}

type createSessionRequest struct {
	Topic        string            `json:"topic,omitempty"`
	Question     string            `json:"question"`
	Personas     map[string]string `json:"personas,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	PriorContext string            `json:"prior_context,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "session_create", http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.store.Create(req.Topic, req.Question, req.Personas, req.Labels, req.PriorContext)
	if err != nil {
		if errors.Is(err, store.ErrMissingQuestion) {
			s.fail(w, "session_create", http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, "session_create", http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.SessionsCreated.Inc()
	s.ok(w, "session_create", http.StatusCreated, session)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List()
	if err != nil {
		s.fail(w, "session_list", http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(w, "session_list", http.StatusOK, map[string]any{"sessions": summaries})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.Load(chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, "session_get", err)
		return
	}
	s.ok(w, "session_get", http.StatusOK, session)
}

func (s *Server) appendRound(w http.ResponseWriter, r *http.Request) {
	var round domain.Round
	if err := json.NewDecoder(r.Body).Decode(&round); err != nil {
		s.fail(w, "round_append", http.StatusBadRequest, "invalid request body")
		return
	}
	number, err := s.store.AppendRound(chi.URLParam(r, "id"), round)
	if err != nil {
		s.storeError(w, "round_append", err)
		return
	}
	s.metrics.RoundsAppended.Inc()
	s.ok(w, "round_append", http.StatusOK, map[string]int{"round": number})
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (s *Server) setRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "rating", http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SetRating(chi.URLParam(r, "id"), req.Rating); err != nil {
		if errors.Is(err, domain.ErrInvalidRating) {
			s.fail(w, "rating", http.StatusBadRequest, err.Error())
			return
		}
		s.storeError(w, "rating", err)
		return
	}
	s.ok(w, "rating", http.StatusOK, map[string]int{"rating": req.Rating})
}

type outcomeRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func (s *Server) setOutcome(w http.ResponseWriter, r *http.Request) {
	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "outcome", http.StatusBadRequest, "invalid request body")
		return
	}
	outcome, err := s.store.SetOutcome(chi.URLParam(r, "id"), req.Status, req.Note)
	if err != nil {
		if errors.Is(err, store.ErrMissingStatus) {
			s.fail(w, "outcome", http.StatusBadRequest, err.Error())
			return
		}
		s.storeError(w, "outcome", err)
		return
	}
	s.ok(w, "outcome", http.StatusOK, outcome)
}

func (s *Server) archiveSession(w http.ResponseWriter, r *http.Request) {
	path, err := s.archiver.Export(chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, "archive", err)
		return
	}
	s.ok(w, "archive", http.StatusOK, map[string]string{"path": path})
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.fail(w, op, http.StatusNotFound, err.Error())
		return
	}
	s.fail(w, op, http.StatusInternalServerError, err.Error())
}

func (s *Server) ok(w http.ResponseWriter, op string, status int, data any) {
	s.metrics.Requests.WithLabelValues(op, fmt.Sprint(status)).Inc()
	writeJSON(w, status, data)
}

func (s *Server) fail(w http.ResponseWriter, op string, status int, message string) {
	s.metrics.Requests.WithLabelValues(op, fmt.Sprint(status)).Inc()
	writeError(w, status, message)
}

// seatTexts converts a raw response map to seat→text, remapping legacy keys
// and collapsing structured values. Non-text values are dropped.
func seatTexts(responses map[string]any) map[string]string {
	out := make(map[string]string, len(responses))
	for seat, value := range store.NormalizeSeatMap(responses) {
		if text, ok := value.(string); ok {
			out[seat] = text
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
