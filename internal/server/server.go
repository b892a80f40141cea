package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Paintersrp/scribe/internal/auth"
	"github.com/Paintersrp/scribe/internal/content"
)

// Options configures the HTTP server.
type Options struct {
	Addr    string
	Service *content.Service

	// Verifier is optional. When set, mutating endpoints require a bearer
	// token with an editor or admin role.
	Verifier *auth.Verifier
}

// Server exposes the content service over HTTP.
type Server struct {
	svc      *content.Service
	verifier *auth.Verifier
	httpSrv  *http.Server
}

func New(opts Options) *Server {
	s := &Server{
		svc:      opts.Service,
		verifier: opts.Verifier,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", s.handleProducts)
	mux.HandleFunc("GET /api/tree/{product}", s.handleTree)
	mux.HandleFunc("GET /api/content/{product}/{path...}", s.handleContent)
	mux.HandleFunc("POST /api/content", s.requireEditor(s.handleCreate))
	mux.HandleFunc("PUT /api/content", s.requireEditor(s.handleSave))
	mux.HandleFunc("DELETE /api/content", s.requireEditor(s.handleDelete))
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/index/rebuild", s.requireEditor(s.handleRebuild))

	s.httpSrv = &http.Server{
		Addr:         opts.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	log.Printf("listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type errorBody struct {
	Error string `json:"error"`
}

// mutateRequest is the JSON body for create, save, and delete calls.
type mutateRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.svc.ListProducts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.GetTree(r.PathValue("product"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	product := r.PathValue("product")
	urlPath := r.PathValue("path")

	resp, err := s.svc.GetContentByPath(product, urlPath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMutate(w, r)
	if !ok {
		return
	}
	resp, err := s.svc.CreateContent(req.Path, []byte(req.Content))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMutate(w, r)
	if !ok {
		return
	}
	resp, err := s.svc.SaveContent(req.Path, []byte(req.Content))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMutate(w, r)
	if !ok {
		return
	}
	resp, err := s.svc.DeleteContent(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	resp, err := s.svc.Search(q.Get("q"), q.Get("product"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.RebuildIndex()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireEditor gates a handler behind bearer-token auth when a verifier is
// configured. Without one the service runs open, for local use.
func (s *Server) requireEditor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.verifier == nil {
			next(w, r)
			return
		}

		claims, err := s.verifier.Verify(r.Header.Get("Authorization"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
			return
		}
		if !claims.CanEdit() {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "editor role required"})
			return
		}
		next(w, r)
	}
}

func decodeMutate(w http.ResponseWriter, r *http.Request) (mutateRequest, bool) {
	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return req, false
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "path is required"})
		return req, false
	}
	return req, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, content.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, content.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, content.ErrValidation):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
