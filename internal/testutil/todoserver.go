package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"todoctl/internal/service"
)

// CreatedID is the id the fake server assigns to every created task,
// matching the demo service.
const CreatedID = 201

// RecordedRequest is a request seen by TodoServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// TodoServer is an httptest server that mimics the /todos demo service.
type TodoServer struct {
	*httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	requests []RecordedRequest

	// FailStatus, when non-zero, is returned for every request.
	FailStatus int

	// IgnoreLimit makes the list route return every task regardless of _limit.
	IgnoreLimit bool
}

// NewTodoServer starts a fake service holding tasks. It is closed when the
// test ends.
func NewTodoServer(t testing.TB, tasks ...service.Task) *TodoServer {
	t.Helper()

	s := &TodoServer{tasks: append([]service.Task(nil), tasks...)}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/todos", s.list).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.create).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}", s.update).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id:[0-9]+}", s.remove).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Requests returns the requests received so far.
func (s *TodoServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *TodoServer) LastRequest() RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *TodoServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		fail := s.FailStatus
		s.mu.Unlock()

		if fail != 0 {
			writeJSON(w, fail, map[string]any{})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *TodoServer) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tasks := append([]service.Task{}, s.tasks...)
	ignoreLimit := s.IgnoreLimit
	s.mu.Unlock()

	if limit, err := strconv.Atoi(r.URL.Query().Get("_limit")); err == nil && !ignoreLimit && limit >= 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *TodoServer) get(w http.ResponseWriter, r *http.Request) {
	t, ok := s.find(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *TodoServer) create(w http.ResponseWriter, r *http.Request) {
	var t service.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{})
		return
	}
	t.ID = CreatedID
	writeJSON(w, http.StatusCreated, t)
}

func (s *TodoServer) update(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.find(r); !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{})
		return
	}
	var t service.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{})
		return
	}
	t.ID, _ = strconv.Atoi(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, t)
}

func (s *TodoServer) remove(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *TodoServer) find(r *http.Request) (service.Task, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return service.Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
