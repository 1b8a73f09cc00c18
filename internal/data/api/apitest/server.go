// Package apitest runs an in-memory product backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/colonyops/catalog/internal/core/product"
)

// Failure makes the next matching request answer with Status and Message.
type Failure struct {
	Method  string // empty matches any method
	Status  int
	Message string
}

// Server is a fake of the product REST backend rooted at URL + "/bp".
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	products []product.Product
	failures []Failure
	requests []string
}

// NewServer starts a backend seeded with products and closes it when the
// test ends.
func NewServer(t *testing.T, products ...product.Product) *Server {
	t.Helper()

	s := &Server{products: slices.Clone(products)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string {
	return s.URL + "/bp"
}

// Products returns a copy of the stored products.
func (s *Server) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Requests returns "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many requests matched method and path prefix.
func (s *Server) Count(method, pathPrefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasPrefix(r, method+" "+pathPrefix) {
			n++
		}
	}
	return n
}

// Fail queues a failure for the next request matching f.Method.
func (s *Server) Fail(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/bp")
	s.requests = append(s.requests, r.Method+" "+path)

	for i, f := range s.failures {
		if f.Method == "" || f.Method == r.Method {
			s.failures = slices.Delete(s.failures, i, i+1)
			writeJSON(w, f.Status, map[string]string{"message": f.Message})
			return
		}
	}

	rest, ok := strings.CutPrefix(path, "/products")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return
	}
	rest = strings.TrimPrefix(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": s.products})
	case rest == "" && r.Method == http.MethodPost:
		var p product.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
			return
		}
		if s.indexLocked(p.ID) >= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Duplicate identifier found in the database"})
			return
		}
		s.products = append(s.products, p)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Product added successfully", "data": p})
	case strings.HasPrefix(rest, "verification/") && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.indexLocked(strings.TrimPrefix(rest, "verification/")) >= 0)
	case r.Method == http.MethodPut:
		idx := s.indexLocked(rest)
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product with that identifier not found"})
			return
		}
		var p product.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
			return
		}
		p.ID = rest
		s.products[idx] = p
		writeJSON(w, http.StatusOK, map[string]any{"message": "Product updated successfully", "data": p})
	case r.Method == http.MethodDelete:
		idx := s.indexLocked(rest)
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product with that identifier not found"})
			return
		}
		s.products = slices.Delete(s.products, idx, idx+1)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed successfully"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	}
}

func (s *Server) indexLocked(id string) int {
	return slices.IndexFunc(s.products, func(p product.Product) bool { return p.ID == id })
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
