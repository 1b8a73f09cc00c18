package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/product"
)

// ProductAPI is the REST backend as seen by the service.
type ProductAPI interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, p product.Product) (product.Product, error)
	IsIDTaken(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, p product.Product) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

// QueryStatus is the lifecycle of the cached product list.
type QueryStatus int

const (
	StatusIdle QueryStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s QueryStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// QueryState is a snapshot of the cached product list. Products keeps the
// last good result while a refetch is running or after it failed.
type QueryState struct {
	Status    QueryStatus
	Products  []product.Product
	Err       error
	Fetching  bool
	UpdatedAt time.Time
}

// Service owns the cached product collection. Concurrent fetches share one
// request and every successful mutation marks the cache stale.
type Service struct {
	api   ProductAPI
	log   zerolog.Logger
	group singleflight.Group
	now   func() time.Time

	mu    sync.Mutex
	state QueryState
	stale bool
}

// NewService creates a product service backed by api.
func NewService(api ProductAPI, log zerolog.Logger) *Service {
	return &Service{
		api: api,
		log: logging.Component(log, "catalog"),
		now: time.Now,
	}
}

// Products returns the cached collection, fetching it when the cache is
// empty or stale.
func (s *Service) Products(ctx context.Context) ([]product.Product, error) {
	s.mu.Lock()
	if s.state.Status == StatusSuccess && !s.stale {
		items := slices.Clone(s.state.Products)
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	return s.fetch(ctx)
}

// Refresh refetches the collection regardless of cache state.
func (s *Service) Refresh(ctx context.Context) ([]product.Product, error) {
	return s.fetch(ctx)
}

// State returns a snapshot of the list query.
func (s *Service) State() QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Products = slices.Clone(st.Products)
	return st
}

// Invalidate marks the cache stale so the next Products call refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// Get returns the product with id from the collection.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	items, err := s.Products(ctx)
	if err != nil {
		return product.Product{}, err
	}
	for _, p := range items {
		if p.ID == id {
			return p, nil
		}
	}
	return product.Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// IsIDTaken asks the backend whether id is already used.
func (s *Service) IsIDTaken(ctx context.Context, id string) (bool, error) {
	return s.api.IsIDTaken(ctx, id)
}

// Create adds p to the backend.
func (s *Service) Create(ctx context.Context, p product.Product) (product.Product, error) {
	created, err := s.api.Create(ctx, p)
	if err != nil {
		return product.Product{}, err
	}
	s.Invalidate()
	s.log.Info().Ctx(ctx).Str("id", created.ID).Msg("product created")
	return created, nil
}

// Update replaces the product keyed by id.
func (s *Service) Update(ctx context.Context, id string, p product.Product) (string, error) {
	msg, err := s.api.Update(ctx, id, p)
	if err != nil {
		return "", err
	}
	s.Invalidate()
	s.log.Info().Ctx(ctx).Str("id", id).Msg("product updated")
	return msg, nil
}

// Delete removes the product keyed by id.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	msg, err := s.api.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	s.Invalidate()
	s.log.Info().Ctx(ctx).Str("id", id).Msg("product deleted")
	return msg, nil
}

func (s *Service) fetch(ctx context.Context) ([]product.Product, error) {
	v, err, shared := s.group.Do("products", func() (any, error) {
		s.mu.Lock()
		s.state.Fetching = true
		if s.state.Status == StatusIdle {
			s.state.Status = StatusLoading
		}
		s.mu.Unlock()

		items, err := s.api.List(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.state.Fetching = false
		if err != nil {
			s.state.Status = StatusError
			s.state.Err = err
			return nil, err
		}

		s.state.Status = StatusSuccess
		s.state.Products = items
		s.state.Err = nil
		s.state.UpdatedAt = s.now()
		s.stale = false
		return items, nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load products")
		return nil, err
	}
	if shared {
		s.log.Debug().Msg("product list request shared")
	}

	return slices.Clone(v.([]product.Product)), nil
}
