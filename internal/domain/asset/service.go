package asset

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/uow"
	"orangejuice/internal/shared/telemetry"
)

// Service serves the asset catalog. List is cached in process until a
// write or a price change notification invalidates it.
type Service struct {
	repo Repository
	tx   uow.Transactor
	ops  *telemetry.Operations

	mu     sync.RWMutex
	cached []*Asset
	// gen counts invalidations so a List that read before one does not
	// store its stale result.
	gen uint64
}

func NewService(repo Repository, tx uow.Transactor) *Service {
	return &Service{
		repo: repo,
		tx:   tx,
		ops:  telemetry.NewOperations("orangejuice/asset"),
	}
}

// List returns the catalog ordered by name.
func (s *Service) List(ctx context.Context) ([]*Asset, error) {
	s.mu.RLock()
	cached, gen := s.cached, s.gen
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []*Asset{}
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cached = assets
	}
	s.mu.Unlock()
	return assets, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites name, type and price. Callers authorize admins.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (updated *Asset, err error) {
	defer func() { s.ops.Record(ctx, "asset_update", err) }()

	if err := params.Validate(); err != nil {
		return nil, err
	}
	updated, err = s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.Invalidate()
	return updated, nil
}

// SetPrice changes only the current price.
func (s *Service) SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params := Params{Name: a.Name, Type: a.Type, CurrentPrice: price}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, err
	}
	s.Invalidate()
	return updated, nil
}

// SeedDefaults inserts DefaultCatalog when the catalog is empty. It
// reports how many assets were created.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		for _, params := range DefaultCatalog() {
			if _, err := s.repo.Create(ctx, params); err != nil {
				return fmt.Errorf("failed to seed %s: %w", params.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		log.Printf("Seeded %d default assets", created)
		s.Invalidate()
	}
	return created, nil
}

// Invalidate drops the cached catalog.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}
