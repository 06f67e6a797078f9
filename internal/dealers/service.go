package dealers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
	"github.com/sahilmehta/cellstock-backend/pkg/redis"
)

// Service exposes dealer registration and the read-only lookups the
// reconcilers depend on.
type Service interface {
	Create(ctx context.Context, input CreateDealerInput) (*models.Dealer, error)
	// Update edits a dealer in place and drops its cached snapshot so the
	// next receive sees the new name.
	Update(ctx context.Context, id uuid.UUID, input UpdateDealerInput) (*models.Dealer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Dealer, error)
	List(ctx context.Context, limit int) ([]models.Dealer, error)
	// NameByID resolves a dealer's display name, served from cache when warm.
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
	// BrandForModel returns the catalog brand for a model string, or "" when
	// no entry exists.
	BrandForModel(ctx context.Context, model string) (string, error)
}

type service struct {
	repo     Repository
	cache    redis.Cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds a dealers service. The cache is optional; a nil cache
// degrades to repository reads.
func NewService(repo Repository, cache redis.Cache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dealers repository required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateDealerInput) (*models.Dealer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer name required")
	}
	dealer := &models.Dealer{
		ID:    uuid.New(),
		Name:  name,
		Phone: input.Phone,
		City:  input.City,
	}
	created, err := s.repo.Create(ctx, dealer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dealer")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDealerInput) (*models.Dealer, error) {
	dealer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer name required")
		}
		dealer.Name = name
	}
	if input.Phone != nil {
		dealer.Phone = input.Phone
	}
	if input.City != nil {
		dealer.City = input.City
	}

	if err := s.repo.Update(ctx, dealer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dealer")
	}

	if s.cache != nil {
		if delErr := s.cache.Del(ctx, s.cache.DealerKey(id.String())); delErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", delErr.Error()), "dealer cache invalidation failed")
		}
	}
	return dealer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Dealer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	dealer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealer")
	}
	return dealer, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.Dealer, error) {
	rows, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dealers")
	}
	return rows, nil
}

func (s *service) NameByID(ctx context.Context, id uuid.UUID) (string, error) {
	if id == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.cache.DealerKey(id.String()))
		if err == nil {
			var snapshot cachedDealer
			if jsonErr := json.Unmarshal([]byte(raw), &snapshot); jsonErr == nil && snapshot.Name != "" {
				return snapshot.Name, nil
			}
		} else if !redis.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "dealer cache read failed")
		}
	}

	dealer, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		payload, jsonErr := json.Marshal(cachedDealer{ID: dealer.ID, Name: dealer.Name})
		if jsonErr == nil {
			if setErr := s.cache.Set(ctx, s.cache.DealerKey(id.String()), string(payload), s.cacheTTL); setErr != nil && s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", setErr.Error()), "dealer cache write failed")
			}
		}
	}
	return dealer.Name, nil
}

func (s *service) BrandForModel(ctx context.Context, model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", nil
	}

	if s.cache != nil {
		brand, err := s.cache.Get(ctx, s.cache.CatalogKey(model))
		if err == nil {
			return brand, nil
		}
		if !redis.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache read failed")
		}
	}

	entry, err := s.repo.FindBrandByModel(ctx, model)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup brand catalog")
	}

	if s.cache != nil {
		if setErr := s.cache.Set(ctx, s.cache.CatalogKey(model), entry.Brand, s.cacheTTL); setErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", setErr.Error()), "catalog cache write failed")
		}
	}
	return entry.Brand, nil
}
