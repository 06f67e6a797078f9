package codes

import (
	"context"
	"fmt"

	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
)

// Repository persists the per-key sequence counters.
type Repository interface {
	// Next atomically increments the counter for key and returns the
	// post-increment value. Concurrent callers never observe the same value.
	Next(ctx context.Context, key string) (int64, error)
}

// Service mints unique unit codes scoped to a dealer-category-model prefix.
type Service interface {
	NextSequence(ctx context.Context, key string) (int64, error)
	Mint(ctx context.Context, prefix string) (string, error)
	MintBatch(ctx context.Context, prefix string, n int) ([]string, error)
}

type service struct {
	repo Repository
}

// NewService builds a code minting service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("codes repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) NextSequence(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "counter key required")
	}
	seq, err := s.repo.Next(ctx, key)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance sequence counter")
	}
	return seq, nil
}

func (s *service) Mint(ctx context.Context, prefix string) (string, error) {
	seq, err := s.NextSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	return WithSequence(prefix, seq), nil
}

// MintBatch mints n codes under the prefix, one counter advance per code.
// Sequences consumed by a batch that later fails are never reissued.
func (s *service) MintBatch(ctx context.Context, prefix string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	minted := make([]string, 0, n)
	for i := 0; i < n; i++ {
		code, err := s.Mint(ctx, prefix)
		if err != nil {
			return nil, err
		}
		minted = append(minted, code)
	}
	return minted, nil
}
