package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
)

// CodeLookupResult resolves one unit code to the stock record holding it.
type CodeLookupResult struct {
	Kind      string                  `json:"kind"`
	Mobile    *MobileStockResponse    `json:"mobile,omitempty"`
	Accessory *AccessoryStockResponse `json:"accessory,omitempty"`
}

// StockService is the read surface over stock records.
type StockService interface {
	ListMobiles(ctx context.Context, dealerID uuid.UUID, limit int) ([]MobileStockResponse, error)
	ListAccessories(ctx context.Context, dealerID uuid.UUID, limit int) ([]AccessoryStockResponse, error)
	// LookupCode finds the record carrying a minted unit code, searching
	// mobile stock first.
	LookupCode(ctx context.Context, code string) (*CodeLookupResult, error)
}

type stockService struct {
	repo Repository
}

// NewStockService builds the stock read service.
func NewStockService(repo Repository) (StockService, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &stockService{repo: repo}, nil
}

func (s *stockService) ListMobiles(ctx context.Context, dealerID uuid.UUID, limit int) ([]MobileStockResponse, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	rows, err := s.repo.ListMobilesByDealer(ctx, dealerID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mobile stock")
	}
	out := make([]MobileStockResponse, 0, len(rows))
	for _, rec := range rows {
		out = append(out, ToMobileStockResponse(rec))
	}
	return out, nil
}

func (s *stockService) ListAccessories(ctx context.Context, dealerID uuid.UUID, limit int) ([]AccessoryStockResponse, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	rows, err := s.repo.ListAccessoriesByDealer(ctx, dealerID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accessory stock")
	}
	out := make([]AccessoryStockResponse, 0, len(rows))
	for _, rec := range rows {
		out = append(out, ToAccessoryStockResponse(rec))
	}
	return out, nil
}

func (s *stockService) LookupCode(ctx context.Context, code string) (*CodeLookupResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code required")
	}

	mobile, err := s.repo.FindMobileByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup mobile code")
	}
	if mobile != nil {
		resp := ToMobileStockResponse(*mobile)
		return &CodeLookupResult{Kind: "mobile", Mobile: &resp}, nil
	}

	accessory, err := s.repo.FindAccessoryByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup accessory code")
	}
	if accessory != nil {
		resp := ToAccessoryStockResponse(*accessory)
		return &CodeLookupResult{Kind: "accessory", Accessory: &resp}, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "code not found")
}
