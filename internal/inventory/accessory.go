package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/internal/codes"
	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/enums"
	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
)

// AccessoryReconciler merges one accessory line item into the single
// per-dealer record keyed by the stable base code prefix.
type AccessoryReconciler interface {
	Reconcile(ctx context.Context, line AccessoryLine) (ReconciledRecord, error)
}

type accessoryReconciler struct {
	repo   Repository
	minter codeMinter
	logg   *logger.Logger
}

// NewAccessoryReconciler builds the accessory stock reconciler.
func NewAccessoryReconciler(repo Repository, minter codeMinter, logg *logger.Logger) (AccessoryReconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if minter == nil {
		return nil, fmt.Errorf("code minter required")
	}
	return &accessoryReconciler{repo: repo, minter: minter, logg: logg}, nil
}

func (a *accessoryReconciler) Reconcile(ctx context.Context, line AccessoryLine) (ReconciledRecord, error) {
	item := line.Item
	// The base code is derived from the product name alone; it is both the
	// record key and the counter key for every unit code under it.
	prefix := codes.Prefix(line.DealerName, string(enums.ItemCategoryAccessory), "", item.ProductName)

	existing, err := a.repo.FindAccessoryByBaseCode(ctx, line.DealerID, prefix)
	if err != nil {
		return ReconciledRecord{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find accessory record")
	}

	minted, err := a.minter.MintBatch(ctx, prefix, item.Qty)
	if err != nil {
		return ReconciledRecord{}, err
	}

	if existing != nil {
		merge := AccessoryMerge{
			AddQuantity:        item.Qty,
			Codes:              minted,
			ProductName:        item.ProductName,
			Brand:              nonEmpty(line.Brand),
			CategoryLabel:      string(enums.ItemCategoryAccessory),
			PurchasePriceCents: positive(item.PurchasePriceCents),
			SellingPriceCents:  positive(item.SellingPriceCents),
		}
		if err := a.repo.MergeAccessory(ctx, existing.ID, merge); err != nil {
			return ReconciledRecord{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge accessory record")
		}
		return ReconciledRecord{RecordID: existing.ID, Created: false, Quantity: item.Qty, Codes: minted}, nil
	}

	rec := &models.AccessoryStockRecord{
		ID:                 uuid.New(),
		DealerID:           line.DealerID,
		BaseCode:           prefix,
		ProductName:        item.ProductName,
		Brand:              nonEmpty(line.Brand),
		CategoryLabel:      string(enums.ItemCategoryAccessory),
		Quantity:           item.Qty,
		ProductIDs:         minted,
		PurchasePriceCents: item.PurchasePriceCents,
		SellingPriceCents:  item.SellingPriceCents,
	}
	if err := a.repo.CreateAccessory(ctx, rec); err != nil {
		return ReconciledRecord{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create accessory record")
	}
	return ReconciledRecord{RecordID: rec.ID, Created: true, Quantity: item.Qty, Codes: minted}, nil
}
