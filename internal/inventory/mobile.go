package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/internal/codes"
	dbpkg "github.com/sahilmehta/cellstock-backend/pkg/db"
	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/enums"
	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
)

type codeMinter interface {
	Mint(ctx context.Context, prefix string) (string, error)
	MintBatch(ctx context.Context, prefix string, n int) ([]string, error)
}

// MobileReconciler turns one mobile line item into IMEI-tracked singleton
// records plus an anonymous remainder record.
type MobileReconciler interface {
	Reconcile(ctx context.Context, line MobileLine) ([]ReconciledRecord, error)
}

type mobileReconciler struct {
	repo   Repository
	minter codeMinter
	logg   *logger.Logger
}

// NewMobileReconciler builds the mobile stock reconciler.
func NewMobileReconciler(repo Repository, minter codeMinter, logg *logger.Logger) (MobileReconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if minter == nil {
		return nil, fmt.Errorf("code minter required")
	}
	return &mobileReconciler{repo: repo, minter: minter, logg: logg}, nil
}

func (m *mobileReconciler) Reconcile(ctx context.Context, line MobileLine) ([]ReconciledRecord, error) {
	item := line.Item
	imeis := DedupeIMEIs(item.IMEIs)
	prefix := codes.Prefix(line.DealerName, string(enums.ItemCategoryMobile), derefOrEmpty(item.Model), item.ProductName)

	var results []ReconciledRecord

	// One unit with exactly two IMEIs is a dual-SIM device: a single
	// singleton record holds the pair and is never merged later.
	if item.Qty == 1 && len(imeis) == 2 {
		code, err := m.minter.Mint(ctx, prefix)
		if err != nil {
			return nil, err
		}
		rec := m.newRecord(line, []string{code}, 1, &imeis[0], &imeis[1])
		if err := m.createWithIMEIRetry(ctx, rec); err != nil {
			return nil, err
		}
		results = append(results, ReconciledRecord{RecordID: rec.ID, Created: true, Quantity: 1, Codes: []string{code}})
		return results, nil
	}

	// One singleton record per IMEI, in list order.
	for i := range imeis {
		code, err := m.minter.Mint(ctx, prefix)
		if err != nil {
			return nil, err
		}
		rec := m.newRecord(line, []string{code}, 1, &imeis[i], nil)
		if err := m.createWithIMEIRetry(ctx, rec); err != nil {
			return nil, err
		}
		results = append(results, ReconciledRecord{RecordID: rec.ID, Created: true, Quantity: 1, Codes: []string{code}})
	}

	remainder := item.Qty - len(imeis)
	if remainder <= 0 {
		return results, nil
	}

	existing, err := m.repo.FindAnonymousMobile(ctx, line.DealerID, item.ProductName, item.Model)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find anonymous stock record")
	}

	minted, err := m.minter.MintBatch(ctx, prefix, remainder)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		merge := MobileMerge{
			AddQuantity:        remainder,
			Codes:              minted,
			Brand:              nonEmpty(line.Brand),
			Color:              item.Color,
			RAM:                item.RAM,
			Storage:            item.Storage,
			SIMSlot:            item.SIMSlot,
			Processor:          item.Processor,
			Display:            item.Display,
			Camera:             item.Camera,
			Battery:            item.Battery,
			OS:                 item.OS,
			Network:            item.Network,
			PurchasePriceCents: positive(item.PurchasePriceCents),
			SellingPriceCents:  positive(item.SellingPriceCents),
		}
		if err := m.repo.MergeAnonymousMobile(ctx, existing.ID, merge); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge anonymous stock record")
		}
		results = append(results, ReconciledRecord{RecordID: existing.ID, Created: false, Quantity: remainder, Codes: minted})
		return results, nil
	}

	rec := m.newRecord(line, minted, remainder, nil, nil)
	if err := m.repo.CreateMobile(ctx, rec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create anonymous stock record")
	}
	results = append(results, ReconciledRecord{RecordID: rec.ID, Created: true, Quantity: remainder, Codes: minted})
	return results, nil
}

func (m *mobileReconciler) newRecord(line MobileLine, productIDs []string, qty int, imei1, imei2 *string) *models.MobileStockRecord {
	item := line.Item
	return &models.MobileStockRecord{
		ID:                 uuid.New(),
		DealerID:           line.DealerID,
		ProductName:        item.ProductName,
		Model:              item.Model,
		Brand:              nonEmpty(line.Brand),
		Color:              item.Color,
		RAM:                item.RAM,
		Storage:            item.Storage,
		SIMSlot:            item.SIMSlot,
		Processor:          item.Processor,
		Display:            item.Display,
		Camera:             item.Camera,
		Battery:            item.Battery,
		OS:                 item.OS,
		Network:            item.Network,
		PurchasePriceCents: item.PurchasePriceCents,
		SellingPriceCents:  item.SellingPriceCents,
		TotalQuantity:      qty,
		ProductIDs:         productIDs,
		IMEI1:              imei1,
		IMEI2:              imei2,
	}
}

// createWithIMEIRetry inserts the record and, on an IMEI uniqueness conflict,
// retries the same record stripped of its IMEIs instead of failing the
// whole receipt. The conflict is logged, never surfaced.
func (m *mobileReconciler) createWithIMEIRetry(ctx context.Context, rec *models.MobileStockRecord) error {
	err := m.repo.CreateMobile(ctx, rec)
	if err == nil {
		return nil
	}
	if !dbpkg.IsUniqueViolation(err, "") || (rec.IMEI1 == nil && rec.IMEI2 == nil) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock record")
	}

	if m.logg != nil {
		fields := map[string]any{"record_id": rec.ID.String(), "error": err.Error()}
		if rec.IMEI1 != nil {
			fields["imei1"] = *rec.IMEI1
		}
		if rec.IMEI2 != nil {
			fields["imei2"] = *rec.IMEI2
		}
		m.logg.Warn(m.logg.WithFields(ctx, fields), "imei conflict, retrying record without imeis")
	}

	rec.IMEI1 = nil
	rec.IMEI2 = nil
	rec.ID = uuid.New()
	if err := m.repo.CreateMobile(ctx, rec); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock record without imeis")
	}
	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func positive(v int) *int {
	if v > 0 {
		return &v
	}
	return nil
}
