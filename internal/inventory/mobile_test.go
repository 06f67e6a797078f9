package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
)

type stubStockRepo struct {
	mobiles     []*models.MobileStockRecord
	accessories []*models.AccessoryStockRecord

	imeiConflicts map[string]bool
	createErr     error
	mergeCalls    int
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{imeiConflicts: map[string]bool{}}
}

func (s *stubStockRepo) CreateMobile(ctx context.Context, rec *models.MobileStockRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, imei := range []*string{rec.IMEI1, rec.IMEI2} {
		if imei != nil && s.imeiConflicts[*imei] {
			return fmt.Errorf("duplicate key value violates unique constraint \"ux_mobile_stock_imei1\"")
		}
	}
	clone := *rec
	s.mobiles = append(s.mobiles, &clone)
	return nil
}

func (s *stubStockRepo) FindAnonymousMobile(ctx context.Context, dealerID uuid.UUID, productName string, model *string) (*models.MobileStockRecord, error) {
	for _, rec := range s.mobiles {
		if rec.DealerID != dealerID || rec.ProductName != productName {
			continue
		}
		if !rec.IsAnonymous() {
			continue
		}
		if model != nil && *model != "" {
			if rec.Model == nil || *rec.Model != *model {
				continue
			}
		}
		clone := *rec
		return &clone, nil
	}
	return nil, nil
}

func (s *stubStockRepo) MergeAnonymousMobile(ctx context.Context, id uuid.UUID, merge MobileMerge) error {
	s.mergeCalls++
	for _, rec := range s.mobiles {
		if rec.ID != id {
			continue
		}
		rec.TotalQuantity += merge.AddQuantity
		rec.ProductIDs = append(rec.ProductIDs, merge.Codes...)
		if merge.Brand != nil {
			rec.Brand = merge.Brand
		}
		if merge.Color != nil {
			rec.Color = merge.Color
		}
		if merge.PurchasePriceCents != nil {
			rec.PurchasePriceCents = *merge.PurchasePriceCents
		}
		if merge.SellingPriceCents != nil {
			rec.SellingPriceCents = *merge.SellingPriceCents
		}
		return nil
	}
	return errors.New("record not found")
}

func (s *stubStockRepo) CreateAccessory(ctx context.Context, rec *models.AccessoryStockRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	clone := *rec
	s.accessories = append(s.accessories, &clone)
	return nil
}

func (s *stubStockRepo) FindAccessoryByBaseCode(ctx context.Context, dealerID uuid.UUID, baseCode string) (*models.AccessoryStockRecord, error) {
	for _, rec := range s.accessories {
		if rec.DealerID == dealerID && rec.BaseCode == baseCode {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *stubStockRepo) MergeAccessory(ctx context.Context, id uuid.UUID, merge AccessoryMerge) error {
	s.mergeCalls++
	for _, rec := range s.accessories {
		if rec.ID != id {
			continue
		}
		rec.Quantity += merge.AddQuantity
		rec.ProductIDs = append(rec.ProductIDs, merge.Codes...)
		if merge.ProductName != "" {
			rec.ProductName = merge.ProductName
		}
		if merge.Brand != nil {
			rec.Brand = merge.Brand
		}
		if merge.CategoryLabel != "" {
			rec.CategoryLabel = merge.CategoryLabel
		}
		if merge.PurchasePriceCents != nil {
			rec.PurchasePriceCents = *merge.PurchasePriceCents
		}
		if merge.SellingPriceCents != nil {
			rec.SellingPriceCents = *merge.SellingPriceCents
		}
		return nil
	}
	return errors.New("record not found")
}

func (s *stubStockRepo) ListMobilesByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.MobileStockRecord, error) {
	var rows []models.MobileStockRecord
	for _, rec := range s.mobiles {
		if rec.DealerID == dealerID {
			rows = append(rows, *rec)
		}
	}
	return rows, nil
}

func (s *stubStockRepo) ListAccessoriesByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.AccessoryStockRecord, error) {
	var rows []models.AccessoryStockRecord
	for _, rec := range s.accessories {
		if rec.DealerID == dealerID {
			rows = append(rows, *rec)
		}
	}
	return rows, nil
}

func (s *stubStockRepo) FindMobileByCode(ctx context.Context, code string) (*models.MobileStockRecord, error) {
	for _, rec := range s.mobiles {
		for _, c := range rec.ProductIDs {
			if c == code {
				clone := *rec
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (s *stubStockRepo) FindAccessoryByCode(ctx context.Context, code string) (*models.AccessoryStockRecord, error) {
	for _, rec := range s.accessories {
		for _, c := range rec.ProductIDs {
			if c == code {
				clone := *rec
				return &clone, nil
			}
		}
	}
	return nil, nil
}

type stubMinter struct {
	counters map[string]int64
	err      error
}

func newStubMinter() *stubMinter {
	return &stubMinter{counters: map[string]int64{}}
}

func (s *stubMinter) Mint(ctx context.Context, prefix string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.counters[prefix]++
	return fmt.Sprintf("%s-%04d", prefix, s.counters[prefix]), nil
}

func (s *stubMinter) MintBatch(ctx context.Context, prefix string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		code, err := s.Mint(ctx, prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func mobileLine(dealerID uuid.UUID, dealerName, brand string, item models.PurchaseLineItem) MobileLine {
	return MobileLine{DealerID: dealerID, DealerName: dealerName, Brand: brand, Item: item}
}

func TestMobileReconcileDualIMEISingleton(t *testing.T) {
	repo := newStubStockRepo()
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	results, err := rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName: "Vivo Y21",
		Model:       strPtr("Y21"),
		Qty:         1,
		IMEIs:       []string{"860000000000001", "860000000000002"},
	}))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one record, got %d", len(results))
	}
	if len(repo.mobiles) != 1 {
		t.Fatalf("expected one stored record, got %d", len(repo.mobiles))
	}

	stored := repo.mobiles[0]
	if !stored.IsIMEIPair() {
		t.Fatalf("expected dual-IMEI record, got %+v", stored)
	}
	if stored.TotalQuantity != 1 {
		t.Fatalf("dual-IMEI record must be a singleton, qty %d", stored.TotalQuantity)
	}
	if len(stored.ProductIDs) != 1 || stored.ProductIDs[0] != "ABC-MOB-Y21-0001" {
		t.Fatalf("unexpected codes %v", stored.ProductIDs)
	}
}

func TestMobileReconcilePerIMEISingletonsAndRemainder(t *testing.T) {
	repo := newStubStockRepo()
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	results, err := rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName: "Vivo Y21",
		Model:       strPtr("Y21"),
		Qty:         5,
		IMEIs:       []string{"860000000000001", "860000000000002"},
	}))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 2 singletons + 1 remainder, got %d results", len(results))
	}
	if len(repo.mobiles) != 3 {
		t.Fatalf("expected 3 stored records, got %d", len(repo.mobiles))
	}

	for i := 0; i < 2; i++ {
		stored := repo.mobiles[i]
		if stored.TotalQuantity != 1 || stored.IMEI1 == nil || stored.IMEI2 != nil {
			t.Fatalf("record %d is not a single-IMEI singleton: %+v", i, stored)
		}
	}
	remainderRec := repo.mobiles[2]
	if !remainderRec.IsAnonymous() {
		t.Fatalf("remainder record should be anonymous: %+v", remainderRec)
	}
	if remainderRec.TotalQuantity != 3 {
		t.Fatalf("remainder quantity = %d, want 3", remainderRec.TotalQuantity)
	}
	if len(remainderRec.ProductIDs) != 3 {
		t.Fatalf("remainder codes = %v, want 3", remainderRec.ProductIDs)
	}

	// Per-IMEI records mint before the remainder, so they hold the lower
	// sequence numbers.
	if repo.mobiles[0].ProductIDs[0] != "ABC-MOB-Y21-0001" {
		t.Fatalf("unexpected first code %v", repo.mobiles[0].ProductIDs)
	}
	if remainderRec.ProductIDs[0] != "ABC-MOB-Y21-0003" {
		t.Fatalf("unexpected remainder codes %v", remainderRec.ProductIDs)
	}
}

func TestMobileReconcileRemainderMergesIntoExistingAnonymous(t *testing.T) {
	repo := newStubStockRepo()
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	existing := &models.MobileStockRecord{
		ID:            uuid.New(),
		DealerID:      dealerID,
		ProductName:   "Vivo Y21",
		Model:         strPtr("Y21"),
		TotalQuantity: 4,
		ProductIDs:    []string{"ABC-MOB-Y21-0001"},
	}
	repo.mobiles = append(repo.mobiles, existing)
	minter.counters["ABC-MOB-Y21"] = 1

	results, err := rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName:        "Vivo Y21",
		Model:              strPtr("Y21"),
		Qty:                2,
		PurchasePriceCents: 1099900,
	}))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(results) != 1 || results[0].Created {
		t.Fatalf("expected a single merge result, got %+v", results)
	}
	if repo.mergeCalls != 1 {
		t.Fatalf("expected one merge, got %d", repo.mergeCalls)
	}

	if existing.TotalQuantity != 6 {
		t.Fatalf("merged quantity = %d, want 6", existing.TotalQuantity)
	}
	if len(existing.ProductIDs) != 3 {
		t.Fatalf("merged codes = %v, want 3 entries", existing.ProductIDs)
	}
	if existing.Brand == nil || *existing.Brand != "Vivo" {
		t.Fatalf("brand should be overwritten, got %v", existing.Brand)
	}
	if existing.PurchasePriceCents != 1099900 {
		t.Fatalf("price should be overwritten, got %d", existing.PurchasePriceCents)
	}
}

func TestMobileReconcileDeduplicatesIMEIsOrderPreserving(t *testing.T) {
	repo := newStubStockRepo()
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	_, err = rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName: "Vivo Y21",
		Qty:         3,
		IMEIs:       []string{"B", "A", "B", "A", "C"},
	}))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	// 3 deduped IMEIs (B, A, C) and no remainder.
	if len(repo.mobiles) != 3 {
		t.Fatalf("expected 3 records, got %d", len(repo.mobiles))
	}
	got := []string{*repo.mobiles[0].IMEI1, *repo.mobiles[1].IMEI1, *repo.mobiles[2].IMEI1}
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("imei order = %v, want %v", got, want)
		}
	}
}

func TestMobileReconcileIMEIConflictFallsBackToAnonymousRecord(t *testing.T) {
	repo := newStubStockRepo()
	repo.imeiConflicts["860000000000001"] = true
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	results, err := rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName: "Vivo Y21",
		Model:       strPtr("Y21"),
		Qty:         1,
		IMEIs:       []string{"860000000000001", "860000000000002"},
	}))
	if err != nil {
		t.Fatalf("conflict should be recovered, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if len(repo.mobiles) != 1 {
		t.Fatalf("expected one stored record, got %d", len(repo.mobiles))
	}
	stored := repo.mobiles[0]
	if stored.IMEI1 != nil || stored.IMEI2 != nil {
		t.Fatalf("retried record must drop IMEIs: %+v", stored)
	}
	if stored.TotalQuantity != 1 || len(stored.ProductIDs) != 1 {
		t.Fatalf("retried record shape wrong: %+v", stored)
	}
}

func TestMobileReconcileRemainderZeroSkipsAnonymousRecord(t *testing.T) {
	repo := newStubStockRepo()
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	_, err = rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName: "Vivo Y21",
		Qty:         2,
		IMEIs:       []string{"A", "B", "C"},
	}))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	// imeiCount exceeds qty: three singletons, remainder clamps to zero.
	if len(repo.mobiles) != 3 {
		t.Fatalf("expected 3 singleton records, got %d", len(repo.mobiles))
	}
	for _, stored := range repo.mobiles {
		if stored.IsAnonymous() {
			t.Fatalf("no anonymous record expected: %+v", stored)
		}
	}
}

func TestMobileReconcileAllCodesSharePrefix(t *testing.T) {
	repo := newStubStockRepo()
	minter := newStubMinter()
	rec, err := NewMobileReconciler(repo, minter, nil)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}

	dealerID := uuid.New()
	results, err := rec.Reconcile(context.Background(), mobileLine(dealerID, "ABC Traders", "Vivo", models.PurchaseLineItem{
		ProductName: "Vivo Y21",
		Model:       strPtr("Y21 Pro"),
		Qty:         4,
		IMEIs:       []string{"A"},
	}))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	for _, result := range results {
		for _, code := range result.Codes {
			if !strings.HasPrefix(code, "ABC-MOB-Y21-") {
				t.Fatalf("code %q does not share the dealer-category-model prefix", code)
			}
		}
	}
}
