package purchases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahilmehta/cellstock-backend/internal/inventory"
	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/enums"
	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
	"github.com/sahilmehta/cellstock-backend/pkg/metrics"
	"github.com/sahilmehta/cellstock-backend/pkg/outbox"
	"github.com/sahilmehta/cellstock-backend/pkg/outbox/payloads"
)

type dealerDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Dealer, error)
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
	BrandForModel(ctx context.Context, model string) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the purchase order lifecycle: registration and the
// receive operation that reconciles line items into stock.
type Service interface {
	Create(ctx context.Context, input CreatePurchaseInput) (*models.PurchaseOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.PurchaseOrder, error)
	Receive(ctx context.Context, id uuid.UUID) (*ReceiveResult, error)
}

type service struct {
	repo        Repository
	dealers     dealerDirectory
	mobiles     inventory.MobileReconciler
	accessories inventory.AccessoryReconciler
	tx          txRunner
	events      eventEmitter
	metrics     *metrics.ReceiveMetrics
	logg        *logger.Logger
}

// NewService builds the purchases service. Metrics are optional.
func NewService(
	repo Repository,
	dealers dealerDirectory,
	mobiles inventory.MobileReconciler,
	accessories inventory.AccessoryReconciler,
	tx txRunner,
	events eventEmitter,
	recv *metrics.ReceiveMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if dealers == nil {
		return nil, fmt.Errorf("dealer directory required")
	}
	if mobiles == nil {
		return nil, fmt.Errorf("mobile reconciler required")
	}
	if accessories == nil {
		return nil, fmt.Errorf("accessory reconciler required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:        repo,
		dealers:     dealers,
		mobiles:     mobiles,
		accessories: accessories,
		tx:          tx,
		events:      events,
		metrics:     recv,
		logg:        logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreatePurchaseInput) (*models.PurchaseOrder, error) {
	if len(input.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}
	if _, err := s.dealers.Get(ctx, input.DealerID); err != nil {
		return nil, err
	}

	orderedOn := time.Now()
	if input.OrderedOn != nil {
		orderedOn = *input.OrderedOn
	}
	order := &models.PurchaseOrder{
		ID:           uuid.New(),
		DealerID:     input.DealerID,
		OrderedOn:    orderedOn,
		PaymentTerms: input.PaymentTerms,
		GSTApplied:   input.GSTApplied,
		GSTPercent:   input.GSTPercent,
		Status:       enums.PurchaseStatusPending,
	}
	for i, line := range input.LineItems {
		order.LineItems = append(order.LineItems, models.PurchaseLineItem{
			ID:                 uuid.New(),
			PurchaseOrderID:    order.ID,
			Position:           i,
			Category:           enums.ParseItemCategory(line.Category),
			ProductName:        line.ProductName,
			Model:              line.Model,
			Brand:              line.Brand,
			Color:              line.Color,
			RAM:                line.RAM,
			Storage:            line.Storage,
			SIMSlot:            line.SIMSlot,
			Processor:          line.Processor,
			Display:            line.Display,
			Camera:             line.Camera,
			Battery:            line.Battery,
			OS:                 line.OS,
			Network:            line.Network,
			PurchasePriceCents: line.PurchasePriceCents,
			SellingPriceCents:  line.SellingPriceCents,
			Qty:                line.Qty,
			IMEIs:              line.IMEIs,
			SuppliedCode:       line.SuppliedCode,
		})
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.PurchaseOrder, error) {
	orders, err := s.repo.List(ctx, dealerID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}
	return orders, nil
}

// Receive reconciles every line item of a purchase order into stock and then
// flips the order to received. Stock writes happen before the status flip, so
// a failure partway leaves the order pending and a retry re-runs the whole
// reconciliation. Re-receiving an already-received order is legal and re-runs
// reconciliation without touching the status row.
func (s *service) Receive(ctx context.Context, id uuid.UUID) (*ReceiveResult, error) {
	start := time.Now()

	order, err := s.Get(ctx, id)
	if err != nil {
		s.metrics.IncFailure("not_found")
		s.metrics.ObserveDuration("failure", time.Since(start))
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithPurchaseID(ctx, order.ID.String())
	}

	dealerName, err := s.dealers.NameByID(ctx, order.DealerID)
	if err != nil {
		s.metrics.IncFailure("dealer_lookup")
		s.metrics.ObserveDuration("failure", time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve dealer name")
	}

	alreadyReceived := order.Status == enums.PurchaseStatusReceived
	if alreadyReceived && s.logg != nil {
		s.logg.Warn(ctx, "re-receiving an already received purchase order")
	}

	result := &ReceiveResult{
		PurchaseID:      order.ID,
		AlreadyReceived: alreadyReceived,
	}

	for _, item := range order.LineItems {
		switch item.Category {
		case enums.ItemCategoryMobile:
			outcomes, err := s.receiveMobileLine(ctx, order, dealerName, item)
			if err != nil {
				s.metrics.IncFailure("reconcile")
				s.metrics.ObserveDuration("failure", time.Since(start))
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
					"reconcile mobile line "+strconv.Itoa(item.Position))
			}
			result.Mobiles = append(result.Mobiles, outcomes...)
		case enums.ItemCategoryAccessory:
			outcome, err := s.receiveAccessoryLine(ctx, order, dealerName, item)
			if err != nil {
				s.metrics.IncFailure("reconcile")
				s.metrics.ObserveDuration("failure", time.Since(start))
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
					"reconcile accessory line "+strconv.Itoa(item.Position))
			}
			result.Accessories = append(result.Accessories, outcome)
		default:
			result.Skipped++
			if s.logg != nil {
				s.logg.Info(s.logg.WithField(ctx, "position", item.Position),
					"skipping line item with unroutable category")
			}
		}
	}

	receivedAt := time.Now()
	if alreadyReceived && order.ReceivedAt != nil {
		receivedAt = *order.ReceivedAt
	}
	result.ReceivedAt = receivedAt

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if !alreadyReceived {
			flipped, err := s.repo.MarkReceived(ctx, tx, order.ID, receivedAt)
			if err != nil {
				return err
			}
			if !flipped {
				// Lost a race with a concurrent receive; the flip already
				// happened and the stock writes above stand on their own.
				result.AlreadyReceived = true
			}
		}
		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPurchaseReceived,
			AggregateType: enums.AggregatePurchaseOrder,
			AggregateID:   order.ID,
			Data:          s.buildReceivedPayload(order, result),
			Version:       1,
			OccurredAt:    receivedAt,
		}); err != nil {
			return err
		}
		return s.emitStockUpdates(ctx, tx, order, result, receivedAt)
	})
	if err != nil {
		s.metrics.IncFailure("finalize")
		s.metrics.ObserveDuration("failure", time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize receive")
	}

	mode := "first"
	if result.AlreadyReceived {
		mode = "repeat"
	}
	s.metrics.IncSuccess(mode)
	s.addMintedMetrics(result)
	s.metrics.ObserveDuration("success", time.Since(start))
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "codes_minted", result.CodesMinted()),
			"purchase order received")
	}
	return result, nil
}

func (s *service) receiveMobileLine(ctx context.Context, order *models.PurchaseOrder, dealerName string, item models.PurchaseLineItem) ([]LineOutcome, error) {
	brand := inventory.ResolveBrand(item.Brand, s.catalogBrand(ctx, item.Model), item.ProductName)
	records, err := s.mobiles.Reconcile(ctx, inventory.MobileLine{
		DealerID:   order.DealerID,
		DealerName: dealerName,
		Brand:      brand,
		Item:       item,
	})
	if err != nil {
		return nil, err
	}
	outcomes := make([]LineOutcome, 0, len(records))
	for _, rec := range records {
		outcomes = append(outcomes, LineOutcome{
			Position:    item.Position,
			Category:    enums.ItemCategoryMobile,
			ProductName: item.ProductName,
			RecordID:    rec.RecordID,
			Created:     rec.Created,
			Quantity:    rec.Quantity,
			Codes:       rec.Codes,
		})
	}
	return outcomes, nil
}

func (s *service) receiveAccessoryLine(ctx context.Context, order *models.PurchaseOrder, dealerName string, item models.PurchaseLineItem) (LineOutcome, error) {
	brand := inventory.ResolveBrand(item.Brand, s.catalogBrand(ctx, item.Model), item.ProductName)
	rec, err := s.accessories.Reconcile(ctx, inventory.AccessoryLine{
		DealerID:   order.DealerID,
		DealerName: dealerName,
		Brand:      brand,
		Item:       item,
	})
	if err != nil {
		return LineOutcome{}, err
	}
	return LineOutcome{
		Position:    item.Position,
		Category:    enums.ItemCategoryAccessory,
		ProductName: item.ProductName,
		RecordID:    rec.RecordID,
		Created:     rec.Created,
		Quantity:    rec.Quantity,
		Codes:       rec.Codes,
	}, nil
}

// catalogBrand consults the brand catalog; lookup failures fall back to the
// next step of the resolution chain rather than failing the receive.
func (s *service) catalogBrand(ctx context.Context, model *string) string {
	if model == nil || *model == "" {
		return ""
	}
	brand, err := s.dealers.BrandForModel(ctx, *model)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "brand catalog lookup failed")
		}
		return ""
	}
	return brand
}

func (s *service) buildReceivedPayload(order *models.PurchaseOrder, result *ReceiveResult) payloads.PurchaseReceivedEvent {
	event := payloads.PurchaseReceivedEvent{
		PurchaseID:      order.ID,
		DealerID:        order.DealerID,
		AlreadyReceived: result.AlreadyReceived,
		ReceivedAt:      result.ReceivedAt,
		SkippedLines:    result.Skipped,
	}
	for _, out := range result.Mobiles {
		event.MobileLines = append(event.MobileLines, payloads.ReceivedStockLine{
			RecordID:   out.RecordID,
			Category:   string(out.Category),
			Product:    out.ProductName,
			Quantity:   out.Quantity,
			CodesAdded: out.Codes,
		})
	}
	for _, out := range result.Accessories {
		event.AccessoryLines = append(event.AccessoryLines, payloads.ReceivedStockLine{
			RecordID:   out.RecordID,
			Category:   string(out.Category),
			Product:    out.ProductName,
			Quantity:   out.Quantity,
			CodesAdded: out.Codes,
		})
	}
	return event
}

// emitStockUpdates writes one stock.updated row per reconciled record so the
// low-stock consumers see quantity deltas without replaying whole receipts.
func (s *service) emitStockUpdates(ctx context.Context, tx *gorm.DB, order *models.PurchaseOrder, result *ReceiveResult, occurredAt time.Time) error {
	emit := func(out LineOutcome, aggregate enums.OutboxAggregateType) error {
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventStockUpdated,
			AggregateType: aggregate,
			AggregateID:   out.RecordID,
			Data: payloads.StockUpdatedEvent{
				RecordID: out.RecordID,
				DealerID: order.DealerID,
				Kind:     string(out.Category),
				Quantity: out.Quantity,
			},
			Version:    1,
			OccurredAt: occurredAt,
		})
	}
	for _, out := range result.Mobiles {
		if err := emit(out, enums.AggregateMobileStock); err != nil {
			return err
		}
	}
	for _, out := range result.Accessories {
		if err := emit(out, enums.AggregateAccessoryStock); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) addMintedMetrics(result *ReceiveResult) {
	mobile, accessory := 0, 0
	for _, out := range result.Mobiles {
		mobile += len(out.Codes)
	}
	for _, out := range result.Accessories {
		accessory += len(out.Codes)
	}
	s.metrics.AddCodesMinted(string(enums.ItemCategoryMobile), mobile)
	s.metrics.AddCodesMinted(string(enums.ItemCategoryAccessory), accessory)
}
