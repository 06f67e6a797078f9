package enums

// OutboxEventType enumerates the domain events published through the outbox.
type OutboxEventType string

const (
	EventPurchaseReceived OutboxEventType = "purchase.received"
	EventStockUpdated     OutboxEventType = "stock.updated"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregatePurchaseOrder  OutboxAggregateType = "purchase_order"
	AggregateMobileStock    OutboxAggregateType = "mobile_stock_record"
	AggregateAccessoryStock OutboxAggregateType = "accessory_stock_record"
)

// OutboxDLQErrorReason explains why an outbox event was parked.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
	OutboxDLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts"
)
