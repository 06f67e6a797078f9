package enums

import "fmt"

// PurchaseStatus describes the lifecycle of a purchase order.
// The only legal transition is pending -> received; received is terminal.
type PurchaseStatus string

const (
	PurchaseStatusPending  PurchaseStatus = "pending"
	PurchaseStatusReceived PurchaseStatus = "received"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPending,
	PurchaseStatusReceived,
}

// IsValid reports whether the value matches the canonical status enum.
func (s PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the transition is allowed.
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	return s == PurchaseStatusPending && target == PurchaseStatusReceived
}

// ParsePurchaseStatus converts the raw string to PurchaseStatus.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
