package models

// SequenceCounter holds the last-issued code number per composite
// dealer-category-model key. Rows only ever move forward; gaps are fine,
// reuse is not.
type SequenceCounter struct {
	CounterKey string `gorm:"column:counter_key;primaryKey"`
	LastValue  int64  `gorm:"column:last_value;not null;default:0"`
}

// TableName pins the table name so GORM does not pluralize "counters" oddly.
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
