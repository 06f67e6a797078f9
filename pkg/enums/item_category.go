package enums

import "strings"

// ItemCategory classifies a purchase line item for stock routing.
type ItemCategory string

const (
	ItemCategoryMobile    ItemCategory = "mobile"
	ItemCategoryAccessory ItemCategory = "accessory"
	ItemCategoryOther     ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryMobile,
	ItemCategoryAccessory,
	ItemCategoryOther,
}

// IsValid reports whether the value matches the canonical category enum.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// CodeToken returns the fixed three-letter token embedded in unit codes.
func (c ItemCategory) CodeToken() string {
	switch c {
	case ItemCategoryMobile:
		return "MOB"
	case ItemCategoryAccessory:
		return "ACC"
	default:
		return "OTH"
	}
}

// ParseItemCategory normalizes the free-form category strings found in
// legacy purchase documents ("Mobile", "mobiles", "accessories", ...)
// to the closed enum. Unknown values map to ItemCategoryOther.
func ParseItemCategory(value string) ItemCategory {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mobile", "mobiles":
		return ItemCategoryMobile
	case "accessory", "accessories":
		return ItemCategoryAccessory
	default:
		return ItemCategoryOther
	}
}
