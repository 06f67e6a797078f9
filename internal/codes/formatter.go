package codes

import (
	"fmt"
	"strings"

	"github.com/sahilmehta/cellstock-backend/pkg/enums"
)

// fallbackModelToken is used when neither model nor product name yields
// any alphanumeric characters.
const fallbackModelToken = "XXX"

const tokenLen = 3

// token upper-cases the input, strips non-alphanumerics and keeps the
// first three characters. Shorter inputs yield shorter tokens.
func token(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == tokenLen {
				break
			}
		}
	}
	return b.String()
}

// DealerToken derives the dealer component of a code. Dealer names shorter
// than three alphanumerics produce shorter tokens; this is legacy behavior
// the stock data already depends on.
func DealerToken(dealerName string) string {
	return token(dealerName)
}

// CategoryCode maps a free-form category label to its fixed code component.
func CategoryCode(categoryLabel string) string {
	return enums.ParseItemCategory(categoryLabel).CodeToken()
}

// ModelToken derives the model component from the model string, falling back
// to the product name when model is empty. An input with no alphanumerics
// yields "XXX".
func ModelToken(model, productName string) string {
	source := model
	if strings.TrimSpace(source) == "" {
		source = productName
	}
	if t := token(source); t != "" {
		return t
	}
	return fallbackModelToken
}

// Prefix composes the stable dealer-category-model prefix without a sequence
// suffix. It is also the counter key all codes under it are sequenced on.
func Prefix(dealerName, categoryLabel, model, productName string) string {
	return DealerToken(dealerName) + "-" + CategoryCode(categoryLabel) + "-" + ModelToken(model, productName)
}

// Format renders a full unit code from its parts and an externally supplied
// sequence number.
func Format(dealerName, categoryLabel, model string, sequence int64) string {
	return WithSequence(Prefix(dealerName, categoryLabel, model, ""), sequence)
}

// WithSequence appends a zero-padded sequence to an already-derived prefix.
// Sequences beyond 9999 widen naturally instead of wrapping.
func WithSequence(prefix string, sequence int64) string {
	return fmt.Sprintf("%s-%04d", prefix, sequence)
}
