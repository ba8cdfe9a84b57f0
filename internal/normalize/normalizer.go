// Package normalize maps provider key bags onto the canonical stock record.
package normalize

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// Normalizer applies the precedence tables. The zero value is not usable; see New.
type Normalizer struct {
	text    []TextRule
	numeric []FieldRule
	now     func() time.Time
}

// New creates a Normalizer over the default tables
func New() *Normalizer {
	return &Normalizer{
		text:    TextRules,
		numeric: NumericRules,
		now:     time.Now,
	}
}

// WithClock overrides the timestamp source
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize builds a NormalizedStock from a raw record. It never fails:
// missing or mistyped values become nil, descriptive fields become N/A.
func (n *Normalizer) Normalize(symbol string, raw contracts.RawRecord) *contracts.NormalizedStock {
	stock := &contracts.NormalizedStock{
		Symbol:      contracts.NormalizeSymbol(symbol),
		LastUpdated: n.now(),
	}

	for _, rule := range n.text {
		v, ok := firstText(raw, rule.Keys)
		if !ok {
			v = contracts.NotAvailable
		}
		rule.set(stock, v)
	}

	for _, rule := range n.numeric {
		if v, ok := firstNumber(raw, rule.Keys, rule.SkipZero); ok {
			rule.set(stock, v)
		}
	}

	return stock
}

// Normalize uses the default tables
func Normalize(symbol string, raw contracts.RawRecord) *contracts.NormalizedStock {
	return New().Normalize(symbol, raw)
}

func firstText(raw contracts.RawRecord, keys []string) (string, bool) {
	for _, key := range keys {
		s, ok := raw[key].(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

func firstNumber(raw contracts.RawRecord, keys []string, skipZero bool) (float64, bool) {
	for _, key := range keys {
		v, ok := toFloat(raw[key])
		if !ok {
			continue
		}
		if skipZero && v == 0 {
			continue
		}
		return v, true
	}
	return 0, false
}

// toFloat accepts any numeric kind. Strings, bools and non-finite values are rejected.
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toInt rounds v; values outside the int64 range are treated as missing
func toInt(v float64) *int64 {
	r := math.Round(v)
	if r < math.MinInt64 || r >= math.MaxInt64 {
		return nil
	}
	i := int64(r)
	return &i
}
