package model

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/shopspring/decimal"
)

// SanitizeDocument walks an arbitrarily nested document (quotation snapshot,
// product custom fields) and converts every binary float to an exact decimal
// before it is persisted. Maps and slices are copied; other values pass
// through untouched.
func SanitizeDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = sanitizeValue(v)
	}
	return out
}

// SanitizeList applies the same float conversion to a bare list.
func SanitizeList(list []any) []any {
	if list == nil {
		return []any{}
	}
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = sanitizeValue(e)
	}
	return out
}

// ReviveList applies the same number revival to a bare list.
func ReviveList(list []any) []any {
	if list == nil {
		return []any{}
	}
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = reviveValue(e)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return SanitizeDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitizeValue(e)
		}
		return out
	case float64:
		return DecimalFromFloat(t)
	case float32:
		return DecimalFromFloat(float64(t))
	case json.Number:
		// Request bodies decoded with UseNumber carry the exact literal.
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return Decimal{d}
		}
		return t
	default:
		return v
	}
}

// ReviveDocument converts the attributevalue.Number values produced by a
// UseNumber decode back into Decimal, so a document reads back with the same
// types it was written with.
func ReviveDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = reviveValue(v)
	}
	return out
}

func reviveValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return ReviveDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = reviveValue(e)
		}
		return out
	case attributevalue.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return Decimal{d}
		}
		return t
	default:
		return v
	}
}
