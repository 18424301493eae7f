package domain

// number is satisfied by json.Number and attributevalue.Number, which keep
// the literal text of a decoded number.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// NormalizeMetadata replaces decoded number literals with int64 when they are
// integral and fit, float64 otherwise. Large integer ids keep every digit.
func NormalizeMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}

	out := make(map[string]any, len(metadata))

	for key, value := range metadata {
		out[key] = normalizeValue(value)
	}

	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case number:
		if i, err := v.Int64(); err == nil {
			return i
		}

		if f, err := v.Float64(); err == nil {
			return f
		}

		return value
	case map[string]any:
		return NormalizeMetadata(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
