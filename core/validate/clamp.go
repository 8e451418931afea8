// Package validate is the deterministic, non-LLM consistency pass over
// estimator output: clamp negatives, recompute sortedness and totals,
// assemble trustworthy audit flags, and bind the result to its typed
// form. It never repairs the math; repair is the audit stage's job.
package validate

// Clamp walks an arbitrary JSON value tree and returns a new tree in
// which every negative numeric scalar is replaced by zero. Structure
// and non-numeric scalars are untouched; the input is never mutated.
// Idempotent: Clamp(Clamp(v)) == Clamp(v).
func Clamp(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			out[k] = Clamp(child)
		}
		return out

	case []interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			out[i] = Clamp(child)
		}
		return out

	case float64:
		if t < 0 {
			return float64(0)
		}
		return t

	case float32:
		if t < 0 {
			return float32(0)
		}
		return t

	case int:
		if t < 0 {
			return 0
		}
		return t

	case int64:
		if t < 0 {
			return int64(0)
		}
		return t

	default:
		return v
	}
}
