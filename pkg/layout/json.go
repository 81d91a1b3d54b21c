package layout

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ToJSON serializes the result. Field order is fixed by the struct, so
// identical layouts marshal to identical bytes and hash stably.
func (r *Result) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ResultFromJSON deserializes a result produced by [Result.ToJSON].
// Validates the mode-specific invariants of the discriminated union.
func ResultFromJSON(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal layout result: %w", err)
	}
	if r.Mode == "" {
		return nil, fmt.Errorf("layout result missing mode")
	}
	if r.Mode == ModeDot && r.DOT == "" {
		return nil, fmt.Errorf("dot layout must contain DOT string")
	}
	return &r, nil
}
