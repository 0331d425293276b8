package types

import (
	"encoding/json"
)

// Optional is a JSON field that distinguishes absent, null, and value.
// UnmarshalJSON only runs for keys present in the body, so Set is false for
// omitted fields, true with a nil Value for explicit nulls (clear), and true
// with a non-nil Value otherwise.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Cleared reports an explicit null: the key was present with no value.
func (o Optional[T]) Cleared() bool {
	return o.Set && o.Value == nil
}
