package utils

import "encoding/json"

// Optional records whether a JSON field was present at all, so a patch can
// tell an explicit null apart from an omitted key.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Some is a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null is a present, explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
