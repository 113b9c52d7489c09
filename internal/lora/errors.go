package lora

import "fmt"

// DomainError reports a physical parameter outside the model's domain.
type DomainError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("lora: invalid %s=%g: %s", e.Param, e.Value, e.Reason)
}

// IndexError reports a catalog ordinal outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("lora: configuration index %d out of range [0,%d)", e.Index, e.Len)
}
