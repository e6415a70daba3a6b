package enrich

import "github.com/fwojciec/patentenrich"

// Result is the outcome of one stage for one patent: a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// Stage holds the per-patent results of one pipeline stage. A failure for
// one patent is recorded in its Result and never affects the others.
type Stage[T any] map[patentenrich.PatentID]Result[T]

// Value returns the successful value for id, or the zero value when the
// stage failed or never ran for id.
func (s Stage[T]) Value(id patentenrich.PatentID) T {
	r, ok := s[id]
	if !ok || r.Err != nil {
		var zero T
		return zero
	}
	return r.Value
}

// Err returns the error recorded for id, if any.
func (s Stage[T]) Err(id patentenrich.PatentID) error {
	return s[id].Err
}

// Failed returns the number of patents whose result is an error.
func (s Stage[T]) Failed() int {
	n := 0
	for _, r := range s {
		if r.Err != nil {
			n++
		}
	}
	return n
}
