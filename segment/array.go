package segment

import (
	"fmt"
	"reflect"
	"sync"
)

// Into copies evaluated values into the fixed-size array type A. A must be an
// array of E whose length equals len(vals).
//
//	table, err := segment.Into[[6]int](vals)
func Into[A any, E any](vals []E) (A, error) {
	var arr A
	v := reflect.ValueOf(&arr).Elem()
	t := v.Type()
	elem := reflect.TypeFor[E]()
	if t.Kind() != reflect.Array || t.Elem() != elem || t.Len() != len(vals) {
		return arr, fmt.Errorf("%w: %v from %d values of %v", ErrArrayShape, t, len(vals), elem)
	}
	reflect.Copy(v, reflect.ValueOf(vals))
	return arr, nil
}

// Memo evaluates the segments returned by build on first call and caches the
// outcome. Every call returns its own copy of the values.
func Memo[E any](build func() []Segment[E], opts ...Option) func() ([]E, error) {
	once := sync.OnceValues(func() ([]E, error) {
		return Eval(build(), opts...)
	})
	return func() ([]E, error) {
		vals, err := once()
		if err != nil {
			return nil, err
		}
		return clone(vals), nil
	}
}
