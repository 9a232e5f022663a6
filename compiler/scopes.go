package compiler

// Scope maps names to declarations and remembers declaration order.
type Scope[T any] struct {
	Elems map[string]T
	order []string
}

func NewScope[T any]() *Scope[T] {
	return &Scope[T]{Elems: make(map[string]T)}
}

// Put reports false, leaving the scope unchanged, if name already exists.
func (s *Scope[T]) Put(name string, elem T) bool {
	if _, ok := s.Elems[name]; ok {
		return false
	}
	s.Elems[name] = elem
	s.order = append(s.order, name)
	return true
}

func (s *Scope[T]) Get(name string) (T, bool) {
	e, ok := s.Elems[name]
	return e, ok
}

// Ordered returns the elements in insertion order.
func (s *Scope[T]) Ordered() []T {
	out := make([]T, len(s.order))
	for i, name := range s.order {
		out[i] = s.Elems[name]
	}
	return out
}
