// Package stack provides the generic LIFO stack the analyzer keeps its open
// scopes on.
package stack

// Stack is a LIFO stack used by the analyzer to track the scope being visited.
// The zero value is an empty stack ready to use.
type Stack[T any] struct {
	items []T
}

// Depth returns the number of items on the stack
func (s *Stack[T]) Depth() int {
	return len(s.items)
}

// Push places item on top of the stack
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item.
// Returns false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Peek returns the top item without removing it
func (s *Stack[T]) Peek() (T, bool) {
	return s.At(s.Depth() - 1)
}

// Parent returns the item just below the top
func (s *Stack[T]) Parent() (T, bool) {
	return s.At(s.Depth() - 2)
}

// At returns the item at index, counted from the bottom of the stack
func (s *Stack[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(s.items) {
		return zero, false
	}
	return s.items[index], true
}
