package calc

// stack is a last-in, first-out list.
// The zero value is an empty stack.
type stack[T any] struct {
	data []T
}

func (s *stack[T]) push(v T) {
	s.data = append(s.data, v)
}

// pop removes and returns the top of the stack.
// Callers must check empty first.
func (s *stack[T]) pop() T {
	n := len(s.data) - 1
	v := s.data[n]
	s.data = s.data[:n]
	return v
}

func (s *stack[T]) peek() T {
	return s.data[len(s.data)-1]
}

func (s *stack[T]) empty() bool {
	return len(s.data) == 0
}

func (s *stack[T]) len() int {
	return len(s.data)
}
