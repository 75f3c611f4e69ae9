package cpu

// Stack is the growable operand stack.
type Stack struct {
	Data []int32
}

func (s *Stack) Push(value int32) {
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value int32, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

// PopN removes the top count values, returned deepest first.
// The stack is unchanged if it holds fewer than count values.
func (s *Stack) PopN(count int) (values []int32, ok bool) {
	depth := len(s.Data)
	if count < 0 || depth < count {
		return
	}

	values = make([]int32, count)
	copy(values, s.Data[depth-count:])
	s.Data = s.Data[:depth-count]
	ok = true

	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Peek() (value int32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
