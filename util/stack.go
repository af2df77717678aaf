package util

// Stack is a LIFO built from Nodes; the top node is the most recently pushed.
type Stack[T any] struct {
	top    *Node[T]
	length int
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

func (stack *Stack[T]) Len() int {
	return stack.length
}

func (stack *Stack[T]) IsEmpty() bool {
	return stack.top == nil
}

func (stack *Stack[T]) Push(value T) {
	stack.top = &Node[T]{
		Value: value,
		Next:  stack.top,
	}
	stack.length++
}

// Pop returns false instead of panicking when the stack is empty.
func (stack *Stack[T]) Pop() (T, bool) {
	var zero T
	if stack.top == nil {
		return zero, false
	}

	popped := stack.top
	stack.top = popped.Next
	popped.Next = nil
	stack.length--
	return popped.Value, true
}

func (stack *Stack[T]) Peek() (T, bool) {
	var zero T
	if stack.top == nil {
		return zero, false
	}
	return stack.top.Value, true
}

// Items returns values top to bottom without modifying the stack.
func (stack *Stack[T]) Items() []T {
	items := make([]T, 0, stack.length)
	for current := stack.top; current != nil; current = current.Next {
		items = append(items, current.Value)
	}
	return items
}
