package util

import "iter"

type Node[T any] struct {
	Next  *Node[T]
	Value T
}

// List is a singly linked list tracking both ends. Removing from the tail
// walks from the head since nodes carry no back links.
type List[T comparable] struct {
	head   *Node[T]
	tail   *Node[T]
	length int
}

func NewList[T comparable](values ...T) *List[T] {
	list := &List[T]{}
	for _, value := range values {
		list.InsertAtTail(value)
	}
	return list
}

func (list *List[T]) Len() int {
	return list.length
}

func (list *List[T]) IsEmpty() bool {
	return list.head == nil
}

func (list *List[T]) InsertAtHead(value T) {
	node := &Node[T]{
		Value: value,
		Next:  list.head,
	}

	if list.tail == nil {
		list.tail = node
	}

	list.head = node
	list.length++
}

func (list *List[T]) InsertAtTail(value T) {
	node := &Node[T]{
		Value: value,
	}

	if list.tail == nil {
		list.head = node
	} else {
		list.tail.Next = node
	}

	list.tail = node
	list.length++
}

func (list *List[T]) RemoveAtHead() (T, bool) {
	var zero T
	if list.head == nil {
		return zero, false
	}

	removed := list.head
	list.head = removed.Next
	removed.Next = nil
	if list.head == nil {
		list.tail = nil
	}
	list.length--
	return removed.Value, true
}

func (list *List[T]) RemoveAtTail() (T, bool) {
	var zero T
	if list.tail == nil {
		return zero, false
	}

	if list.head == list.tail {
		removed := list.head
		list.head = nil
		list.tail = nil
		list.length--
		return removed.Value, true
	}

	current := list.head
	for current.Next != list.tail {
		current = current.Next
	}
	removed := list.tail
	current.Next = nil
	list.tail = current
	list.length--
	return removed.Value, true
}

// RemoveFirstMatch unlinks the first node equal to value.
func (list *List[T]) RemoveFirstMatch(value T) (T, bool) {
	var zero T
	if list.head == nil {
		return zero, false
	}

	if list.head.Value == value {
		return list.RemoveAtHead()
	}

	for current := list.head; current.Next != nil; current = current.Next {
		if current.Next.Value != value {
			continue
		}
		removed := current.Next
		current.Next = removed.Next
		removed.Next = nil
		if current.Next == nil {
			list.tail = current
		}
		list.length--
		return removed.Value, true
	}
	return zero, false
}

// All yields values head to tail.
func (list *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for current := list.head; current != nil; current = current.Next {
			if !yield(current.Value) {
				return
			}
		}
	}
}

func (list *List[T]) Items() []T {
	items := make([]T, 0, list.length)
	for value := range list.All() {
		items = append(items, value)
	}
	return items
}
