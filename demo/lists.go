package demo

import (
	"fmt"

	"portfolio/util"
)

// Action is the list operation selected by the submit button.
type Action string

const (
	InsertAtHead Action = "insert_beg"
	InsertAtTail Action = "insert_end"
	RemoveAtHead Action = "remove_beg"
	RemoveAtTail Action = "remove_end"
	RemoveValue  Action = "remove_at"
)

func (a Action) Known() bool {
	switch a {
	case InsertAtHead, InsertAtTail, RemoveAtHead, RemoveAtTail, RemoveValue:
		return true
	}
	return false
}

func (a Action) needsData() bool {
	return a == InsertAtHead || a == InsertAtTail || a == RemoveValue
}

type ListResult struct {
	Items   []string
	Message string
}

// ApplyListAction rebuilds the list from the items echoed back by the form,
// applies a single action and returns the new items with a status message.
// Unknown actions leave the list untouched and produce no message.
func ApplyListAction(items []string, action Action, data string) ListResult {
	list := util.NewList(items...)

	var message string
	switch {
	case action.needsData() && len(data) == 0:
		message = "Please enter data in the text field."
	case action == InsertAtHead:
		list.InsertAtHead(data)
		message = fmt.Sprintf("Added '%v' to the beginning.", data)
	case action == InsertAtTail:
		list.InsertAtTail(data)
		message = fmt.Sprintf("Added '%v' to the end.", data)
	case action == RemoveAtHead:
		message = removedMessage(list.RemoveAtHead())
	case action == RemoveAtTail:
		message = removedMessage(list.RemoveAtTail())
	case action == RemoveValue:
		if removed, ok := list.RemoveFirstMatch(data); ok {
			message = fmt.Sprintf("Removed '%v'.", removed)
		} else {
			message = fmt.Sprintf("'%v' not found.", data)
		}
	}

	return ListResult{
		Items:   list.Items(),
		Message: message,
	}
}

func removedMessage(removed string, ok bool) string {
	if !ok {
		return "List is empty."
	}
	return fmt.Sprintf("Removed '%v'.", removed)
}
