package convert

import (
	"errors"
	"strings"
	"unicode"

	"portfolio/util"
)

var ErrMismatchedParentheses = errors.New("Mismatched parentheses.")

const (
	openParen  = "("
	closeParen = ")"
)

// Operators not listed here rank 0 and are still treated as operators.
var precedence = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
	"^": 3,
}

func Precedence(operator string) int {
	return precedence[operator]
}

// IsOperand reports whether every rune of token is a letter or a number.
func IsOperand(token string) bool {
	if len(token) == 0 {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// Convert rewrites a space separated infix expression into postfix notation.
func Convert(infix string) (string, error) {
	postfix, err := ConvertTokens(strings.Fields(infix), util.NewStack[string]())
	if err != nil {
		return "", err
	}
	return strings.Join(postfix, " "), nil
}

// ConvertTokens runs the shunting-yard algorithm over tokens, using operators
// as the pending operator stack. Equal precedence pops, so every operator is
// left associative.
func ConvertTokens(tokens []string, operators *util.Stack[string]) ([]string, error) {
	postfix := make([]string, 0, len(tokens))

	for _, token := range tokens {
		switch {
		case IsOperand(token):
			postfix = append(postfix, token)
		case token == openParen:
			operators.Push(token)
		case token == closeParen:
			for {
				top, ok := operators.Pop()
				if !ok {
					return nil, ErrMismatchedParentheses
				}
				if top == openParen {
					break
				}
				postfix = append(postfix, top)
			}
		default:
			for {
				top, ok := operators.Peek()
				if !ok || top == openParen || Precedence(top) < Precedence(token) {
					break
				}
				operators.Pop()
				postfix = append(postfix, top)
			}
			operators.Push(token)
		}
	}

	for !operators.IsEmpty() {
		top, _ := operators.Pop()
		if top == openParen {
			return nil, ErrMismatchedParentheses
		}
		postfix = append(postfix, top)
	}

	return postfix, nil
}
