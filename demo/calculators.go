package demo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"portfolio/convert"
)

// The original pages approximate pi with two decimals.
const pi = 3.14

type ConvertResult struct {
	Infix   string
	Postfix string
	Message string
}

func ConvertExpression(infix string) ConvertResult {
	result := ConvertResult{Infix: infix}
	if len(infix) == 0 {
		result.Message = "Please enter an expression."
		return result
	}

	postfix, err := convert.Convert(infix)
	switch {
	case errors.Is(err, convert.ErrMismatchedParentheses):
		result.Message = fmt.Sprintf("Error: %v", err)
	case err != nil:
		result.Message = fmt.Sprintf("An unexpected error occurred: %v", err)
	default:
		result.Postfix = postfix
	}
	return result
}

type AreaResult struct {
	Area    float64
	Message string
}

// String keeps a trailing ".0" on integral areas and switches to exponent
// notation below 1e-4 or from 1e16 up.
func (r AreaResult) String() string {
	if len(r.Message) > 0 {
		return r.Message
	}
	return formatFloat(r.Area)
}

func formatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return "nan"
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	}

	magnitude := math.Abs(value)
	if magnitude != 0 && (magnitude < 1e-4 || magnitude >= 1e16) {
		return strconv.FormatFloat(value, 'e', -1, 64)
	}
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}

// MissingNumber is what a form field absent from the submission counts as.
const MissingNumber = "0"

// parseNumber rejects blank input; out of range values become ±inf or 0.
func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return 0, errors.New("empty number")
	}
	number, err := strconv.ParseFloat(value, 64)
	if errors.Is(err, strconv.ErrRange) {
		return number, nil
	}
	return number, err
}

func roundTo(value float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(value*scale) / scale
}

func CircleArea(radius string) AreaResult {
	r, err := parseNumber(radius)
	if err != nil {
		return AreaResult{Message: "Invalid input. Please enter a number."}
	}
	return AreaResult{Area: roundTo(pi*r*r, 4)}
}

func TriangleArea(base, height string) AreaResult {
	b, err := parseNumber(base)
	if err != nil {
		return AreaResult{Message: "Invalid input. Please enter valid numbers."}
	}
	h, err := parseNumber(height)
	if err != nil {
		return AreaResult{Message: "Invalid input. Please enter valid numbers."}
	}
	return AreaResult{Area: roundTo(0.5*b*h, 4)}
}

func Uppercase(input string) string {
	return strings.ToUpper(input)
}
