package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mynaturejourney/journey/pkg/memories"
)

// ExpenseCategories are the fixed rows of the expense table.
var ExpenseCategories = []string{"ค่าเข้าอุทยาน", "ที่พัก", "อาหาร", "เดินทาง"}

// ExpenseRow holds the amount exactly as typed.
type ExpenseRow struct {
	Category string
	Amount   string
}

func defaultExpenses() []ExpenseRow {
	rows := make([]ExpenseRow, len(ExpenseCategories))
	for i, c := range ExpenseCategories {
		rows[i] = ExpenseRow{Category: c}
	}
	return rows
}

// ParseAmount parses a typed amount. ok is false for empty, non-numeric or
// non-finite input (NaN, Inf).
func ParseAmount(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ExpenseTotal sums the rows; unparsable amounts count as 0.
func ExpenseTotal(rows []ExpenseRow) float64 {
	var sum float64
	for _, r := range rows {
		if f, ok := ParseAmount(r.Amount); ok {
			sum += f
		}
	}
	return sum
}

// PlacePolicy decides which place rows are dropped before submission.
type PlacePolicy int

const (
	// DropBlank drops empty and whitespace-only rows.
	DropBlank PlacePolicy = iota
	// DropEmpty drops only rows that are exactly "".
	DropEmpty
)

func ParsePlacePolicy(s string) (PlacePolicy, error) {
	switch s {
	case "", "drop-blank":
		return DropBlank, nil
	case "drop-empty":
		return DropEmpty, nil
	default:
		return DropBlank, fmt.Errorf("unknown place policy '%s'", s)
	}
}

// Filter returns the rows the policy keeps, in order.
func (p PlacePolicy) Filter(places []string) []string {
	var out []string
	for _, place := range places {
		switch p {
		case DropEmpty:
			if place == "" {
				continue
			}
		default:
			if strings.TrimSpace(place) == "" {
				continue
			}
		}
		out = append(out, place)
	}
	return out
}

// SanitizeExpenses drops rows with an empty amount and parses the rest.
// A non-empty amount that is not a number is reported as bad.
func SanitizeExpenses(rows []ExpenseRow) (out []memories.ExpenseInput, bad []string) {
	for _, r := range rows {
		if strings.TrimSpace(r.Amount) == "" {
			continue
		}
		f, ok := ParseAmount(r.Amount)
		if !ok {
			bad = append(bad, r.Category)
			continue
		}
		out = append(out, memories.ExpenseInput{Category: r.Category, Amount: f})
	}
	return out, bad
}
