// Package waste holds the waste-entry model, the reference list used for
// type suggestions, and the prompt text sent to the generative model.
package waste

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AmountUnit is the unit an entry's amount is measured in.
type AmountUnit string

const (
	UnitKilograms AmountUnit = "kg"
	UnitItemCount AmountUnit = "items"
)

// Units returns the selectable units in display order.
func Units() []AmountUnit {
	return []AmountUnit{UnitKilograms, UnitItemCount}
}

// Label returns the human-readable unit label used in tables and prompts.
func (u AmountUnit) Label() string {
	switch u {
	case UnitKilograms:
		return "Kilograms (kg)"
	case UnitItemCount:
		return "Number of Items"
	default:
		return string(u)
	}
}

// Step returns the numeric input step for the unit.
func (u AmountUnit) Step() string {
	if u == UnitItemCount {
		return "1"
	}
	return "0.1"
}

// Valid reports whether u is a known unit.
func (u AmountUnit) Valid() bool {
	return u == UnitKilograms || u == UnitItemCount
}

// ParseAmountUnit maps a form value to an AmountUnit. Empty input selects kilograms.
func ParseAmountUnit(s string) (AmountUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kg", "kilograms", "kilograms (kg)":
		return UnitKilograms, nil
	case "items", "count", "number of items":
		return UnitItemCount, nil
	default:
		return "", fmt.Errorf("unknown amount unit %q", s)
	}
}

// Entry is one recorded waste submission. Entries are immutable once recorded.
type Entry struct {
	WasteType string     `json:"waste_type"`
	Amount    float64    `json:"amount"`
	Unit      AmountUnit `json:"amount_unit"`
}

var (
	// ErrEmptyWasteType is returned when the waste type is blank.
	ErrEmptyWasteType = errors.New("waste type is required")
	// ErrNonPositiveAmount is returned when the amount is zero, negative or not a number.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrFractionalCount is returned when an item count is not a whole number.
	ErrFractionalCount = errors.New("number of items must be a whole number")
	// ErrUnknownUnit is returned for units outside the closed set.
	ErrUnknownUnit = errors.New("unknown amount unit")
)

// NewEntry validates the raw values and builds an Entry.
// The waste type is trimmed; nothing else is normalized.
func NewEntry(wasteType string, amount float64, unit AmountUnit) (Entry, error) {
	wasteType = strings.TrimSpace(wasteType)
	if wasteType == "" {
		return Entry{}, ErrEmptyWasteType
	}
	if !unit.Valid() {
		return Entry{}, ErrUnknownUnit
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Entry{}, ErrNonPositiveAmount
	}
	if unit == UnitItemCount && amount != math.Trunc(amount) {
		return Entry{}, ErrFractionalCount
	}
	return Entry{WasteType: wasteType, Amount: amount, Unit: unit}, nil
}

// FormatAmount renders the amount with the shortest decimal representation ("5", "2.5").
func (e Entry) FormatAmount() string {
	return strconv.FormatFloat(e.Amount, 'f', -1, 64)
}

// SummaryLine renders the entry as "{amount} {unit label} of {waste type}".
func (e Entry) SummaryLine() string {
	return e.FormatAmount() + " " + e.Unit.Label() + " of " + e.WasteType
}

// Summary joins the summary lines of entries with single newlines, in order.
func Summary(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.SummaryLine())
	}
	return strings.Join(lines, "\n")
}
