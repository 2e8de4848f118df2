// Package currency converts and formats amounts using a static USD based
// rate table.
package currency

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

// rates are units of each currency per one US dollar.
var rates = map[string]float64{
	"USD": 1, "EUR": 0.92, "GBP": 0.79, "JPY": 150, "AUD": 1.52, "CAD": 1.36,
	"CHF": 0.90, "CNY": 7.23, "INR": 83.5, "SGD": 1.35, "KRW": 1350, "MXN": 17.5,
	"BRL": 5.2, "TRY": 32.5, "ZAR": 19.0, "THB": 36.5, "VND": 25400, "IDR": 16000,
}

// commonTargets are offered next to the itinerary's own currency.
var commonTargets = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "INR"}

// Rate returns units of code per US dollar.
func Rate(code string) (float64, bool) {
	r, ok := rates[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Supported lists every code in the rate table, sorted.
func Supported() []string {
	codes := make([]string, 0, len(rates))
	for c := range rates {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// Convert moves amount from one currency to another through USD and rounds to
// a whole unit. Unknown codes leave the amount untouched.
func Convert(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}
	fromRate, ok := Rate(from)
	if !ok || fromRate == 0 {
		return amount
	}
	toRate, ok := Rate(to)
	if !ok {
		return amount
	}
	return roundHalfUp(amount / fromRate * toRate)
}

// ConvertBudget converts every line of b into to. The breakdown is returned
// unchanged if either currency is unknown.
func ConvertBudget(b models.BudgetBreakdown, to string) models.BudgetBreakdown {
	target := strings.ToUpper(strings.TrimSpace(to))
	if b.Currency == target {
		return b
	}
	if _, ok := Rate(b.Currency); !ok {
		return b
	}
	if _, ok := Rate(target); !ok {
		return b
	}

	conv := func(v float64) float64 { return Convert(v, b.Currency, target) }
	return models.BudgetBreakdown{
		Accommodation:  conv(b.Accommodation),
		Food:           conv(b.Food),
		Activities:     conv(b.Activities),
		Transport:      conv(b.Transport),
		Misc:           conv(b.Misc),
		Currency:       target,
		TotalEstimated: conv(b.TotalEstimated),
	}
}

// Available returns base followed by the common targets, without duplicates.
func Available(base string) []string {
	out := make([]string, 0, len(commonTargets)+1)
	if base != "" {
		out = append(out, base)
	}
	for _, c := range commonTargets {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Format renders amount with the currency symbol and grouping for tag. Codes
// that are not ISO 4217 fall back to "CODE amount".
func Format(amount float64, code string, tag language.Tag) string {
	p := message.NewPrinter(tag)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return p.Sprintf("%s %.2f", code, amount)
	}
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
