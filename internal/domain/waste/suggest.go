package waste

import (
	"strings"

	"golang.org/x/text/cases"
)

// referenceTypes is the fixed list of waste-type labels offered as suggestions.
//
//nolint:gochecknoglobals // read-only lookup table
var referenceTypes = []string{
	"Plastic Bottle",
	"Glass Jar",
	"Aluminum Can",
	"Paper",
	"Cardboard",
	"Organic Waste",
	"E-Waste",
	"Textiles",
	"Food Waste",
	"Metal",
}

// ReferenceTypes returns a copy of the reference waste-type labels.
func ReferenceTypes() []string {
	return append([]string(nil), referenceTypes...)
}

// Suggest returns every reference label containing query as a case-insensitive
// substring, in reference order. An empty query yields no suggestions.
func Suggest(query string) []string {
	return SuggestFrom(referenceTypes, query)
}

// SuggestFrom is Suggest over an arbitrary label list.
func SuggestFrom(labels []string, query string) []string {
	if query == "" {
		return nil
	}
	// Caser values are stateful; one per call.
	fold := cases.Fold()
	needle := fold.String(query)
	var out []string
	for _, label := range labels {
		if strings.Contains(fold.String(label), needle) {
			out = append(out, label)
		}
	}
	return out
}
