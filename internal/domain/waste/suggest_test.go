package waste

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "can", want: []string{"Aluminum Can"}},
		{query: "CAN", want: []string{"Aluminum Can"}},
		{query: "waste", want: []string{"Organic Waste", "E-Waste", "Food Waste"}},
		{query: "a", want: []string{
			"Plastic Bottle", "Glass Jar", "Aluminum Can", "Paper", "Cardboard",
			"Organic Waste", "E-Waste", "Food Waste", "Metal",
		}},
		{query: "zz", want: nil},
		{query: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.query))
		})
	}
}

func TestReferenceTypes_IsCopy(t *testing.T) {
	list := ReferenceTypes()
	list[0] = "changed"
	assert.Equal(t, "Plastic Bottle", ReferenceTypes()[0])
	assert.Len(t, ReferenceTypes(), 10)
}
