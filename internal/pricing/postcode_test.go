package pricing_test

import (
	"testing"

	"bitbucket.org/crgw/haulier-rates/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutwardCode(t *testing.T) {
	tests := []struct {
		postcode string
		expected string
	}{
		{"BB10 1AB", "BB10"},
		{"  bb10   1ab ", "BB10"},
		{"BB101AB", "BB10"},
		{"M1 1AE", "M1"},
		{"M11AE", "M1"},
		{"SW1A 1AA", "SW1A"},
		{"sw1a1aa", "SW1A"},
		{"LA1", "LA1"},
		{"BB", "BB"},
	}

	for _, test := range tests {
		t.Run(test.postcode, func(t *testing.T) {
			outward, err := pricing.OutwardCode(test.postcode)
			require.NoError(t, err)
			assert.Equal(t, test.expected, outward)
		})
	}

	for _, invalid := range []string{"", "   ", "12345", "B!10", "ABC1"} {
		t.Run("invalid "+invalid, func(t *testing.T) {
			_, err := pricing.OutwardCode(invalid)
			assert.ErrorIs(t, err, pricing.ErrInvalidPostcode)
		})
	}
}

func TestPostcodeArea(t *testing.T) {
	assert.Equal(t, "BB", pricing.PostcodeArea("BB10"))
	assert.Equal(t, "M", pricing.PostcodeArea("M1"))
	assert.Equal(t, "SW", pricing.PostcodeArea("SW1A"))
}
