package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-1", "-1", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,000.50", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.out)), "got %s", got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.50", FormatAmount(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
}
