package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("negative forms all normalize the same way", func(t *testing.T) {
		for _, token := range []string{"-$1,234.56", "(1234.56)", "1234.56-", "($1,234.56)"} {
			d, err := ParseAmount(token)
			require.NoError(t, err, token)
			assert.Equal(t, "-1234.56", d.StringFixed(2), token)
		}
	})

	t.Run("positive amounts", func(t *testing.T) {
		cases := map[string]string{
			"75.99":       "75.99",
			"$95,075.99":  "95075.99",
			"  1,000.00 ": "1000.00",
			"0.01":        "0.01",
			"500":         "500.00",
		}
		for token, want := range cases {
			d, err := ParseAmount(token)
			require.NoError(t, err, token)
			assert.Equal(t, want, d.StringFixed(2), token)
		}
	})

	t.Run("rejects non-numeric remainders", func(t *testing.T) {
		for _, token := range []string{"", "N/A", "12.34.56", "check", "1O0.00", "--"} {
			_, err := ParseAmount(token)
			assert.ErrorIs(t, err, ErrNotAnAmount, token)
		}
	})
}

func TestLooksLikeAmount(t *testing.T) {
	assert.True(t, LooksLikeAmount("75.99"))
	assert.True(t, LooksLikeAmount("$1,234.56"))
	assert.True(t, LooksLikeAmount("(45.00)"))

	// Check numbers and references are digit runs without cents.
	assert.False(t, LooksLikeAmount("1047"))
	assert.False(t, LooksLikeAmount("04/01"))
	assert.False(t, LooksLikeAmount("Deposit"))
}
