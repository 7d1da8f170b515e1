package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, 10.13, RoundWithTwoDecimalPlace(10.125))
	assert.Equal(t, 9.99, RoundWithTwoDecimalPlace(9.99))
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU("café com leite")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CAF-[A-Z2-9]{6}$`), sku)

	sku, err = GenerateSKU("  ")
	require.NoError(t, err)
	assert.Len(t, sku, 6)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), *date)

	date, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, date.IsZero())

	_, err = ParseDate("04/03/2025")
	assert.Error(t, err)
}

func TestEndOfDay(t *testing.T) {
	end := EndOfDay(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 4, 23, 59, 59, 999999999, time.UTC), end)
}
