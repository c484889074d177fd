package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567.80", FormatNumber(1234567.8))
	assert.Equal(t, "-42.50", FormatNumber(-42.5))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Rs. 1,000.00", FormatMoney("Rs.", 1000))
	assert.Equal(t, "1,000.00", FormatMoney("", 1000))
	assert.Equal(t, "$ 2.50", FormatMoney("$", 2.5))
}
