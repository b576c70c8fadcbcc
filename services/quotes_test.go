package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cppla/earlybird/models"
)

func TestPickQuoteIsDeterministic(t *testing.T) {
	for _, typ := range []models.CheckInType{models.CheckInEarly, models.CheckInOnTime, models.CheckInLate} {
		list := Quotes(typ)
		assert.Len(t, list, 3)
		for i := range list {
			assert.Equal(t, list[i], PickQuote(typ, func(int) int { return i }))
		}
	}
}

func TestPickQuoteDegradesToEmpty(t *testing.T) {
	assert.Empty(t, PickQuote(models.CheckInEarly, nil))
	assert.Empty(t, PickQuote(models.CheckInEarly, func(n int) int { return n }))
	assert.Empty(t, PickQuote(models.CheckInEarly, func(int) int { return -1 }))
	assert.Empty(t, PickQuote("unknown", func(int) int { return 0 }))
}

func TestQuotesReturnsCopy(t *testing.T) {
	list := Quotes(models.CheckInLate)
	list[0] = "changed"
	assert.NotEqual(t, "changed", Quotes(models.CheckInLate)[0])
}
