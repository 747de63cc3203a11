package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleLineDoubles(t *testing.T) {
	got := ScaleLine("2 cups flour", 8, 4)
	assert.Equal(t, "4 cups flour", got)
}

func TestScaleLineDecimalResult(t *testing.T) {
	// 1.5 × 2 = 3 → 整數不帶小數點
	assert.Equal(t, "3 tsp salt", ScaleLine("1.5 tsp salt", 8, 4))
	// 1 × 1.5 = 1.5 → 一位小數
	assert.Equal(t, "1.5 tbsp oil", ScaleLine("1 tbsp oil", 6, 4))
}

func TestScaleLineRoundsToOneDecimal(t *testing.T) {
	// 1/3 × 1 = 0.333… → 0.3
	assert.Equal(t, "0.3 cup sugar", ScaleLine("1 cup sugar", 1, 3))
}

func TestScaleLineMultipleNumbers(t *testing.T) {
	got := ScaleLine("2 to 3 cloves garlic", 8, 4)
	assert.Equal(t, "4 to 6 cloves garlic", got)
}

func TestScaleLineVerbatimWhenTargetEqualsCanonical(t *testing.T) {
	line := "0.33 cup cream"
	assert.Equal(t, line, ScaleLine(line, 4, 4))
}

func TestScaleLineNoNumbers(t *testing.T) {
	line := "salt to taste"
	assert.Equal(t, line, ScaleLine(line, 8, 4))
}

func TestScaleLineInvalidCanonical(t *testing.T) {
	line := "2 cups flour"
	assert.Equal(t, line, ScaleLine(line, 8, 0))
	assert.Equal(t, line, ScaleLine(line, 8, -1))
}

func TestScaleLines(t *testing.T) {
	lines := []string{"2 cups flour", "1 egg"}
	got := ScaleLines(lines, 8, 4)
	assert.Equal(t, []string{"4 cups flour", "2 egg"}, got)

	// 相同份量原切片直接返回
	same := ScaleLines(lines, 4, 4)
	assert.Equal(t, lines, same)
}

func TestValidServings(t *testing.T) {
	assert.True(t, ValidServings(1))
	assert.True(t, ValidServings(20))
	assert.False(t, ValidServings(0))
	assert.False(t, ValidServings(21))
	assert.False(t, ValidServings(-3))
}
