package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormSymbol("  aapl\t"))
	assert.Equal(t, "", NormSymbol("   "))
}

func TestUniqueSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, UniqueSymbols([]string{"aapl", "", "MSFT", " Aapl "}))
}

func TestParseSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, ParseSymbols("aapl, msft tsla;;AAPL"))
	assert.Empty(t, ParseSymbols(" , "))
}
