package validator

import (
	"testing"

	"portfoliodb/internal/testutil"
)

type assetInput struct {
	Symbol       string `validate:"required"`
	BaseCurrency string `validate:"required,iso4217"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		testutil.AssertNoError(t, Struct(assetInput{Symbol: "AAPL", BaseCurrency: "USD"}))
	})

	t.Run("lowercase_currency", func(t *testing.T) {
		testutil.AssertNoError(t, Struct(assetInput{Symbol: "AAPL", BaseCurrency: "eur"}))
	})

	t.Run("unknown_currency", func(t *testing.T) {
		err := Struct(assetInput{Symbol: "AAPL", BaseCurrency: "XYZ"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_symbol", func(t *testing.T) {
		err := Struct(assetInput{BaseCurrency: "USD"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		if err.Error() != "Symbol is required" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
