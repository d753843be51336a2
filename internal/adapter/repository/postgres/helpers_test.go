package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericConversionKeepsScale(t *testing.T) {
	for _, s := range []string{"0", "500.00", "-250.75", "0.01", "1000000000"} {
		d := decimal.RequireFromString(s)

		n, err := toNumeric(d)
		if err != nil {
			t.Fatalf("toNumeric(%s): %v", s, err)
		}

		back, err := toDecimal(n)
		if err != nil {
			t.Fatalf("toDecimal(%s): %v", s, err)
		}

		if !back.Equal(d) {
			t.Errorf("round trip changed %s to %s", d, back)
		}
	}
}

func TestToDecimalNullIsZero(t *testing.T) {
	got, err := toDecimal(pgtype.Numeric{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("null numeric = %s, want 0", got)
	}
}
