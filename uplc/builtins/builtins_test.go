package builtins

import (
	"testing"

	"github.com/spacebudz/aiken/errors"
)

func TestFromName(t *testing.T) {
	for id := 0; id < Count; id++ {
		fn := DefaultFunction(id)
		got, err := FromName(fn.String())
		if err != nil {
			t.Fatalf("FromName(%s): %v", fn, err)
		}
		if got != fn {
			t.Errorf("FromName(%s) = %d want %d", fn, got, fn)
		}
	}
}

func TestFromNameUnknown(t *testing.T) {
	_, err := FromName("noSuchBuiltin")
	if errors.Root(err) != ErrUnknownBuiltin {
		t.Errorf("got %v want %v", err, ErrUnknownBuiltin)
	}
}

func TestAvailability(t *testing.T) {
	cases := []struct {
		fn   DefaultFunction
		lang Language
		want bool
	}{
		{AddInteger, PlutusV1, true},
		{SerialiseData, PlutusV1, false},
		{SerialiseData, PlutusV2, true},
		{VerifyEcdsaSecp256k1Signature, PlutusV1, false},
		{VerifySchnorrSecp256k1Signature, PlutusV2, true},
		{DefaultFunction(200), PlutusV2, false},
	}
	for _, c := range cases {
		if got := c.lang.Available(c.fn); got != c.want {
			t.Errorf("%s available in %s = %v want %v", c.fn, c.lang, got, c.want)
		}
	}
}

func TestForcingSchedule(t *testing.T) {
	cases := []struct {
		fn            DefaultFunction
		forces, arity int
	}{
		{AddInteger, 0, 2},
		{IfThenElse, 1, 3},
		{FstPair, 2, 1},
		{ChooseList, 2, 3},
		{ChooseData, 1, 6},
		{HeadList, 1, 1},
		{SliceByteString, 0, 3},
	}
	for _, c := range cases {
		if got := c.fn.Forces(); got != c.forces {
			t.Errorf("%s forces = %d want %d", c.fn, got, c.forces)
		}
		if got := c.fn.Arity(); got != c.arity {
			t.Errorf("%s arity = %d want %d", c.fn, got, c.arity)
		}
	}
}
