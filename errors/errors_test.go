package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}

	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}

	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}

	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}
}

func TestWrapNil(t *testing.T) {
	var err error

	err1 := Wrap(err, "1")
	if err1 != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := errors.New("0")
	err1 := Wrapf(err, "there are %d errors being wrapped", 1)
	if err1.Error() != "there are 1 errors being wrapped: 0" {
		t.Fatalf("err msg = %s want 'there are 1 errors being wrapped: 0'", err1.Error())
	}
}

func TestDetail(t *testing.T) {
	err := errors.New("root")
	err1 := WithDetail(err, "detail 1")
	err2 := WithDetailf(err1, "detail %d", 2)

	if got := Detail(err2); got != "detail 1; detail 2" {
		t.Fatalf("Detail(err2) = %q want %q", got, "detail 1; detail 2")
	}
	if got := Root(err2); got != err {
		t.Fatalf("Root(err2) = %v want %v", got, err)
	}
}

func TestWithDetailNil(t *testing.T) {
	if WithDetail(nil, "x") != nil {
		t.Fatal("WithDetail(nil) should yield nil")
	}
	if WithDetailf(nil, "x") != nil {
		t.Fatal("WithDetailf(nil) should yield nil")
	}
}

func TestStack(t *testing.T) {
	err := Wrap(errors.New("a"), "b")
	if len(Stack(err)) == 0 {
		t.Fatal("wrapped error should carry a stack trace")
	}
}
