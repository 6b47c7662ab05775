package pkg

import (
	"errors"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if strings.TrimSpace(Version) == "" {
		t.Fatal("embedded version is empty")
	}
}

func TestErrorChain(t *testing.T) {
	inner := errors.New("open failed")
	err := ErrWriteOutput.Wrap(inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match wrapped error")
	}

	want := "failed to write output: open failed"
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestErrorWrapf(t *testing.T) {
	err := ErrLoadPackages.Wrapf("pattern %q", "./...")

	if !strings.Contains(err.Error(), `pattern "./..."`) {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestUnwrapErrorsOrder(t *testing.T) {
	inner := errors.New("inner")
	chain := UnwrapErrors(ErrRewrite.Wrap(inner))

	if len(chain) < 2 {
		t.Fatalf("expected at least 2 errors, got %d", len(chain))
	}

	// The chain is ordered innermost to outermost.
	if chain[len(chain)-1].Error() != "inner" {
		t.Errorf("expected wrapped error last, got %q", chain[len(chain)-1])
	}
}
