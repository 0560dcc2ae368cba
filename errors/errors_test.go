package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"root errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"cause works for a stdlib error as root": {
			err:  Wrap(std, "context"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("unexpected root: %v", got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"same instance": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"different root errors": {
			kind:   ErrNotFound,
			err:    ErrModel,
			wantIs: false,
		},
		"wrapped by pkg/errors": {
			kind:   ErrNotFound,
			err:    errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"wrapped many times": {
			kind:   ErrUnauthorized,
			err:    Wrap(Wrapf(ErrUnauthorized, "caller %d", 1), "approve"),
			wantIs: true,
		},
		"nil kind matches nil error": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
		"nil kind does not match an error": {
			kind:   nil,
			err:    ErrState,
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrState,
			err:    fmt.Errorf("state"),
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestStdlibIsCompatible(t *testing.T) {
	err := Wrap(ErrAmount, "deploy")
	if !stdlib.Is(err, ErrAmount) {
		t.Fatal("stdlib errors.Is must unwrap")
	}
}

func TestIsEnvironmentFailure(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"malformed input":   {err: Wrap(ErrInput, "address"), want: true},
		"empty identity":    {err: ErrEmpty.New("arbiter"), want: true},
		"database":          {err: ErrDatabase, want: true},
		"unauthorized":      {err: ErrUnauthorized, want: false},
		"insufficient fund": {err: ErrAmount, want: false},
		"nil":               {err: nil, want: false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := IsEnvironmentFailure(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicated code must panic")
		}
	}()
	Register(ErrNotFound.ABCICode(), "another not found")
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestField(t *testing.T) {
	if err := Field("arbiter", nil, "ignored"); err != nil {
		t.Fatalf("nil error must stay nil, got %v", err)
	}
	err := Field("arbiter", ErrEmpty, "required")
	if !ErrEmpty.Is(err) {
		t.Fatalf("unexpected kind: %v", err)
	}
	if want := `field "arbiter": required: value is empty`; err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
}
