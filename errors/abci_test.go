package errors

import (
	"fmt"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			err:      nil,
			wantCode: SuccessABCICode,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrUnauthorized,
			wantCode: ErrUnauthorized.code,
			wantLog:  "unauthorized",
		},
		"wrapped registered error": {
			err:      Wrap(ErrAmount, "deposit"),
			wantCode: ErrAmount.code,
			wantLog:  "deposit: insufficient amount",
		},
		"internal error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"wrapped internal error is redacted": {
			err:      Wrap(fmt.Errorf("disk on fire"), "save"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic.New("secret"), false); err.Error() != internalABCILog {
		t.Fatalf("panic must be redacted, got %q", err)
	}
	if err := Redact(ErrPanic.New("secret"), true); !ErrPanic.Is(err) {
		t.Fatalf("debug mode must not redact, got %q", err)
	}
	if err := Redact(ErrState, false); err != ErrState {
		t.Fatalf("registered error must pass, got %q", err)
	}
	if err := Redact(nil, false); err != nil {
		t.Fatalf("nil must stay nil, got %v", err)
	}
}

func TestFromABCI(t *testing.T) {
	if err := FromABCI(0, ""); err != nil {
		t.Fatalf("success code must produce no error, got %v", err)
	}
	code, log := ABCIInfo(Wrap(ErrUnauthorized, "approve"), false)
	if err := FromABCI(code, log); !ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %v", err)
	}
	if err := FromABCI(999999, "unknown"); err == nil {
		t.Fatal("unknown code must produce an error")
	}
}
