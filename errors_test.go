package dtoforge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTransformPassesThroughServiceErrors(t *testing.T) {
	orig := NewError(CodeNotFound, "no such user")
	got := Transform(fmt.Errorf("handler: %w", orig))
	if got != orig {
		t.Errorf("Transform did not unwrap to the original error: %v", got)
	}
}

func TestTransformContextErrors(t *testing.T) {
	if got := Transform(context.DeadlineExceeded); got.Code != CodeDeadlineExceeded {
		t.Errorf("deadline code = %s", got.Code)
	}
	if got := Transform(context.Canceled); got.Code != CodeCanceled {
		t.Errorf("canceled code = %s", got.Code)
	}
}

func TestTransformJoinedErrors(t *testing.T) {
	err := errors.Join(fmt.Errorf("first"), fmt.Errorf("second"))
	got := Transform(err)
	if got.Code != CodeInternal {
		t.Errorf("code = %s", got.Code)
	}
	if got.Message != "first; second" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestTransformFallsBackToInternal(t *testing.T) {
	got := Transform(fmt.Errorf("kaboom"))
	if got.Code != CodeInternal || got.Message != "kaboom" {
		t.Errorf("got %+v", got)
	}
}

func TestTransformNil(t *testing.T) {
	if Transform(nil) != nil {
		t.Error("Transform(nil) != nil")
	}
}

func TestInvalid(t *testing.T) {
	got := Invalid(fmt.Errorf("bad payload"))
	if got.Code != CodeInvalidArgument {
		t.Errorf("code = %s", got.Code)
	}

	orig := NewError(CodeNotFound, "kept")
	if Invalid(orig) != orig {
		t.Error("Invalid rewrote an existing envelope")
	}
}

func TestWithDetailDoesNotMutate(t *testing.T) {
	base := NewError(CodeConflict, "dup")
	with := base.WithDetail("field", "name")
	if len(base.Details) != 0 {
		t.Errorf("base mutated: %v", base.Details)
	}
	if with.Details["field"] != "name" {
		t.Errorf("detail missing: %v", with.Details)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeInvalidArgument:  http.StatusBadRequest,
		CodeNotFound:         http.StatusNotFound,
		CodeCanceled:         499,
		CodeDeadlineExceeded: http.StatusGatewayTimeout,
		ErrorCode("bogus"):   http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestCodeFromStatusInvertsHTTPStatus(t *testing.T) {
	for _, code := range []ErrorCode{
		CodeInvalidArgument, CodeUnauthenticated, CodePermissionDenied,
		CodeNotFound, CodeConflict, CodeResourceExhausted, CodeCanceled,
		CodeNotImplemented, CodeUnavailable, CodeDeadlineExceeded,
	} {
		if got := codeFromStatus(code.HTTPStatus()); got != code {
			t.Errorf("codeFromStatus(HTTPStatus(%s)) = %s", code, got)
		}
	}
}
