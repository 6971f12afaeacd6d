package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *ServiceError
		code   Code
		status int
	}{
		{NotFound("module missing"), CodeNotFound, http.StatusNotFound},
		{Conflict("duplicate id"), CodeConflict, http.StatusConflict},
		{InUse("category referenced"), CodeInUse, http.StatusConflict},
		{Forbidden("root user"), CodeForbidden, http.StatusForbidden},
		{Unauthorized("bad credentials"), CodeUnauthorized, http.StatusUnauthorized},
		{InvalidInput("empty name"), CodeInvalidInput, http.StatusBadRequest},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("code = %s, want %s", tc.err.Code, tc.code)
		}
		if tc.err.HTTPStatus != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.code, tc.err.HTTPStatus, tc.status)
		}
	}
}

func TestGetServiceErrorUnwrapsChain(t *testing.T) {
	inner := NotFound("no such module")
	wrapped := fmt.Errorf("load module: %w", inner)

	se := GetServiceError(wrapped)
	if se == nil {
		t.Fatal("GetServiceError returned nil for wrapped ServiceError")
	}
	if se.Code != CodeNotFound {
		t.Errorf("code = %s, want %s", se.Code, CodeNotFound)
	}

	if GetServiceError(stderrors.New("plain")) != nil {
		t.Error("GetServiceError returned non-nil for plain error")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("category exists"))
	if !stderrors.Is(err, Conflict("")) {
		t.Error("errors.Is did not match conflict by code")
	}
	if stderrors.Is(err, NotFound("")) {
		t.Error("errors.Is matched a different code")
	}
	if !IsConflict(err) {
		t.Error("IsConflict = false for conflict error")
	}
	if !IsConflict(InUse("in use")) {
		t.Error("IsConflict = false for in-use error")
	}
}

func TestWithDetails(t *testing.T) {
	err := InvalidInput("bad field").WithDetails("field", "name")
	if err.Details["field"] != "name" {
		t.Errorf("details[field] = %v, want name", err.Details["field"])
	}
}
