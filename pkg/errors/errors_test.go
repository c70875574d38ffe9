package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInvalidToken, http.StatusForbidden},
		{CodeUserNotFound, http.StatusNotFound},
		{CodeNotFound, http.StatusNotFound},
		{CodeDuplicateName, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
		{Code("UNKNOWN_CODE"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestAsUnwrapsWrappedError(t *testing.T) {
	cause := fmt.Errorf("db connection lost")
	err := Wrap(CodeDependency, cause, "insert product")

	wrapped := fmt.Errorf("outer: %w", err)
	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error from wrapped chain")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if typed.Unwrap() != cause {
		t.Fatal("cause lost through wrapping")
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeDuplicateName, "product name is duplicate")
	if !HasCode(err, CodeDuplicateName) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("HasCode matched wrong code")
	}
	if HasCode(nil, CodeNotFound) {
		t.Fatal("HasCode matched nil error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_owner_name_live_idx"}
	wrapped := Wrap(CodeDependency, pgErr, "db: insert product")
	if !IsUniqueViolation(wrapped) {
		t.Fatal("expected unique violation to be detected through the chain")
	}
	if IsUniqueViolation(fmt.Errorf("plain error")) {
		t.Fatal("plain error misclassified as unique violation")
	}
}

func TestDumpCollectsPGFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_owner_name_live_idx", TableName: "products"}
	d := Dump(Wrap(CodeDuplicateName, pgErr, "insert product"))
	if d.PGCode != "23505" || d.PGConstraint != "products_owner_name_live_idx" || d.PGTable != "products" {
		t.Fatalf("pg fields not collected: %+v", d)
	}
	if d.Code != CodeDuplicateName {
		t.Fatalf("typed code not collected: %+v", d)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("chain too short: %v", d.Chain)
	}
}
