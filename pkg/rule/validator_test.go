package rule_test

import (
	"testing"

	"github.com/alsulaimanm93/minifixwood/pkg/rule"
)

type acquireForm struct {
	FileID       string `rule:"required,max=64"`
	Holder       string `rule:"required,max=255"`
	LeaseMinutes int    `rule:"omitempty,min=1,max=1440"`
}

func TestValidateStructOK(t *testing.T) {
	form := acquireForm{FileID: "f-1", Holder: "alice@example.com", LeaseMinutes: 30}
	if err := rule.ValidateStruct(form); err != nil {
		t.Fatalf("ValidateStruct: %v", err)
	}
}

func TestValidateStructMissingRequired(t *testing.T) {
	form := acquireForm{Holder: "alice@example.com"}

	err := rule.ValidateStruct(form)
	if err == nil {
		t.Fatal("expected validation error for missing FileID")
	}

	fields := rule.Errors(err)
	if fields == nil {
		t.Fatal("Errors should parse validator errors")
	}

	if fields["FileID"] != "required" {
		t.Fatalf("FileID rule = %q, want required", fields["FileID"])
	}
}

func TestValidateStructLeaseOutOfRange(t *testing.T) {
	form := acquireForm{FileID: "f-1", Holder: "alice", LeaseMinutes: 100000}
	if err := rule.ValidateStruct(form); err == nil {
		t.Fatal("expected validation error for lease minutes above max")
	}
}

func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("alice@example.com", "required,email"); err != nil {
		t.Fatalf("ValidateVar: %v", err)
	}

	if err := rule.ValidateVar("not-an-email", "required,email"); err == nil {
		t.Fatal("expected email validation to fail")
	}
}

func TestErrorsNonValidatorError(t *testing.T) {
	if fields := rule.Errors(errNotValidation); fields != nil {
		t.Fatalf("Errors on plain error = %v, want nil", fields)
	}
}

type plainError string

func (e plainError) Error() string { return string(e) }

var errNotValidation = plainError("boom")
