package oastype_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/formats"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := oastype.Issues{
		{Path: "/a", Code: oastype.CodeInvalidType},
		{Path: "/b", Code: oastype.CodeInvalidFormat},
		{Path: "/c", Code: oastype.CodeRequired},
		{Path: "/d", Code: oastype.CodeInvalidType},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "invalid_type at /a; invalid_format at /b") || !strings.Contains(s, "total 4") {
		t.Fatalf("unexpected summary %q", s)
	}
	if (oastype.Issues{}).Error() != "" {
		t.Fatalf("empty issues should render empty")
	}
}

func TestAsIssues(t *testing.T) {
	iss := oastype.AppendIssues(nil, oastype.Issue{Path: "/x", Code: oastype.CodeRequired})
	wrapped := fmt.Errorf("request: %w", iss)
	got, ok := oastype.AsIssues(wrapped)
	if !ok || len(got) != 1 || got[0].Path != "/x" {
		t.Fatalf("expected to extract issues, got %v %v", got, ok)
	}
	if _, ok := oastype.AsIssues(nil); ok {
		t.Fatalf("nil error must not yield issues")
	}
	if _, ok := oastype.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain error must not yield issues")
	}
}

func TestIssueFrom(t *testing.T) {
	reg := formats.Default()
	reg.MustRegister("string", "lazy", formats.Deferred("lazy"))
	ev := oastype.New(reg)

	tests := []struct {
		name  string
		err   error
		code  string
		hint  string
		param string
	}{
		{"type", ev.Validate(12.5, oastype.TypeInteger, ""), oastype.CodeInvalidType, "", "integer"},
		{"format", ev.Validate("nope", oastype.TypeString, "uuid"), oastype.CodeInvalidFormat, "uuid", "string"},
		{"schema", ev.Validate(1, "decimal", ""), oastype.CodeInvalidSchema, "", "decimal"},
		{"unresolvable", ev.Validate("a", oastype.TypeString, "lazy"), oastype.CodeFormatUnresolvable, "lazy", "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iss, ok := oastype.IssueFrom("/field", tt.err)
			if !ok {
				t.Fatalf("expected an issue for %v", tt.err)
			}
			if iss.Code != tt.code || iss.Path != "/field" || iss.Hint != tt.hint {
				t.Fatalf("unexpected issue %+v", iss)
			}
			if iss.Params["type"] != tt.param {
				t.Fatalf("expected type param %q, got %v", tt.param, iss.Params["type"])
			}
			if iss.Message == "" || iss.Message == tt.code {
				t.Fatalf("expected a translated message, got %q", iss.Message)
			}
			if !errors.Is(iss.Cause, tt.err) {
				t.Fatalf("issue must keep the cause")
			}
		})
	}

	if _, ok := oastype.IssueFrom("/", nil); ok {
		t.Fatalf("nil error must not convert")
	}
	if _, ok := oastype.IssueFrom("/", errors.New("other")); ok {
		t.Fatalf("foreign errors must not convert")
	}
	if iss, _ := oastype.IssueFrom("", tests[0].err); iss.Path != "/" {
		t.Fatalf("empty path should default to root, got %q", iss.Path)
	}
}

func TestErrorMessages(t *testing.T) {
	long := strings.Repeat("x", 200)
	err := (&oastype.TypeMismatchError{Type: oastype.TypeInteger, Value: long}).Error()
	if !strings.Contains(err, "...") || len(err) > 120 {
		t.Fatalf("long values should be truncated, got %q", err)
	}
	err = (&oastype.FormatMismatchError{Format: "uuid", Type: oastype.TypeString, Value: "x"}).Error()
	if !strings.Contains(err, "uuid") || !strings.Contains(err, `"x"`) {
		t.Fatalf("format mismatch should name format and value, got %q", err)
	}
	if !strings.Contains((&oastype.UnknownTypeError{Type: "decimal"}).Error(), "decimal") {
		t.Fatalf("unknown type should name the type")
	}
}

func TestPathRef(t *testing.T) {
	p := oastype.Root().Field("items").Index(2).Field("a/b~c")
	if got := p.Pointer(); got != "/items/2/a~1b~0c" {
		t.Fatalf("unexpected pointer %q", got)
	}
	if oastype.Root().Pointer() != "/" || oastype.At("").Pointer() != "/" {
		t.Fatalf("root pointer should be /")
	}
	if got := oastype.At("/query/limit").Field("x").Pointer(); got != "/query/limit/x" {
		t.Fatalf("unexpected pointer %q", got)
	}
	iss, ok := p.Issue(&oastype.TypeMismatchError{Type: oastype.TypeString, Value: 1})
	if !ok || iss.Path != "/items/2/a~1b~0c" {
		t.Fatalf("unexpected issue %+v", iss)
	}
	if i := oastype.IssueAt(p, oastype.CodeRequired, "missing", nil); i.Path != p.Pointer() {
		t.Fatalf("IssueAt path mismatch")
	}
}
