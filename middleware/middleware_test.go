package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	json "github.com/goccy/go-json"

	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/formats"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func decodeIssues(t *testing.T, rec *httptest.ResponseRecorder) []oastype.Issue {
	t.Helper()
	var body struct {
		Issues []oastype.Issue `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Issues
}

func newEvaluator(t *testing.T) *oastype.Evaluator {
	t.Helper()
	reg := formats.New(formats.WithLoader(formats.Catalog{}))
	reg.MustRegister("string", "sku", formats.Func(formats.Pattern(regexp.MustCompile(`^[A-Z]{3}$`))))
	reg.MustRegister("string", "phone", formats.Deferred("e164"))
	return oastype.New(reg)
}

func TestQueryParams(t *testing.T) {
	ev := newEvaluator(t)
	params := []Param{
		{Name: "limit", Type: oastype.TypeInteger, Required: true},
		{Name: "debug", Type: oastype.TypeBoolean},
		{Name: "sku", Type: oastype.TypeString, Format: "sku"},
		{Name: "tag", Type: oastype.TypeArray},
	}
	tests := []struct {
		name   string
		query  string
		status int
		code   string
		path   string
	}{
		{"coerced values pass", "limit=10&debug=TRUE&sku=ABC&tag=a&tag=b", http.StatusNoContent, "", ""},
		{"missing required", "debug=false", http.StatusBadRequest, oastype.CodeRequired, "/query/limit"},
		{"integer mismatch", "limit=1.5", http.StatusBadRequest, oastype.CodeInvalidType, "/query/limit"},
		{"boolean mismatch", "limit=1&debug=yes", http.StatusBadRequest, oastype.CodeInvalidType, "/query/debug"},
		{"format mismatch", "limit=1&sku=abc", http.StatusBadRequest, oastype.CodeInvalidFormat, "/query/sku"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := QueryParams(Static(ev), params...)(okHandler(&called))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?"+tt.query, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code == "" {
				if !called {
					t.Fatalf("next handler not called")
				}
				return
			}
			if called {
				t.Fatalf("next handler must not run on rejection")
			}
			iss := decodeIssues(t, rec)
			if len(iss) != 1 || iss[0].Code != tt.code || iss[0].Path != tt.path {
				t.Fatalf("issues = %+v, want one %s at %s", iss, tt.code, tt.path)
			}
		})
	}
}

func TestQueryParams_DefectsAreServerErrors(t *testing.T) {
	ev := newEvaluator(t)
	tests := []struct {
		name  string
		param Param
		query string
		code  string
	}{
		{"unknown type", Param{Name: "q", Type: "text"}, "q=x", oastype.CodeInvalidSchema},
		{"unresolvable format", Param{Name: "p", Type: oastype.TypeString, Format: "phone"}, "p=%2B1", oastype.CodeFormatUnresolvable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := QueryParams(Static(ev), tt.param)(okHandler(&called))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			if iss := decodeIssues(t, rec); len(iss) != 1 || iss[0].Code != tt.code {
				t.Fatalf("issues = %+v, want %s", iss, tt.code)
			}
		})
	}
}

func TestCollectQueryParams(t *testing.T) {
	ev := newEvaluator(t)
	var got oastype.Issues
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IssuesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := CollectQueryParams(Static(ev),
		Param{Name: "limit", Type: oastype.TypeInteger},
		Param{Name: "ratio", Type: oastype.TypeNumber},
	)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=x&ratio=abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(got) != 2 {
		t.Fatalf("expected two collected issues, got %+v", got)
	}

	got = nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=3&ratio=%201e3%20", nil))
	if got != nil {
		t.Fatalf("valid request should carry no issues: %+v", got)
	}
}
