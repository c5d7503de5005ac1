// Package middleware validates HTTP query parameters against declared
// (type, format) pairs. Query parameters always arrive as text, which is
// exactly where the boolean/integer/number coercion rules apply.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/i18n"
)

// Param declares one query parameter.
type Param struct {
	Name     string
	Type     oastype.Type
	Format   string
	Required bool
}

// ctxKeyIssues is a typed context key for Issues collected on a request.
type ctxKeyIssues struct{}

// ContextWithIssues attaches Issues to the context.
func ContextWithIssues(ctx context.Context, iss oastype.Issues) context.Context {
	return context.WithValue(ctx, ctxKeyIssues{}, iss)
}

// IssuesFromContext retrieves Issues stored by ContextWithIssues.
func IssuesFromContext(ctx context.Context) (oastype.Issues, bool) {
	v, ok := ctx.Value(ctxKeyIssues{}).(oastype.Issues)
	return v, ok
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []oastype.Issue) map[string]any {
	return map[string]any{"issues": issues}
}

// EvaluatorSource yields the Evaluator to use for a request. A function lets
// callers plug in a hot-reloaded evaluator.
type EvaluatorSource func() *oastype.Evaluator

// Static returns an EvaluatorSource that always yields ev.
func Static(ev *oastype.Evaluator) EvaluatorSource { return func() *oastype.Evaluator { return ev } }

// QueryParams validates the declared query parameters before calling next.
//
// Data errors (missing required parameter, type or format mismatch) produce a
// 400 response with {"issues": [...]}. Schema and deployment errors (unknown
// declared type, unloadable format validator) produce a 500 response, since
// no client request can fix them.
func QueryParams(src EvaluatorSource, params ...Param) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, defects := CheckQuery(src(), r, params...)
			switch {
			case len(defects) > 0:
				writeJSON(w, http.StatusInternalServerError, ErrorPayload(defects))
			case len(data) > 0:
				writeJSON(w, http.StatusBadRequest, ErrorPayload(data))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// CollectQueryParams is like QueryParams but hands data errors to next via
// IssuesFromContext instead of rejecting the request. Defects still fail with
// a 500 response.
func CollectQueryParams(src EvaluatorSource, params ...Param) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, defects := CheckQuery(src(), r, params...)
			if len(defects) > 0 {
				writeJSON(w, http.StatusInternalServerError, ErrorPayload(defects))
				return
			}
			if len(data) > 0 {
				r = r.WithContext(ContextWithIssues(r.Context(), data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CheckQuery validates the declared parameters of r and splits the result into
// data issues and schema/deployment defects.
func CheckQuery(ev *oastype.Evaluator, r *http.Request, params ...Param) (data, defects oastype.Issues) {
	q := r.URL.Query()
	root := oastype.Root().Field("query")
	for _, p := range params {
		path := root.Field(p.Name)
		values, present := q[p.Name]
		if !present {
			if p.Required {
				data = append(data, oastype.IssueAt(path, oastype.CodeRequired, i18n.T(oastype.CodeRequired, nil), map[string]any{"name": p.Name}))
			}
			continue
		}
		var v any = values[0]
		if p.Type == oastype.TypeArray {
			v = values
		}
		err := ev.ValidateAt(path.Pointer(), v, p.Type, p.Format)
		if err == nil {
			continue
		}
		iss, ok := path.Issue(err)
		if !ok {
			iss = oastype.Issue{Path: path.Pointer(), Code: oastype.CodeInvalidSchema, Message: err.Error(), Cause: err}
		}
		if oastype.IsDataError(err) {
			data = append(data, iss)
		} else {
			defects = append(defects, iss)
		}
	}
	return data, defects
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) { writeJSON(w, status, v) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
