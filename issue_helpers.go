package oastype

import (
	"errors"

	"github.com/reoring/oastype/i18n"
)

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// IssueFrom converts an evaluator error into an Issue located at path. ok is
// false when err is nil or not one of the evaluator's error kinds.
func IssueFrom(path string, err error) (Issue, bool) {
	if err == nil {
		return Issue{}, false
	}
	var (
		unknown      *UnknownTypeError
		mismatch     *TypeMismatchError
		format       *FormatMismatchError
		unresolvable *FormatUnresolvableError
	)
	switch {
	case errors.As(err, &mismatch):
		return newIssue(path, CodeInvalidType, err, "", map[string]any{
			"type": string(mismatch.Type), "got": describe(mismatch.Value),
		}), true
	case errors.As(err, &format):
		return newIssue(path, CodeInvalidFormat, err, format.Format, map[string]any{
			"type": string(format.Type), "format": format.Format, "got": describe(format.Value),
		}), true
	case errors.As(err, &unknown):
		return newIssue(path, CodeInvalidSchema, err, "", map[string]any{
			"type": string(unknown.Type),
		}), true
	case errors.As(err, &unresolvable):
		return newIssue(path, CodeFormatUnresolvable, err, unresolvable.Format, map[string]any{
			"type": string(unresolvable.Type), "format": unresolvable.Format,
		}), true
	}
	return Issue{}, false
}

func newIssue(path, code string, cause error, hint string, params map[string]any) Issue {
	data := make(map[string]string, 2)
	for _, k := range []string{"type", "format"} {
		if s, ok := params[k].(string); ok {
			data[k] = s
		}
	}
	if path == "" {
		path = "/"
	}
	return Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, data),
		Hint:    hint,
		Cause:   cause,
		Params:  params,
	}
}
