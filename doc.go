package oastype

// Package oastype evaluates the OpenAPI/JSON Schema "type" and "format"
// keywords for a single value.
//
// - Type matching over the six primitive types with a relaxation for values
//   that arrive as text: "true", "42" and "3.14" satisfy boolean, integer and
//   number. Nothing is coerced into string, and object/array never coerce.
// - Format checks delegated to a type-scoped registry (package formats), where
//   unregistered formats pass and unloadable validators fail hard.
// - A typed error per failure kind plus the Issue/Issues error model for
//   aggregation by the surrounding validator.
// - Diagnostics for accepted coercions, returned by Evaluate and forwarded to
//   an optional Sink by Validate.
//
// Design policy:
// - Keep the evaluator in the root package; registry, sinks, metrics and the
//   HTTP middleware live in sub-packages.
// - The evaluator reads only its inputs and a frozen registry, so it is safe to
//   share across goroutines.
//
// Typical usage:
//
//  ev := oastype.New(formats.Default(), oastype.WithSink(logsink.New(logger)))
//  if err := ev.Validate(v, oastype.TypeString, "date-time"); err != nil {
//      iss, _ := oastype.IssueFrom("/createdAt", err)
//      ...
//  }
//
//  res := ev.Evaluate(oastype.Check{Path: "/flag", Value: "TRUE", Type: oastype.TypeBoolean})
//  // res.Err == nil, len(res.Diagnostics) == 1
//
