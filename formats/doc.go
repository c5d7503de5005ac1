// Package formats is the type-scoped format validator registry.
//
// A Registry maps a (type, format name) pair to an Entry. An Entry is either a
// predicate (Func) or the identifier of a validator resolved through a Loader
// on first use (Deferred). Format names only have meaning inside their type's
// namespace: "date-time" registered for "string" says nothing about "number".
//
// Typical setup:
//
//	r := formats.Default(formats.WithLoader(formats.Catalog{
//		"e164": func() formats.Predicate { return isE164 },
//	}))
//	r.MustRegister("string", "phone", formats.Deferred("e164"))
//	r.Freeze()
//
// Registries are populated once at startup; Freeze seals them.
package formats
