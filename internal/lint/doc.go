// Package lint runs advisory passes over a type-checked snapshot.
//
// Passes are stateless: everything they know about the program comes
// from the sema.Oracle queries and the read-only catalog in Context,
// and everything they produce leaves through the Reporter. That makes
// a pass a pure function of (expression, context), safe to invoke from
// parallel walkers as long as the sink serializes.
package lint
