// Package sema holds the read-only semantic artifact the lint stage
// consumes: the Snapshot a front-end emitted after full type checking,
// and the Oracle capability lint passes query it through.
//
// Nothing in this package computes types. The snapshot's per-node tables
// were filled by the type checker before the artifact was written; this
// package only decodes, stores and answers lookups against them. All
// queries are pure reads, which is what makes the lint runner safe to
// parallelize across functions.
package sema
