package lint

import (
	"sable/internal/diag"
	"sable/internal/hir"
	"sable/internal/sema"
	"sable/internal/source"
	"sable/internal/types"
)

// Pass is one lint rule. Name is the stable identity used by @allow
// attributes and manifest allow/deny lists; Code is the diagnostic code
// the pass reports under.
type Pass interface {
	Name() string
	Code() diag.Code
	CheckExpr(ctx *Context, e *hir.Expr)
}

// Context carries the read-only inputs of a run. One Context is shared
// across all passes and all walkers; nothing in it may be mutated after
// the run starts except through the Reporter.
type Context struct {
	Oracle   sema.Oracle
	Types    *types.Interner
	Files    *source.FileSet // for fix guards and excerpts; may be nil
	Catalog  *Catalog
	Reporter diag.Reporter
}

var registry []Pass

// Register adds a pass to the global registry. Called from init; a
// duplicate name panics because it would make suppression ambiguous.
func Register(p Pass) {
	for _, other := range registry {
		if other.Name() == p.Name() {
			panic("lint: duplicate pass name " + p.Name())
		}
	}
	registry = append(registry, p)
}

// Passes returns the registered passes in registration order.
func Passes() []Pass {
	out := make([]Pass, len(registry))
	copy(out, registry)
	return out
}

// LookupPass finds a registered pass by name. Used to validate manifest
// allow/deny lists against names that actually exist.
func LookupPass(name string) (Pass, bool) {
	for _, p := range registry {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
