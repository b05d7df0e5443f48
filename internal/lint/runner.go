package lint

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sable/internal/diag"
	"sable/internal/hir"
	"sable/internal/sema"
)

// Config selects which passes run and how.
type Config struct {
	// Allow, when non-empty, restricts the run to exactly these passes.
	Allow []string
	// Deny removes passes from whatever Allow selected.
	Deny []string
	// Catalog overrides the built-in no-op catalog. Nil means default.
	Catalog *Catalog
	// Jobs caps parallel function walkers. Values below 2 run
	// sequentially; 0 means one walker per CPU.
	Jobs int
}

// SelectPasses resolves a Config's allow/deny lists against the
// registry. Unknown names are reported as errors so typos in a manifest
// do not silently disable a lint.
func SelectPasses(cfg Config) ([]Pass, error) {
	for _, name := range append(append([]string{}, cfg.Allow...), cfg.Deny...) {
		if _, ok := LookupPass(name); !ok {
			return nil, fmt.Errorf("unknown lint %q", name)
		}
	}
	denied := make(map[string]bool, len(cfg.Deny))
	for _, name := range cfg.Deny {
		denied[name] = true
	}
	allowed := make(map[string]bool, len(cfg.Allow))
	for _, name := range cfg.Allow {
		allowed[name] = true
	}
	var out []Pass
	for _, p := range Passes() {
		if len(cfg.Allow) > 0 && !allowed[p.Name()] {
			continue
		}
		if denied[p.Name()] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// RunModule walks every function body in the snapshot's module and
// invokes the configured passes on each expression. Functions are
// independent, so with Jobs > 1 they are walked in parallel; the
// reporter is then wrapped in a SyncReporter because the sink is the
// only shared mutable state in a run.
func RunModule(ctx context.Context, snap *sema.Snapshot, reporter diag.Reporter, cfg Config) error {
	passes, err := SelectPasses(cfg)
	if err != nil {
		return err
	}
	if len(passes) == 0 || snap.Module == nil {
		return nil
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	jobs := cfg.Jobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > 1 {
		reporter = diag.NewSyncReporter(reporter)
	}

	lctx := &Context{
		Oracle:   snap,
		Types:    snap.Types,
		Files:    snap.Files,
		Catalog:  catalog,
		Reporter: reporter,
	}

	if jobs <= 1 {
		for _, fn := range snap.Module.Funcs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			runFunc(lctx, passes, fn)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(snap.Module.Funcs)))
	for _, fn := range snap.Module.Funcs {
		fn := fn
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			runFunc(lctx, passes, fn)
			return nil
		})
	}
	return g.Wait()
}

func runFunc(lctx *Context, passes []Pass, fn *hir.Func) {
	enabled := passes[:0:0]
	for _, p := range passes {
		if fn.AllowsLint(p.Name()) {
			continue
		}
		enabled = append(enabled, p)
	}
	if len(enabled) == 0 {
		return
	}
	hir.WalkFunc(fn, func(e *hir.Expr) bool {
		for _, p := range enabled {
			p.CheckExpr(lctx, e)
		}
		return true
	})
}
