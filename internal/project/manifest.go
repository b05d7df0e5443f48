package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"sable/internal/lint"
)

// Manifest is a parsed sable.toml.
type Manifest struct {
	Package PackageSection
	Lint    LintSection
}

// PackageSection is the [package] table.
type PackageSection struct {
	Name string `toml:"name"`
}

// LintSection is the [lint] table: pass selection plus extra no-op
// catalog entries from [[lint.noop]].
type LintSection struct {
	Allow            []string    `toml:"allow"`
	Deny             []string    `toml:"deny"`
	WarningsAsErrors bool        `toml:"warnings_as_errors"`
	Noop             []NoopEntry `toml:"noop"`
}

// NoopEntry is one [[lint.noop]] table extending the built-in catalog.
type NoopEntry struct {
	ContractTag string `toml:"contract_tag"`
	ImplTag     string `toml:"impl_tag"`
	PeelRef     bool   `toml:"peel_ref"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

type manifestFile struct {
	Package PackageSection `toml:"package"`
	Lint    LintSection    `toml:"lint"`
}

// Load parses a sable.toml manifest and validates it against the lint
// registry, so a typo in an allow/deny list fails at load time rather
// than silently disabling a pass.
func Load(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	m := Manifest{
		Package: PackageSection{Name: name},
		Lint:    cfg.Lint,
	}
	if err := m.validate(path); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m *Manifest) validate(path string) error {
	for _, name := range append(append([]string{}, m.Lint.Allow...), m.Lint.Deny...) {
		if _, ok := lint.LookupPass(name); !ok {
			return fmt.Errorf("%s: %s: unknown lint %q", path, diagUnknownLintHint, name)
		}
	}
	for i, entry := range m.Lint.Noop {
		if entry.ContractTag == "" || entry.ImplTag == "" {
			return fmt.Errorf("%s: [[lint.noop]] entry %d needs contract_tag and impl_tag", path, i+1)
		}
	}
	return nil
}

const diagUnknownLintHint = "check [lint] allow/deny"

// Catalog builds the no-op catalog: the built-in entries plus every
// [[lint.noop]] table.
func (m *Manifest) Catalog() *lint.Catalog {
	c := lint.DefaultCatalog()
	for _, entry := range m.Lint.Noop {
		c.Add(entry.ContractTag, entry.ImplTag, entry.PeelRef)
	}
	return c
}

// LintConfig converts the manifest's [lint] section into a runner config.
func (m *Manifest) LintConfig() lint.Config {
	return lint.Config{
		Allow:   m.Lint.Allow,
		Deny:    m.Lint.Deny,
		Catalog: m.Catalog(),
	}
}
