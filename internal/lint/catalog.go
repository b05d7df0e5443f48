package lint

import (
	"sable/internal/sema"
	"sable/internal/symbols"
)

// noopEntry describes one catalogued no-op implementation path. The
// contract tag allow-lists the contract, the impl tag names the one
// implementation of it that provably returns its receiver unchanged,
// and PeelRef selects whether the comparison strips one reference layer
// off the receiver type first.
type noopEntry struct {
	ContractTag string
	ImplTag     string
	PeelRef     bool
}

// Catalog is the data-driven allow-list the no-op pass consults.
// Keeping it as data rather than a conditional chain means new
// contracts are a manifest entry away, not a code change.
type Catalog struct {
	entries []noopEntry
}

// DefaultCatalog returns the built-in entries.
//
// Only the duplication contract is wired today. The dereference and
// borrowing contracts are intended future entries once their blanket
// paths carry tags the checker exports.
func DefaultCatalog() *Catalog {
	c := &Catalog{}
	c.Add("dup_contract", "noop_dup_ref", false)
	return c
}

// Add appends an entry. Used by DefaultCatalog and by manifest
// [[lint.noop]] tables.
func (c *Catalog) Add(contractTag, implTag string, peelRef bool) {
	c.entries = append(c.entries, noopEntry{
		ContractTag: contractTag,
		ImplTag:     implTag,
		PeelRef:     peelRef,
	})
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// AllowsContract reports whether the contract carries any catalogued
// contract tag.
func (c *Catalog) AllowsContract(o sema.Oracle, contract symbols.SymbolID) bool {
	for _, e := range c.entries {
		if o.IsTagged(contract, e.ContractTag) {
			return true
		}
	}
	return false
}

// Match finds the entry whose contract tag is on the contract and whose
// impl tag is on the resolved implementation. First match wins; entries
// are expected to be disjoint per contract.
func (c *Catalog) Match(o sema.Oracle, contract, impl symbols.SymbolID) (noopEntry, bool) {
	for _, e := range c.entries {
		if o.IsTagged(contract, e.ContractTag) && o.IsTagged(impl, e.ImplTag) {
			return e, true
		}
	}
	return noopEntry{}, false
}
