package sema

import (
	"slices"
	"strconv"
	"strings"

	"sable/internal/symbols"
	"sable/internal/types"
)

// instanceKey is a comparable key for resolved instances.
//
// Go maps cannot use slices as keys, so type arguments and environment
// bounds are folded into stable strings.
type instanceKey struct {
	Member  symbols.SymbolID
	ArgsKey string
	EnvKey  string
}

type instanceEntry struct {
	inst      Instance
	ambiguous bool

	// Raw key components, kept so the codec can round-trip the table
	// without parsing the folded key strings back.
	member symbols.SymbolID
	args   []types.TypeID
	env    ParamEnv
}

// InstanceTable stores the front-end's instance-resolution results: for a
// contract member and concrete type arguments, which implementation body
// runs. Resolution here is a pure lookup; missing and ambiguous entries
// both answer "no result".
type InstanceTable struct {
	entries map[instanceKey]instanceEntry
}

// NewInstanceTable creates an empty table.
func NewInstanceTable() *InstanceTable {
	return &InstanceTable{entries: make(map[instanceKey]instanceEntry)}
}

// Put records the resolved implementation for (member, args, env).
// Recording a second, different implementation for the same key marks the
// entry ambiguous and it stops resolving.
func (t *InstanceTable) Put(member symbols.SymbolID, args []types.TypeID, env ParamEnv, inst Instance) {
	key := instanceKey{Member: member, ArgsKey: typeArgsKey(args), EnvKey: envKey(env)}
	if prev, ok := t.entries[key]; ok {
		if prev.ambiguous || prev.inst.Impl != inst.Impl || !slices.Equal(prev.inst.TypeArgs, inst.TypeArgs) {
			t.entries[key] = instanceEntry{ambiguous: true, member: member, args: slices.Clone(args), env: env}
		}
		return
	}
	t.entries[key] = instanceEntry{inst: inst, member: member, args: slices.Clone(args), env: env}
}

// MarkAmbiguous records that resolution for the key has no single answer.
func (t *InstanceTable) MarkAmbiguous(member symbols.SymbolID, args []types.TypeID, env ParamEnv) {
	key := instanceKey{Member: member, ArgsKey: typeArgsKey(args), EnvKey: envKey(env)}
	t.entries[key] = instanceEntry{ambiguous: true, member: member, args: slices.Clone(args), env: env}
}

// Resolve returns the single implementation recorded for the key, or
// (Instance{}, false) when the entry is missing or ambiguous.
func (t *InstanceTable) Resolve(member symbols.SymbolID, args []types.TypeID, env ParamEnv) (Instance, bool) {
	if t == nil {
		return Instance{}, false
	}
	key := instanceKey{Member: member, ArgsKey: typeArgsKey(args), EnvKey: envKey(env)}
	entry, ok := t.entries[key]
	if !ok || entry.ambiguous {
		return Instance{}, false
	}
	return entry.inst, true
}

// Len reports the number of stored entries, ambiguous ones included.
func (t *InstanceTable) Len() int {
	return len(t.entries)
}

// InstanceRecord is one table entry in export form.
type InstanceRecord struct {
	Member    symbols.SymbolID
	Args      []types.TypeID
	Env       ParamEnv
	Inst      Instance
	Ambiguous bool
}

// Export returns all entries for serialization. Order is unspecified; the
// codec does not depend on it.
func (t *InstanceTable) Export() []InstanceRecord {
	out := make([]InstanceRecord, 0, len(t.entries))
	for _, entry := range t.entries {
		out = append(out, InstanceRecord{
			Member:    entry.member,
			Args:      entry.args,
			Env:       entry.env,
			Inst:      entry.inst,
			Ambiguous: entry.ambiguous,
		})
	}
	return out
}

func typeArgsKey(args []types.TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return b.String()
}

func envKey(env ParamEnv) string {
	if len(env.Bounds) == 0 {
		return ""
	}
	var b strings.Builder
	for i, bound := range env.Bounds {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(bound.Param), 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(bound.Contract), 10))
	}
	return b.String()
}
