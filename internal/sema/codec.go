package sema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"sable/internal/hir"
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

// SnapshotExt is the extension of serialized snapshot artifacts.
const SnapshotExt = ".sbx"

// SchemaVersion guards the wire format. Increment on any wirePayload change.
const SchemaVersion uint16 = 1

// ErrSchema signals a snapshot written with a different schema version.
var ErrSchema = errors.New("snapshot schema version mismatch")

// ErrCorrupt signals a snapshot whose payload cannot be decoded or
// whose tables are internally inconsistent.
var ErrCorrupt = errors.New("snapshot payload is corrupt")

// wirePayload is the flat disk image of a Snapshot. HIR payloads hide
// behind an interface in memory, so expressions are re-encoded as a
// self-describing tree of wireExpr nodes.
type wirePayload struct {
	Schema uint16

	ModuleName string
	ModulePath string

	Strings []string
	Files   []wireFile

	Types types.Dump

	Symbols []symbols.Symbol
	Tags    []symbols.TagDump

	Funcs []wireFunc

	ExprTypes    map[uint32]uint32
	ExprAdjusted map[uint32]uint32
	CallTargets  map[uint32]wireCallTarget
	CallTypeArgs map[uint32][]uint32

	Instances []wireInstance
}

type wireFile struct {
	Path    string
	Content []byte
	Flags   uint8
}

type wireCallTarget struct {
	Contract uint32
	Member   uint32
	Bounds   []wireBound
}

type wireBound struct {
	Param    uint32
	Contract uint32
}

type wireInstance struct {
	Member    uint32
	Args      []uint32
	Bounds    []wireBound
	Impl      uint32
	ImplArgs  []uint32
	Ambiguous bool
}

type wireFunc struct {
	Name       string
	Symbol     uint32
	Flags      uint32
	Attrs      []wireAttr
	TypeParams []uint32
	Params     []wireParam
	Result     uint32
	Span       source.Span
	Body       *wireBlock
}

type wireAttr struct {
	Name string
	Args []string
	Span source.Span
}

type wireParam struct {
	Name   string
	Symbol uint32
	Type   uint32
	Span   source.Span
}

type wireBlock struct {
	Stmts []wireStmt
	Value *wireExpr
	Span  source.Span
}

type wireStmt struct {
	Kind   uint8
	Span   source.Span
	Name   string
	Symbol uint32
	Type   uint32
	A      *wireExpr // let value / expr / assign target / return value
	B      *wireExpr // assign value
}

// wireExpr flattens every ExprData payload into one struct. Kids carries
// children in a kind-specific order: MethodCall stores the receiver first,
// then the arguments; If stores cond, then, else.
type wireExpr struct {
	Kind       uint8
	ID         uint32
	Type       uint32
	Span       source.Span
	Text       string // literal text, var/callee/method/field name, op
	LitKind    uint8
	Symbol     uint32
	MethodSpan source.Span
	Target     uint32 // cast target type
	HasElse    bool
	Kids       []*wireExpr
	Block      *wireBlock
}

// EncodeSnapshot writes the snapshot to w in msgpack form.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	payload, err := flattenSnapshot(snap)
	if err != nil {
		return err
	}
	return encodePayload(w, payload)
}

func encodePayload(w io.Writer, payload *wirePayload) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads one snapshot from r, rejecting foreign schemas.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var payload wirePayload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if payload.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, payload.Schema, SchemaVersion)
	}
	snap, err := rebuildSnapshot(&payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return snap, nil
}

// WriteSnapshotFile serializes the snapshot to path atomically: the
// payload lands in a temp file first and replaces the target by rename.
func WriteSnapshotFile(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := EncodeSnapshot(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSnapshotFile loads one snapshot artifact from disk.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeSnapshot(f)
}

func flattenSnapshot(snap *Snapshot) (*wirePayload, error) {
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	payload := &wirePayload{
		Schema:       SchemaVersion,
		ModuleName:   snap.ModuleName,
		ModulePath:   snap.ModulePath,
		Strings:      snap.Strings.Strings(),
		Types:        snap.Types.Export(),
		ExprTypes:    make(map[uint32]uint32, len(snap.ExprTypes)),
		ExprAdjusted: make(map[uint32]uint32, len(snap.ExprAdjusted)),
		CallTargets:  make(map[uint32]wireCallTarget, len(snap.CallTargets)),
		CallTypeArgs: make(map[uint32][]uint32, len(snap.CallTypeArgs)),
	}

	for _, f := range snap.Files.Files() {
		payload.Files = append(payload.Files, wireFile{
			Path:    f.Path,
			Content: f.Content,
			Flags:   uint8(f.Flags),
		})
	}

	payload.Symbols, payload.Tags = snap.Symbols.Export()

	if snap.Module != nil {
		for _, fn := range snap.Module.Funcs {
			payload.Funcs = append(payload.Funcs, flattenFunc(fn))
		}
	}

	for id, ty := range snap.ExprTypes {
		payload.ExprTypes[uint32(id)] = uint32(ty)
	}
	for id, ty := range snap.ExprAdjusted {
		payload.ExprAdjusted[uint32(id)] = uint32(ty)
	}
	for id, target := range snap.CallTargets {
		payload.CallTargets[uint32(id)] = wireCallTarget{
			Contract: uint32(target.Contract),
			Member:   uint32(target.Member),
			Bounds:   flattenBounds(target.Env),
		}
	}
	for id, args := range snap.CallTypeArgs {
		payload.CallTypeArgs[uint32(id)] = typeIDsToWire(args)
	}

	for _, rec := range snap.Instances.Export() {
		wi := wireInstance{
			Member:    uint32(rec.Member),
			Args:      typeIDsToWire(rec.Args),
			Bounds:    flattenBounds(rec.Env),
			Ambiguous: rec.Ambiguous,
		}
		if !rec.Ambiguous {
			wi.Impl = uint32(rec.Inst.Impl)
			wi.ImplArgs = typeIDsToWire(rec.Inst.TypeArgs)
		}
		payload.Instances = append(payload.Instances, wi)
	}

	return payload, nil
}

func rebuildSnapshot(payload *wirePayload) (*Snapshot, error) {
	strings := source.Restore(payload.Strings)
	snap := &Snapshot{
		ModuleName:   payload.ModuleName,
		ModulePath:   payload.ModulePath,
		Files:        source.NewFileSet(),
		Strings:      strings,
		Types:        types.Import(payload.Types, strings),
		Symbols:      symbols.ImportTable(payload.Symbols, payload.Tags),
		Module:       &hir.Module{Name: payload.ModuleName, Path: payload.ModulePath},
		ExprTypes:    make(map[hir.NodeID]types.TypeID, len(payload.ExprTypes)),
		ExprAdjusted: make(map[hir.NodeID]types.TypeID, len(payload.ExprAdjusted)),
		CallTargets:  make(map[hir.NodeID]CallTarget, len(payload.CallTargets)),
		CallTypeArgs: make(map[hir.NodeID][]types.TypeID, len(payload.CallTypeArgs)),
		Instances:    NewInstanceTable(),
	}

	for _, wf := range payload.Files {
		snap.Files.Add(wf.Path, wf.Content, source.FileFlags(wf.Flags))
	}

	for i := range payload.Funcs {
		fn, err := rebuildFunc(&payload.Funcs[i])
		if err != nil {
			return nil, err
		}
		snap.Module.Funcs = append(snap.Module.Funcs, fn)
	}

	for id, ty := range payload.ExprTypes {
		snap.ExprTypes[hir.NodeID(id)] = types.TypeID(ty)
	}
	for id, ty := range payload.ExprAdjusted {
		snap.ExprAdjusted[hir.NodeID(id)] = types.TypeID(ty)
	}
	for id, target := range payload.CallTargets {
		snap.CallTargets[hir.NodeID(id)] = CallTarget{
			Contract: symbols.SymbolID(target.Contract),
			Member:   symbols.SymbolID(target.Member),
			Env:      rebuildEnv(target.Bounds),
		}
	}
	for id, args := range payload.CallTypeArgs {
		snap.CallTypeArgs[hir.NodeID(id)] = typeIDsFromWire(args)
	}

	for _, wi := range payload.Instances {
		member := symbols.SymbolID(wi.Member)
		args := typeIDsFromWire(wi.Args)
		env := rebuildEnv(wi.Bounds)
		if wi.Ambiguous {
			snap.Instances.MarkAmbiguous(member, args, env)
			continue
		}
		snap.Instances.Put(member, args, env, Instance{
			Impl:     symbols.SymbolID(wi.Impl),
			TypeArgs: typeIDsFromWire(wi.ImplArgs),
		})
	}

	return snap, nil
}

func flattenBounds(env ParamEnv) []wireBound {
	if len(env.Bounds) == 0 {
		return nil
	}
	out := make([]wireBound, len(env.Bounds))
	for i, b := range env.Bounds {
		out[i] = wireBound{Param: uint32(b.Param), Contract: uint32(b.Contract)}
	}
	return out
}

func rebuildEnv(bounds []wireBound) ParamEnv {
	if len(bounds) == 0 {
		return ParamEnv{}
	}
	env := ParamEnv{Bounds: make([]Bound, len(bounds))}
	for i, b := range bounds {
		env.Bounds[i] = Bound{Param: types.TypeID(b.Param), Contract: symbols.SymbolID(b.Contract)}
	}
	return env
}

func typeIDsToWire(ids []types.TypeID) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

func typeIDsFromWire(ids []uint32) []types.TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = types.TypeID(id)
	}
	return out
}
