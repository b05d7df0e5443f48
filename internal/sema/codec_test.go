package sema

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"sable/internal/hir"
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

func buildCodecFixture() *Snapshot {
	snap := NewSnapshot("demo")
	snap.ModulePath = "demo/main"

	content := []byte("let y = x.dup();\n")
	fileID := snap.Files.AddVirtual("main.sb", content)

	intID := snap.Types.Builtins().Int
	refInt := snap.Types.Intern(types.MakeReference(intID, false))

	contract := snap.Symbols.New(symbols.Symbol{Name: snap.Strings.Intern("Dup"), Kind: symbols.SymbolContract})
	member := snap.Symbols.New(symbols.Symbol{Name: snap.Strings.Intern("dup"), Kind: symbols.SymbolContractMethod, Owner: contract})
	impl := snap.Symbols.New(symbols.Symbol{Name: snap.Strings.Intern("dup"), Kind: symbols.SymbolImplMethod, Owner: contract, Flags: symbols.SymbolFlagBlanket})
	snap.Symbols.Tag(contract, snap.Strings.Intern("dup_contract"))
	snap.Symbols.Tag(impl, snap.Strings.Intern("noop_dup_ref"))

	recv := &hir.Expr{
		Kind: hir.ExprVarRef,
		ID:   2,
		Type: refInt,
		Span: source.Span{File: fileID, Start: 8, End: 9},
		Data: hir.VarRefData{Name: "x"},
	}
	call := &hir.Expr{
		Kind: hir.ExprMethodCall,
		ID:   1,
		Type: refInt,
		Span: source.Span{File: fileID, Start: 8, End: 15},
		Data: hir.MethodCallData{
			Method:     "dup",
			MethodSpan: source.Span{File: fileID, Start: 10, End: 13},
			Receiver:   recv,
		},
	}
	snap.Module.Funcs = append(snap.Module.Funcs, &hir.Func{
		Name:  "main",
		Attrs: []hir.Attr{{Name: "allow", Args: []string{"other_lint"}}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{{Kind: hir.StmtExpr, Data: hir.ExprStmtData{Expr: call}}},
		},
	})

	snap.ExprTypes[1] = refInt
	snap.ExprTypes[2] = refInt
	snap.CallTargets[1] = CallTarget{Contract: contract, Member: member}
	snap.CallTypeArgs[1] = []types.TypeID{intID}
	snap.Instances.Put(member, []types.TypeID{intID}, ParamEnv{}, Instance{Impl: impl, TypeArgs: []types.TypeID{intID}})
	return snap
}

func TestCodecRoundtrip(t *testing.T) {
	snap := buildCodecFixture()

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ModuleName != "demo" || got.ModulePath != "demo/main" {
		t.Fatalf("module identity lost: %q %q", got.ModuleName, got.ModulePath)
	}
	if got.Files.Len() != 1 {
		t.Fatalf("files lost: %d", got.Files.Len())
	}
	if len(got.Module.Funcs) != 1 {
		t.Fatalf("funcs lost: %d", len(got.Module.Funcs))
	}

	fn := got.Module.Funcs[0]
	if !fn.AllowsLint("other_lint") {
		t.Fatal("attrs lost in roundtrip")
	}
	stmt := fn.Body.Stmts[0]
	call := stmt.Data.(hir.ExprStmtData).Expr
	data, ok := call.Data.(hir.MethodCallData)
	if !ok || data.Method != "dup" || data.Receiver == nil {
		t.Fatalf("method call lost: %+v", call.Data)
	}
	if data.Receiver.Span != (source.Span{File: 0, Start: 8, End: 9}) {
		t.Fatalf("receiver span lost: %v", data.Receiver.Span)
	}

	// Oracle queries answer identically on the decoded snapshot.
	target, ok := got.TargetMember(1)
	if !ok {
		t.Fatal("call target lost")
	}
	if !got.IsTagged(target.Contract, "dup_contract") {
		t.Fatal("contract tag lost")
	}
	args := got.NodeTypeArgs(1)
	if len(args) != 1 {
		t.Fatalf("type args lost: %v", args)
	}
	inst, ok := got.ResolveInstance(target.Member, args, target.Env)
	if !ok {
		t.Fatal("instance resolution lost")
	}
	if !got.IsTagged(inst.Impl, "noop_dup_ref") {
		t.Fatal("impl tag lost")
	}
}

func TestCodecSchemaGuard(t *testing.T) {
	snap := NewSnapshot("m")
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Corrupt the payload by re-encoding with a bumped schema: simplest is
	// to flip the version byte in a fresh payload.
	payload, err := flattenSnapshot(snap)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	payload.Schema = SchemaVersion + 1
	buf.Reset()
	if err := encodePayload(&buf, payload); err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	if _, err := DecodeSnapshot(&buf); err == nil {
		t.Fatal("foreign schema must be rejected")
	}
}

func TestCodecCorruptPayload(t *testing.T) {
	_, err := DecodeSnapshot(bytes.NewReader([]byte("not msgpack")))
	if err == nil {
		t.Fatal("garbage payload must be rejected")
	}
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if errors.Is(err, ErrSchema) {
		t.Fatal("garbage payload must not look like a schema mismatch")
	}
}

func TestWriteReadSnapshotFile(t *testing.T) {
	snap := buildCodecFixture()
	path := filepath.Join(t.TempDir(), "demo"+SnapshotExt)

	if err := WriteSnapshotFile(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ModuleName != snap.ModuleName {
		t.Fatalf("module name = %q", got.ModuleName)
	}

	// Writing again replaces the artifact atomically.
	if err := WriteSnapshotFile(path, snap); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
}
