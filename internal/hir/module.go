package hir

// Module represents one type-checked module as carried by a snapshot.
type Module struct {
	Name  string
	Path  string
	Funcs []*Func
}
