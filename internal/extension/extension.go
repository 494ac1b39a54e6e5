// Package extension detects which PHP runtime extensions a source tree references.
//
// An Extension is an immutable descriptor of one runtime module and the class,
// constant and function names it contributes. The Scanner walks a tree of source
// files and reports every extension that has at least one of its symbols
// referenced as a whole word in some file.
package extension

// Extension describes one runtime module and the symbols it contributes.
// Values are immutable once built; use New to construct them.
type Extension struct {
	name      string
	core      bool
	classes   []string
	constants []string
	functions []string
}

// New creates an extension descriptor. The symbol slices are copied.
func New(name string, core bool, classes, constants, functions []string) *Extension {
	return &Extension{
		name:      name,
		core:      core,
		classes:   cloneStrings(classes),
		constants: cloneStrings(constants),
		functions: cloneStrings(functions),
	}
}

// Name returns the extension name as reported by the runtime.
func (e *Extension) Name() string {
	return e.name
}

// IsCore reports whether the extension is part of the always-available set.
func (e *Extension) IsCore() bool {
	return e.core
}

// Classes returns the class names contributed by the extension.
func (e *Extension) Classes() []string {
	return cloneStrings(e.classes)
}

// Constants returns the constant names contributed by the extension.
func (e *Extension) Constants() []string {
	return cloneStrings(e.constants)
}

// Functions returns the function names contributed by the extension.
func (e *Extension) Functions() []string {
	return cloneStrings(e.functions)
}

// SymbolCount returns the total number of symbols across all categories.
func (e *Extension) SymbolCount() int {
	return len(e.classes) + len(e.constants) + len(e.functions)
}

// symbolGroups returns the symbol categories in matching order: classes,
// constants, then functions. The returned slices must not be modified.
func (e *Extension) symbolGroups() [3][]string {
	return [3][]string{e.classes, e.constants, e.functions}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
