package lisp

import (
	"sort"
	"strings"

	"github.com/deosjr/flute/internal/debug"
)

const coreNS = "core"

// Namespace is a named global scope. Lookups that miss the root bindings
// fall back to the imported namespaces, one level deep.
type Namespace struct {
	Name    string
	root    map[Symbol]Term
	aliases map[string]*Namespace
	imports []*Namespace
}

func (ns *Namespace) Bind(name Symbol, value Term) {
	ns.root[name] = value
}

// Lookup consults the root bindings only.
func (ns *Namespace) Lookup(name Symbol) (Term, bool) {
	v, ok := ns.root[name]
	return v, ok
}

func (ns *Namespace) resolve(name Symbol) (Term, bool) {
	if v, ok := ns.Lookup(name); ok {
		return v, true
	}
	for _, imp := range ns.imports {
		if v, ok := imp.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (ns *Namespace) Import(other *Namespace) {
	if other == ns {
		return
	}
	for _, imp := range ns.imports {
		if imp == other {
			return
		}
	}
	ns.imports = append(ns.imports, other)
}

func (ns *Namespace) Alias(alias string, other *Namespace) {
	ns.aliases[alias] = other
}

// Names returns the root binding names in sorted order.
func (ns *Namespace) Names() []Symbol {
	names := make([]Symbol, 0, len(ns.root))
	for name := range ns.root {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (ns *Namespace) qualify(name Symbol) Symbol {
	return Symbol(ns.Name + "/" + string(name))
}

// Registry owns every namespace of one evaluator.
type Registry struct {
	namespaces map[string]*Namespace
}

func NewRegistry() *Registry {
	r := &Registry{namespaces: map[string]*Namespace{}}
	r.Namespace(coreNS)
	return r
}

// Namespace returns the namespace called name, creating it on first use.
// New namespaces import core.
func (r *Registry) Namespace(name string) *Namespace {
	if ns, ok := r.namespaces[name]; ok {
		return ns
	}
	ns := &Namespace{
		Name:    name,
		root:    map[Symbol]Term{},
		aliases: map[string]*Namespace{},
	}
	if name != coreNS {
		ns.Import(r.Namespace(coreNS))
	}
	r.namespaces[name] = ns
	debug.Logf("created namespace %s", name)
	return ns
}

// Lookup returns an existing namespace without creating it.
func (r *Registry) Lookup(name string) (*Namespace, bool) {
	ns, ok := r.namespaces[name]
	return ns, ok
}

// splitQualified splits ns/name. The division symbol / is never split.
func splitQualified(name Symbol) (string, Symbol, bool) {
	s := string(name)
	i := strings.IndexByte(s, '/')
	if i <= 0 || i == len(s)-1 {
		return "", name, false
	}
	return s[:i], Symbol(s[i+1:]), true
}
