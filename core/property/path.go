package property

import (
	"reflect"
	"strings"
)

// Path is the structural address of a data field. Paths are immutable values;
// the zero Path is invalid and rejected by every lookup.
type Path struct {
	name   string
	parent *Path
	typ    reflect.Type
}

// NewPath creates a root path with the given name and type. The type may be nil
// when the caller does not know it.
func NewPath(name string, typ reflect.Type) Path {
	return Path{name: name, typ: typ}
}

// PathOf creates a root path typed with T.
func PathOf[T any](name string) Path {
	return NewPath(name, reflect.TypeFor[T]())
}

// ParsePath parses a dot separated path expression ("a.b.c"). Empty segments
// are dropped, so a blank expression yields the zero Path.
func ParsePath(expr string) Path {
	var p Path
	for _, segment := range strings.Split(expr, ".") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if p.IsZero() {
			p = NewPath(segment, nil)
			continue
		}
		p = p.Child(segment, nil)
	}
	return p
}

// Child returns a path nested under p.
func (p Path) Child(name string, typ reflect.Type) Path {
	parent := p
	return Path{name: name, parent: &parent, typ: typ}
}

// WithType returns a copy of p declaring typ.
func (p Path) WithType(typ reflect.Type) Path {
	p.typ = typ
	return p
}

// Name returns the last segment of the path.
func (p Path) Name() string {
	return p.name
}

// Type returns the declared type, nil when unknown.
func (p Path) Type() reflect.Type {
	return p.typ
}

// Parent returns the enclosing path, if any.
func (p Path) Parent() (Path, bool) {
	if p.parent == nil {
		return Path{}, false
	}
	return *p.parent, true
}

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool {
	return p.name == ""
}

// Segments returns the path names from the root to p.
func (p Path) Segments() []string {
	var out []string
	for cur := &p; cur != nil; cur = cur.parent {
		out = append(out, cur.name)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// FullName returns the dot joined path expression.
func (p Path) FullName() string {
	if p.parent == nil {
		return p.name
	}
	return strings.Join(p.Segments(), ".")
}

// Equal reports structural equality: same full name and, when both declare
// one, the same type.
func (p Path) Equal(other Path) bool {
	if p.FullName() != other.FullName() {
		return false
	}
	if p.typ != nil && other.typ != nil {
		return p.typ == other.typ
	}
	return true
}

func (p Path) String() string {
	return p.FullName()
}

// key identifies a path in the adapter memo.
func (p Path) key() string {
	return p.FullName() + "\x00" + typeName(p.typ)
}
