// Package types is Nail's type representation, shared
// as a leaf dependency by the stdlib registry, the checker, and the
// transpiler. It defines no checking logic of its own.
package types

// Type is any Nail type: a primitive, a collection, a named struct/enum, a
// result, a function signature, or a library-only any-of union.
type Type interface {
	String() string
	isType()
}

// Kind distinguishes the primitive types.
type Kind string

const (
	Int   Kind = "Int"
	Float Kind = "Float"
	Str   Kind = "String"
	Bool  Kind = "Bool"
	Void  Kind = "Void"
	Err   Kind = "Error"
)

// Primitive is one of Int, Float, String, Bool, Void, Error.
type Primitive struct {
	Kind Kind
}

func (p *Primitive) String() string { return string(p.Kind) }
func (*Primitive) isType()          {}

// Singleton primitive instances, so checker code can compare by identity
// or by Equal interchangeably.
var (
	TInt   = &Primitive{Kind: Int}
	TFloat = &Primitive{Kind: Float}
	TStr   = &Primitive{Kind: Str}
	TBool  = &Primitive{Kind: Bool}
	TVoid  = &Primitive{Kind: Void}
	TErr   = &Primitive{Kind: Err}
)

// Array is a homogeneous array of a concrete element type.
type Array struct {
	Elem Type
}

func (a *Array) String() string { return "a:" + a.Elem.String() }
func (*Array) isType()          {}

// HashMap maps a concrete key type to a concrete value type. Both Key and
// Value must be concrete.
type HashMap struct {
	Key   Type
	Value Type
}

func (h *HashMap) String() string { return "h:" + h.Key.String() + ":" + h.Value.String() }
func (*HashMap) isType()          {}

// Field is one named, typed field of a struct.
type Field struct {
	Name string
	Type Type
}

// Struct references a declared struct by name and carries its field list
// for field-access checking.
type Struct struct {
	Name   string
	Fields []Field
}

func (s *Struct) String() string { return s.Name }
func (*Struct) isType()          {}

// Enum references a declared enum by name and carries its variant list for
// exhaustiveness checking.
type Enum struct {
	Name     string
	Variants []string
}

func (e *Enum) String() string { return e.Name }
func (*Enum) isType()          {}

// Result is `T!e`: a value of Inner or an error message. Inner may be nil
// for an `err(..)` call whose success type is not yet known from context;
// such a result unifies with any other result.
type Result struct {
	Inner Type
}

func (r *Result) String() string {
	if r.Inner == nil {
		return "_!e"
	}
	return r.Inner.String() + "!e"
}
func (*Result) isType() {}

// Function is a declared function's signature.
type Function struct {
	Params []Type
	Return Type
}

func (f *Function) String() string {
	s := "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	ret := "v"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return s + ") -> " + ret
}
func (*Function) isType() {}

// AnyOf is a library-only union over two or more concrete alternatives; the
// source language has no user syntax for it — only stdlib registry entries
// declare any-of parameters.
type AnyOf struct {
	Alternatives []Type
}

func (a *AnyOf) String() string {
	s := "("
	for i, alt := range a.Alternatives {
		if i > 0 {
			s += " | "
		}
		s += alt.String()
	}
	return s + ")"
}
func (*AnyOf) isType() {}

// IsConcrete reports whether t is storable as an array element, a hashmap
// key/value, or a struct field.
func IsConcrete(t Type) bool {
	switch v := t.(type) {
	case *Primitive:
		return v.Kind != Void && v.Kind != Err
	case *Array:
		return IsConcrete(v.Elem)
	case *HashMap:
		return IsConcrete(v.Key) && IsConcrete(v.Value)
	case *Struct, *Enum:
		return true
	default:
		return false
	}
}

// Equal reports structural equality between two types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *Primitive:
		y, ok := b.(*Primitive)
		return ok && x.Kind == y.Kind
	case *Array:
		y, ok := b.(*Array)
		return ok && Equal(x.Elem, y.Elem)
	case *HashMap:
		y, ok := b.(*HashMap)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.Name == y.Name
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.Name == y.Name
	case *Result:
		y, ok := b.(*Result)
		if !ok {
			return false
		}
		if x.Inner == nil || y.Inner == nil {
			return true
		}
		return Equal(x.Inner, y.Inner)
	case *Function:
		y, ok := b.(*Function)
		if !ok || len(x.Params) != len(y.Params) || !Equal(x.Return, y.Return) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	case *AnyOf:
		y, ok := b.(*AnyOf)
		if !ok || len(x.Alternatives) != len(y.Alternatives) {
			return false
		}
		for i := range x.Alternatives {
			if !Equal(x.Alternatives[i], y.Alternatives[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AnyOfMatch returns the alternative of anyOf structurally equal to
// candidate, and whether one was found. The checker calls this to resolve
// which concrete alternative a call site chose for an any-of parameter and
// records the result on the call node.
func AnyOfMatch(anyOf *AnyOf, candidate Type) (Type, bool) {
	for _, alt := range anyOf.Alternatives {
		if Equal(alt, candidate) {
			return alt, true
		}
	}
	return nil, false
}
