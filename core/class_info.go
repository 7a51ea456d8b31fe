package core

// MemberKind discriminates the member descriptor variants that a
// class can declare in its static metadata.
type MemberKind int8

const (
	// MemberKindProperty declares a named property member backed by
	// a value container of the descriptor's type Uid.
	MemberKindProperty MemberKind = iota
	// MemberKindEvent declares a named multicast event member.
	MemberKindEvent
	// MemberKindFunction declares a named invocable function member.
	MemberKindFunction
)

func (k MemberKind) String() string {
	switch k {
	case MemberKindProperty:
		return "property"
	case MemberKindEvent:
		return "event"
	case MemberKindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// MemberDesc is the static description of a single named member of
// an interface. Interfaces declare member descriptor slices and a
// concrete class aggregates the descriptors of every interface it
// implements.
type MemberDesc struct {
	// Kind selects which member variant this descriptor declares.
	Kind MemberKind
	// Name is the case-sensitive member name used for runtime lookup.
	Name string
	// TypeUid identifies the value type for property members.
	// It is NilUid for events and functions.
	TypeUid Uid
	// Default holds the encoded default value bytes for property
	// members, or nil for the type's zero value.
	Default []byte
	// Bind optionally carries a bound trampoline for function
	// members. The metadata container asserts the concrete callback
	// type when materialising the member and binds it with the
	// owning object as context.
	Bind any
}

// ClassInfo is the static description of a concrete class: its
// class Uid, human-readable name and aggregated member descriptors.
type ClassInfo struct {
	Uid     Uid
	Name    string
	Members []MemberDesc
}

// ObjectFlags is a bitfield supplied at object creation.
type ObjectFlags uint32

const (
	// FlagNone requests default object behaviour.
	FlagNone ObjectFlags = 0
	// FlagReadOnly creates the object in a read-only state. Mutating
	// operations on read-only objects fail without side effects.
	FlagReadOnly ObjectFlags = 1
)

// ReadOnly reports whether the read-only bit is set.
func (f ObjectFlags) ReadOnly() bool {
	return f&FlagReadOnly != 0
}
