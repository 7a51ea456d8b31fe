package value

import (
	"encoding/binary"
	"math"

	"github.com/velkstack/velk/core"
)

// TypeDesc describes how values of T move through the byte-level
// Any contract: the type's Uid, its encoded size (0 for
// variable-length types) and the codec pair. Descriptors for all
// built-in primitives are provided as package variables; user types
// supply their own.
type TypeDesc[T any] struct {
	Uid     core.Uid
	Name    string
	Size    int
	Aliases []core.Uid
	Encode  func(T) []byte
	Decode  func([]byte) (T, bool)
}

// CompatibleTypes returns the primary Uid followed by the aliases.
func (d TypeDesc[T]) CompatibleTypes() []core.Uid {
	types := make([]core.Uid, 0, 1+len(d.Aliases))
	types = append(types, d.Uid)
	return append(types, d.Aliases...)
}

// WithAliases returns a copy of the descriptor extended with
// additional compatible Uids.
func (d TypeDesc[T]) WithAliases(uids ...core.Uid) TypeDesc[T] {
	copied := d
	copied.Aliases = append(append([]core.Uid{}, d.Aliases...), uids...)
	return copied
}

// Get reads a typed value out of any compatible container.
func (d TypeDesc[T]) Get(a Any) (T, bool) {
	var zero T
	if !IsCompatible(a, d.Uid) {
		return zero, false
	}
	return d.Decode(a.Encoded())
}

// Set writes a typed value into any compatible container.
func (d TypeDesc[T]) Set(a Any, v T) core.ReturnValue {
	if a == nil {
		return core.InvalidArgument
	}
	return a.SetData(d.Encode(v), d.Uid)
}

func fixedDesc[T any](name string, size int, enc func(T) []byte, dec func([]byte) T) TypeDesc[T] {
	return TypeDesc[T]{
		Uid:    core.MakeHash(name),
		Name:   name,
		Size:   size,
		Encode: enc,
		Decode: func(data []byte) (T, bool) {
			var zero T
			if len(data) != size {
				return zero, false
			}
			return dec(data), true
		},
	}
}

// Built-in primitive descriptors. Byte patterns are little-endian
// fixed width for numeric types, a single byte for bool, raw bytes
// for strings and the big-endian 16-byte form for Uids.
var (
	Bool = fixedDesc[bool]("bool", 1,
		func(v bool) []byte {
			if v {
				return []byte{1}
			}
			return []byte{0}
		},
		func(data []byte) bool { return data[0] != 0 },
	)

	Int8 = fixedDesc[int8]("int8", 1,
		func(v int8) []byte { return []byte{byte(v)} },
		func(data []byte) int8 { return int8(data[0]) },
	)

	Int16 = fixedDesc[int16]("int16", 2,
		func(v int16) []byte {
			return binary.LittleEndian.AppendUint16(nil, uint16(v))
		},
		func(data []byte) int16 { return int16(binary.LittleEndian.Uint16(data)) },
	)

	Int32 = fixedDesc[int32]("int32", 4,
		func(v int32) []byte {
			return binary.LittleEndian.AppendUint32(nil, uint32(v))
		},
		func(data []byte) int32 { return int32(binary.LittleEndian.Uint32(data)) },
	)

	Int64 = fixedDesc[int64]("int64", 8,
		func(v int64) []byte {
			return binary.LittleEndian.AppendUint64(nil, uint64(v))
		},
		func(data []byte) int64 { return int64(binary.LittleEndian.Uint64(data)) },
	)

	Uint8 = fixedDesc[uint8]("uint8", 1,
		func(v uint8) []byte { return []byte{v} },
		func(data []byte) uint8 { return data[0] },
	)

	Uint16 = fixedDesc[uint16]("uint16", 2,
		func(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) },
		func(data []byte) uint16 { return binary.LittleEndian.Uint16(data) },
	)

	Uint32 = fixedDesc[uint32]("uint32", 4,
		func(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) },
		func(data []byte) uint32 { return binary.LittleEndian.Uint32(data) },
	)

	Uint64 = fixedDesc[uint64]("uint64", 8,
		func(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) },
		func(data []byte) uint64 { return binary.LittleEndian.Uint64(data) },
	)

	Float32 = fixedDesc[float32]("float32", 4,
		func(v float32) []byte {
			return binary.LittleEndian.AppendUint32(nil, math.Float32bits(v))
		},
		func(data []byte) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(data))
		},
	)

	Float64 = fixedDesc[float64]("float64", 8,
		func(v float64) []byte {
			return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
		},
		func(data []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(data))
		},
	)

	// String values are variable length; the byte pattern is the
	// raw UTF-8 bytes without a terminator.
	String = TypeDesc[string]{
		Uid:    core.MakeHash("string"),
		Name:   "string",
		Size:   0,
		Encode: func(v string) []byte { return []byte(v) },
		Decode: func(data []byte) (string, bool) { return string(data), true },
	}

	UidType = TypeDesc[core.Uid]{
		Uid:    core.MakeHash("uid"),
		Name:   "uid",
		Size:   16,
		Encode: func(v core.Uid) []byte { return v.Bytes() },
		Decode: func(data []byte) (core.Uid, bool) { return core.UidFromBytes(data) },
	}
)
