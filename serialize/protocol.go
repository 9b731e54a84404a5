// Package serialize implements the double-dispatch serialization
// protocol entities participate in. A Serializable visits its own
// fields, in a fixed order, through a Writer (serialize) or a Reader
// (deserialize). That fixed order is the contract the prototype
// registry's producers and the statement creator both rely on to line
// up Go struct fields with SQL columns.
package serialize

import (
	"github.com/shopspring/decimal"
)

// Varchar is a bounded-length string field. Max is the declared bound
// used by the statement creator to emit VARCHAR(Max); it is not
// enforced here, only carried through.
type Varchar struct {
	Value string
	Max   int
}

// FixedBytes is a fixed-width byte buffer field.
type FixedBytes struct {
	Value []byte
	Width int
}

// ObjectRef is a stable reference to a managed entity: its identity
// and the name of its prototype. It never holds a live pointer;
// cross-entity references are identities looked up at dereference
// time. A zero identity with an empty Type represents a null
// reference.
type ObjectRef struct {
	ID   int64
	Type string
}

// IsNull reports whether the reference points at nothing.
func (r ObjectRef) IsNull() bool { return r.ID == 0 && r.Type == "" }

// ContainerKind distinguishes set-kind containers (no ordering
// guarantee, no position column) from list-kind containers (ordered,
// carries a position column in the join table).
type ContainerKind int

const (
	// SetContainer holds unordered object references.
	SetContainer ContainerKind = iota
	// ListContainer holds ordered object references.
	ListContainer
)

// Container is the serialized shape of an object_container field: an
// ordered slice of references plus the kind that decides whether
// ordering is semantically meaningful.
type Container struct {
	Kind ContainerKind
	Refs []ObjectRef
}

// Writer is the serialize role: an entity pushes its field values out
// through it, in the same order every time.
type Writer interface {
	WriteChar(id string, v int8)
	WriteShort(id string, v int16)
	WriteInt(id string, v int32)
	WriteLong(id string, v int64)
	WriteUChar(id string, v uint8)
	WriteUShort(id string, v uint16)
	WriteUInt(id string, v uint32)
	WriteULong(id string, v uint64)
	WriteBool(id string, v bool)
	WriteFloat(id string, v float32)
	WriteDouble(id string, v float64)
	WriteFixedBytes(id string, v FixedBytes)
	WriteVarchar(id string, v Varchar)
	WriteString(id string, v string)
	WriteDecimal(id string, v decimal.Decimal)
	WriteObjectPtr(id string, v ObjectRef)
	WriteContainer(id string, v Container)
}

// Reader is the deserialize role: an entity pulls its field values in
// through it, in the same order it wrote them.
//
// A Reader that cannot resolve a field identifier must fail with
// errs.MissingFieldError; a Reader that finds a value of the wrong
// shape for the requested primitive must fail with
// errs.TypeMismatchError. Both failures are reported through the
// returned error, never a panic.
type Reader interface {
	ReadChar(id string) (int8, error)
	ReadShort(id string) (int16, error)
	ReadInt(id string) (int32, error)
	ReadLong(id string) (int64, error)
	ReadUChar(id string) (uint8, error)
	ReadUShort(id string) (uint16, error)
	ReadUInt(id string) (uint32, error)
	ReadULong(id string) (uint64, error)
	ReadBool(id string) (bool, error)
	ReadFloat(id string) (float32, error)
	ReadDouble(id string) (float64, error)
	ReadFixedBytes(id string) (FixedBytes, error)
	ReadVarchar(id string) (Varchar, error)
	ReadString(id string) (string, error)
	ReadDecimal(id string) (decimal.Decimal, error)
	ReadObjectPtr(id string) (ObjectRef, error)
	ReadContainer(id string) (Container, error)
}

// Serializable is the minimum capability a managed entity must
// satisfy. A concrete entity is a plain record implementing it, not
// an extender of some root object class.
type Serializable interface {
	// Serialize must visit every field, in the same order every call,
	// pushing each through w.
	Serialize(w Writer)
	// Deserialize must visit every field, in the same order Serialize
	// uses, pulling each through r and assigning it back onto the
	// receiver.
	Deserialize(r Reader) error
	// PrototypeName names the prototype this entity was produced from;
	// it doubles as the SQL table name.
	PrototypeName() string
}
