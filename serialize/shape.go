package serialize

import "github.com/shopspring/decimal"

// FieldKind names the primitive family a field belongs to, for the
// benefit of the statement creator's type mapping.
type FieldKind int

const (
	KindChar FieldKind = iota
	KindShort
	KindInt
	KindLong
	KindUChar
	KindUShort
	KindUInt
	KindULong
	KindBool
	KindFloat
	KindDouble
	KindFixedBytes
	KindVarchar
	KindString
	KindDecimal
	KindObjectPtr
	KindContainer
)

// Field describes one column in serialization order: its stable
// identifier (also the column name), its primitive kind, and any
// extra sizing/typing information the statement creator needs
// (varchar/fixed-bytes width, the referenced prototype name for an
// object pointer).
type Field struct {
	ID    string
	Kind  FieldKind
	Width int    // VARCHAR(N) / CHAR(N) bound, when applicable
	Ref   string // referenced prototype name, for KindObjectPtr/KindContainer
}

// ShapeRecorder is a Writer that records the field list instead of
// serializing real values. The statement creator drives an entity's
// Serialize method with a ShapeRecorder once to discover
// (name, sql-type) pairs in the exact order CREATE/INSERT must use.
type ShapeRecorder struct {
	Fields []Field
}

func (s *ShapeRecorder) record(id string, kind FieldKind, width int, ref string) {
	s.Fields = append(s.Fields, Field{ID: id, Kind: kind, Width: width, Ref: ref})
}

func (s *ShapeRecorder) WriteChar(id string, _ int8) { s.record(id, KindChar, 0, "") }
func (s *ShapeRecorder) WriteShort(id string, _ int16) { s.record(id, KindShort, 0, "") }
func (s *ShapeRecorder) WriteInt(id string, _ int32) { s.record(id, KindInt, 0, "") }
func (s *ShapeRecorder) WriteLong(id string, _ int64) { s.record(id, KindLong, 0, "") }
func (s *ShapeRecorder) WriteUChar(id string, _ uint8) { s.record(id, KindUChar, 0, "") }
func (s *ShapeRecorder) WriteUShort(id string, _ uint16) { s.record(id, KindUShort, 0, "") }
func (s *ShapeRecorder) WriteUInt(id string, _ uint32) { s.record(id, KindUInt, 0, "") }
func (s *ShapeRecorder) WriteULong(id string, _ uint64) { s.record(id, KindULong, 0, "") }
func (s *ShapeRecorder) WriteBool(id string, _ bool) { s.record(id, KindBool, 0, "") }
func (s *ShapeRecorder) WriteFloat(id string, _ float32) { s.record(id, KindFloat, 0, "") }
func (s *ShapeRecorder) WriteDouble(id string, _ float64) { s.record(id, KindDouble, 0, "") }

func (s *ShapeRecorder) WriteFixedBytes(id string, v FixedBytes) {
	s.record(id, KindFixedBytes, v.Width, "")
}

func (s *ShapeRecorder) WriteVarchar(id string, v Varchar) {
	s.record(id, KindVarchar, v.Max, "")
}

func (s *ShapeRecorder) WriteString(id string, _ string) { s.record(id, KindString, 0, "") }

func (s *ShapeRecorder) WriteDecimal(id string, _ decimal.Decimal) {
	s.record(id, KindDecimal, 0, "")
}

func (s *ShapeRecorder) WriteObjectPtr(id string, v ObjectRef) {
	s.record(id, KindObjectPtr, 0, v.Type)
}

func (s *ShapeRecorder) WriteContainer(id string, v Container) {
	s.record(id, KindContainer, int(v.Kind), v.Ref())
}

// Ref reports the referenced prototype name for a container, derived
// from its first element if any is present. An empty container has no
// discoverable element type at shape-recording time. The join table
// stmt.ContainerCreate builds does not depend on it: its columns are
// plain BIGINT identities.
func (c Container) Ref() string {
	if len(c.Refs) == 0 {
		return ""
	}

	return c.Refs[0].Type
}

// Shape drives a Serializable's Serialize method with a ShapeRecorder
// and returns the discovered field list.
func Shape(s Serializable) []Field {
	rec := &ShapeRecorder{}
	s.Serialize(rec)

	return rec.Fields
}
