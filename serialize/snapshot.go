package serialize

import (
	"github.com/shopspring/decimal"

	"github.com/LerianStudio/oosgo/internal/errs"
)

// FieldValue is one captured (id, value) pair from a serialize walk,
// in the order it was written. It is the currency the object store
// and transaction journal use to capture pre-images and full images
// for rollback, without needing to know an entity's concrete Go type.
type FieldValue struct {
	ID    string
	Kind  FieldKind
	Value any
}

// CaptureWriter is a Writer that records real field values instead of
// discarding them, building a FieldValue vector in serialization
// order. Round-tripping a CaptureWriter through a ReplayReader
// reproduces the captured entity state field-for-field.
type CaptureWriter struct {
	Values []FieldValue
}

// Capture drives s.Serialize with a fresh CaptureWriter and returns
// the resulting field vector.
func Capture(s Serializable) []FieldValue {
	w := &CaptureWriter{}
	s.Serialize(w)

	return w.Values
}

func (c *CaptureWriter) push(id string, kind FieldKind, v any) {
	c.Values = append(c.Values, FieldValue{ID: id, Kind: kind, Value: v})
}

func (c *CaptureWriter) WriteChar(id string, v int8) { c.push(id, KindChar, v) }
func (c *CaptureWriter) WriteShort(id string, v int16) { c.push(id, KindShort, v) }
func (c *CaptureWriter) WriteInt(id string, v int32) { c.push(id, KindInt, v) }
func (c *CaptureWriter) WriteLong(id string, v int64) { c.push(id, KindLong, v) }
func (c *CaptureWriter) WriteUChar(id string, v uint8) { c.push(id, KindUChar, v) }
func (c *CaptureWriter) WriteUShort(id string, v uint16) { c.push(id, KindUShort, v) }
func (c *CaptureWriter) WriteUInt(id string, v uint32) { c.push(id, KindUInt, v) }
func (c *CaptureWriter) WriteULong(id string, v uint64) { c.push(id, KindULong, v) }
func (c *CaptureWriter) WriteBool(id string, v bool) { c.push(id, KindBool, v) }
func (c *CaptureWriter) WriteFloat(id string, v float32) { c.push(id, KindFloat, v) }
func (c *CaptureWriter) WriteDouble(id string, v float64) { c.push(id, KindDouble, v) }
func (c *CaptureWriter) WriteFixedBytes(id string, v FixedBytes) { c.push(id, KindFixedBytes, v) }
func (c *CaptureWriter) WriteVarchar(id string, v Varchar) { c.push(id, KindVarchar, v) }
func (c *CaptureWriter) WriteString(id string, v string) { c.push(id, KindString, v) }
func (c *CaptureWriter) WriteDecimal(id string, v decimal.Decimal) { c.push(id, KindDecimal, v) }
func (c *CaptureWriter) WriteObjectPtr(id string, v ObjectRef) { c.push(id, KindObjectPtr, v) }
func (c *CaptureWriter) WriteContainer(id string, v Container) { c.push(id, KindContainer, v) }

// ReplayReader is a Reader that plays a previously captured field
// vector back to an entity's Deserialize method, in order. It fails
// with errs.MissingFieldError if the entity asks for more fields than
// were captured, and errs.TypeMismatchError if the entity asks for a
// primitive that doesn't match what was captured at that position.
type ReplayReader struct {
	Values []FieldValue
	pos    int
}

// NewReplayReader wraps a captured field vector for replay.
func NewReplayReader(values []FieldValue) *ReplayReader {
	return &ReplayReader{Values: values}
}

func (r *ReplayReader) next(id string) (FieldValue, error) {
	if r.pos >= len(r.Values) {
		return FieldValue{}, errs.MissingFieldError{Field: id}
	}

	fv := r.Values[r.pos]
	r.pos++

	if fv.ID != id {
		return FieldValue{}, errs.MissingFieldError{Field: id}
	}

	return fv, nil
}

func mismatch[T any](fv FieldValue, expected string) (T, error) {
	var zero T

	v, ok := fv.Value.(T)
	if !ok {
		return zero, errs.TypeMismatchError{Field: fv.ID, Expected: expected, Got: "other"}
	}

	return v, nil
}

func (r *ReplayReader) ReadChar(id string) (int8, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[int8](fv, "char")
}

func (r *ReplayReader) ReadShort(id string) (int16, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[int16](fv, "short")
}

func (r *ReplayReader) ReadInt(id string) (int32, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[int32](fv, "int")
}

func (r *ReplayReader) ReadLong(id string) (int64, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[int64](fv, "long")
}

func (r *ReplayReader) ReadUChar(id string) (uint8, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[uint8](fv, "uchar")
}

func (r *ReplayReader) ReadUShort(id string) (uint16, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[uint16](fv, "ushort")
}

func (r *ReplayReader) ReadUInt(id string) (uint32, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[uint32](fv, "uint")
}

func (r *ReplayReader) ReadULong(id string) (uint64, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[uint64](fv, "ulong")
}

func (r *ReplayReader) ReadBool(id string) (bool, error) {
	fv, err := r.next(id)
	if err != nil {
		return false, err
	}

	return mismatch[bool](fv, "bool")
}

func (r *ReplayReader) ReadFloat(id string) (float32, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[float32](fv, "float")
}

func (r *ReplayReader) ReadDouble(id string) (float64, error) {
	fv, err := r.next(id)
	if err != nil {
		return 0, err
	}

	return mismatch[float64](fv, "double")
}

func (r *ReplayReader) ReadFixedBytes(id string) (FixedBytes, error) {
	fv, err := r.next(id)
	if err != nil {
		return FixedBytes{}, err
	}

	return mismatch[FixedBytes](fv, "fixed_bytes")
}

func (r *ReplayReader) ReadVarchar(id string) (Varchar, error) {
	fv, err := r.next(id)
	if err != nil {
		return Varchar{}, err
	}

	return mismatch[Varchar](fv, "varchar")
}

func (r *ReplayReader) ReadString(id string) (string, error) {
	fv, err := r.next(id)
	if err != nil {
		return "", err
	}

	return mismatch[string](fv, "string")
}

func (r *ReplayReader) ReadDecimal(id string) (decimal.Decimal, error) {
	fv, err := r.next(id)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return mismatch[decimal.Decimal](fv, "decimal")
}

func (r *ReplayReader) ReadObjectPtr(id string) (ObjectRef, error) {
	fv, err := r.next(id)
	if err != nil {
		return ObjectRef{}, err
	}

	return mismatch[ObjectRef](fv, "object_ptr")
}

func (r *ReplayReader) ReadContainer(id string) (Container, error) {
	fv, err := r.next(id)
	if err != nil {
		return Container{}, err
	}

	return mismatch[Container](fv, "container")
}
