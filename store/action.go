package store

import "github.com/LerianStudio/oosgo/serialize"

// ActionKind tags the variant an Action carries.
type ActionKind int

const (
	ActionInsert ActionKind = iota
	ActionUpdate
	ActionDelete
	// ActionContainerAdd/ActionContainerRemove are the per-element
	// actions a container mutation emits against the owning
	// transaction.
	ActionContainerAdd
	ActionContainerRemove
)

func (k ActionKind) String() string {
	switch k {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionContainerAdd:
		return "container_add"
	case ActionContainerRemove:
		return "container_remove"
	default:
		return "unknown"
	}
}

// Action is the tagged variant over insert/update/delete (plus the
// container element actions), carrying whatever pre-image is needed
// to invert it. ID/TypeName name the target entity; PreImage carries
// the previous field vector for update, or the full field vector for
// delete; Field/Ref/Position are only meaningful for the container
// variants.
type Action struct {
	Kind     ActionKind
	ID       int64
	TypeName string
	PreImage []serialize.FieldValue
	Field    string
	Ref      serialize.ObjectRef
	Position int
}
