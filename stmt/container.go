package stmt

import (
	"github.com/LerianStudio/oosgo/serialize"
	"github.com/LerianStudio/oosgo/sqltoken"
)

// ContainerTableName names the join table a container field realizes
// to: "<owner>_<field>".
func ContainerTableName(ownerType, field string) string {
	return ownerType + "_" + field
}

// ContainerCreate builds the CREATE TABLE statement for a container's
// join table: (owner_id, item_id) for a set-kind container, plus a
// trailing position column for a list-kind container.
func ContainerCreate(ownerType, field string, kind serialize.ContainerKind) sqltoken.Statement {
	b := sqltoken.NewBuilder().
		Create(ContainerTableName(ownerType, field)).
		Columns().
		TypedColumn("owner_id", "BIGINT").
		TypedColumn("item_id", "BIGINT")

	if kind == serialize.ListContainer {
		b.TypedColumn("position", "INTEGER")
	}

	return b.Build()
}

// ContainerInsert builds the INSERT that records ref joining owner's
// container. position is ignored for set-kind containers.
func ContainerInsert(ownerType, field string, kind serialize.ContainerKind, ownerID, itemID int64, position int) sqltoken.Statement {
	b := sqltoken.NewBuilder().
		Insert(ContainerTableName(ownerType, field)).
		Columns().Column("owner_id").Column("item_id")

	if kind == serialize.ListContainer {
		b.Column("position")
	}

	b.Values().Value(ownerID).Value(itemID)

	if kind == serialize.ListContainer {
		b.Value(position)
	}

	return b.Build()
}

// ContainerDelete builds the DELETE that removes one membership row.
func ContainerDelete(ownerType, field string, ownerID, itemID int64) sqltoken.Statement {
	return sqltoken.NewBuilder().
		Remove().From(ContainerTableName(ownerType, field)).
		Where().Condition("owner_id", sqltoken.OpEQ, ownerID).
		And().Condition("item_id", sqltoken.OpEQ, itemID).
		Build()
}

// ContainerDeleteAllForOwner builds the DELETE that clears every
// membership row for owner, used when an owning entity is removed and
// its container cascades.
func ContainerDeleteAllForOwner(ownerType, field string, ownerID int64) sqltoken.Statement {
	return sqltoken.NewBuilder().
		Remove().From(ContainerTableName(ownerType, field)).
		Where().Condition("owner_id", sqltoken.OpEQ, ownerID).
		Build()
}
