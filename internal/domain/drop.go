package domain

import "time"

// DropEvent is the append-only audit record of one dispensed item. Item name
// and price are denormalized at drop time so the history survives later item
// edits. Timestamp is assigned by the database, never the caller.
type DropEvent struct {
	ID        int64     `db:"id"`
	Timestamp time.Time `db:"timestamp"`
	Username  string    `db:"username"`
	Machine   int32     `db:"machine"`
	Slot      int32     `db:"slot"`
	Item      int32     `db:"item"`
	ItemName  string    `db:"item_name"`
	ItemPrice int32     `db:"item_price"`
}
