package domain

// Machine is a vending machine known to the ledger. Name is the stable key
// used to build the machine's device API URL; DisplayName is what users see.
type Machine struct {
	ID          int32  `db:"id"`
	Name        string `db:"name"`
	DisplayName string `db:"display_name"`
	Active      bool   `db:"active"`
}

// Item is a product that can be assigned to slots. Price is in credits.
type Item struct {
	ID    int32  `db:"id"`
	Name  string `db:"name"`
	Price int32  `db:"price"`
}

// Slot is one dispensing position in a machine, keyed by (Machine, Number).
// Count is nil for machines that do not track discrete stock; for those,
// live telemetry decides whether the slot is servable.
type Slot struct {
	Machine int32  `db:"machine"`
	Number  int32  `db:"number"`
	Item    int32  `db:"item"`
	Active  bool   `db:"active"`
	Count   *int32 `db:"count"`
}

// SlotWithItem is a slot joined with its assigned item.
type SlotWithItem struct {
	Machine   int32  `db:"machine"`
	Number    int32  `db:"number"`
	Item      int32  `db:"item"`
	Active    bool   `db:"active"`
	Count     *int32 `db:"count"`
	ItemID    int32  `db:"id"`
	ItemName  string `db:"name"`
	ItemPrice int32  `db:"price"`
}
