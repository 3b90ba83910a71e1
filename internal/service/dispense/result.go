package dispense

// DropResult is the outcome of a successful dispense. NewBalance is the
// caller's balance after the debit, computed locally from the balance
// fetched during authorization.
type DropResult struct {
	Machine    string
	Slot       int32
	ItemName   string
	ItemPrice  int32
	NewBalance int64
}

// MachineListing is one machine's availability view for catalog display:
// whether it answered telemetry, and every slot with its emptiness decision.
type MachineListing struct {
	ID          int32         `json:"id"`
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Online      bool          `json:"is_online"`
	Slots       []SlotListing `json:"slots"`
}

// SlotListing is one slot in a machine listing.
type SlotListing struct {
	Machine int32       `json:"machine"`
	Number  int32       `json:"number"`
	Active  bool        `json:"active"`
	Count   *int32      `json:"count"`
	Empty   bool        `json:"empty"`
	Item    ListingItem `json:"item"`
}

// ListingItem is the item shown for a slot in a listing.
type ListingItem struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Price int32  `json:"price"`
}
