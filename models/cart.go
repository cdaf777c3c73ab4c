package models

// LineItem is one entry in a session's cart: product identity plus the
// requested quantity. Name, price and image are display hints captured at
// add time; the catalog snapshot is the source of truth for totals and the
// upstream is the source of truth at checkout.
//
// The JSON tags define the persisted cart layout:
// [{id, quantity, name?, price?, image?}, ...]
type LineItem struct {
	ProductID string  `json:"id"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// CartDocument is the versioned on-disk/on-wire form of a persisted cart.
// Version 1 is the only version; documents without a version field are
// read as v1 because the original layout was a bare item array.
type CartDocument struct {
	Version int        `json:"v"`
	Items   []LineItem `json:"items"`
}

// CartSchemaVersion is written into every persisted cart document.
const CartSchemaVersion = 1
