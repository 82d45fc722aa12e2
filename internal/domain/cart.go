package domain

// CartSchemaVersion is written into every persisted cart envelope so a
// future format change can detect and migrate old payloads.
const CartSchemaVersion = 1

// CartItem binds a product snapshot to a quantity. Count products carry
// positive integer quantities; area products carry quantities that are
// always a multiple of the product coefficient. A zero or negative
// quantity is never a stored state, it means removal.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity float64 `json:"quantity"`
}

// CartEnvelope is the full serialized form of a cart as written to the
// durable store. The whole envelope is rewritten on every mutation.
type CartEnvelope struct {
	SchemaVersion int        `json:"schema_version"`
	Items         []CartItem `json:"items"`
}
