package models

// Product is a catalog entry. Price lives here so order totals can be
// recomputed server-side instead of trusting the client.
type Product struct {
	BaseModel
	Name  string  `json:"name"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
}
