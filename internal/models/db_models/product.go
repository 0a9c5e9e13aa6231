package db_models

// Product is the read-only slice of the catalog this core needs: enough to
// snapshot title and price onto a payment order. Catalog CRUD lives elsewhere.
type Product struct {
	BaseModel
	Title string
	Price float64
}
