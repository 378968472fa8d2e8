package model

// Product is a catalog entry. The catalog is maintained elsewhere; this core
// reads price and purchase constraints only.
type Product struct {
	ID          int64
	Name        string
	Price       int64 // minor currency units per redeem code
	MinPurchase int
}
