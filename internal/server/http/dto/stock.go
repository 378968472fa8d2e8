package dto

// StockCountResponse reports purchasable stock for a product.
type StockCountResponse struct {
	ProductID int64 `json:"product_id"`
	Available int   `json:"available"`
}

// StockImportResponse reports the outcome of a bulk stock entry.
type StockImportResponse struct {
	Imported int `json:"imported"`
}

// ErrorResponse is the generic error body. Requested/Available are filled for
// insufficient-stock rejections only.
type ErrorResponse struct {
	Error     string `json:"error"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}
