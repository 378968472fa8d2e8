package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/repository"
)

// StockUseCase covers the admin stock-entry surface and the public
// availability count.
type StockUseCase struct {
	stock    repository.StockRepository
	products repository.ProductRepository
}

// NewStockUseCase constructs StockUseCase.
func NewStockUseCase(stock repository.StockRepository, products repository.ProductRepository) *StockUseCase {
	return &StockUseCase{stock: stock, products: products}
}

// Available counts codes currently purchasable for the product.
func (u *StockUseCase) Available(ctx context.Context, productID int64) (int, error) {
	if _, err := u.products.GetByID(ctx, productID); err != nil {
		return 0, err
	}
	return u.stock.CountAvailable(ctx, productID)
}

// Import parses a bulk stock entry, one redeem code per line, and stores the
// codes as available stock. Blank lines are skipped, duplicates within the
// payload are collapsed. Returns how many codes were inserted.
func (u *StockUseCase) Import(ctx context.Context, productID int64, payload string) (int, error) {
	if _, err := u.products.GetByID(ctx, productID); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{})
	var codes []string
	for _, line := range strings.Split(payload, "\n") {
		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return 0, domainErrors.ErrInvalidQuantity
	}

	return u.stock.BulkInsert(ctx, productID, codes)
}

// Remove deletes a stock item that has not been reserved or sold.
func (u *StockUseCase) Remove(ctx context.Context, stockID int64) error {
	return u.stock.DeleteAvailable(ctx, stockID)
}
