package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/test"
)

func stockFixture(stock *test.StockRepositoryStub) *StockUseCase {
	products := &test.ProductRepositoryStub{Products: map[int64]*model.Product{
		7: {ID: 7, Name: "Game Voucher", Price: 1500},
	}}
	return NewStockUseCase(stock, products)
}

func TestAvailableCountsOnlyAvailable(t *testing.T) {
	orderID := "o1"
	stock := &test.StockRepositoryStub{Items: []model.StockItem{
		{ID: 1, ProductID: 7, Status: model.StockStatusAvailable},
		{ID: 2, ProductID: 7, Status: model.StockStatusPending, OrderID: &orderID},
		{ID: 3, ProductID: 7, Status: model.StockStatusPaid, OrderID: &orderID},
		{ID: 4, ProductID: 8, Status: model.StockStatusAvailable},
	}}
	uc := stockFixture(stock)

	count, err := uc.Available(context.Background(), 7)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 available, got %d err=%v", count, err)
	}
}

func TestAvailableUnknownProduct(t *testing.T) {
	uc := stockFixture(&test.StockRepositoryStub{})

	if _, err := uc.Available(context.Background(), 99); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestImportParsesAndDeduplicates(t *testing.T) {
	stock := &test.StockRepositoryStub{}
	uc := stockFixture(stock)

	payload := "CODE-A\n\n  CODE-B  \nCODE-A\r\nCODE-C\n"
	count, err := uc.Import(context.Background(), 7, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 inserted, got %d", count)
	}
	want := []string{"CODE-A", "CODE-B", "CODE-C"}
	if len(stock.Inserted) != len(want) {
		t.Fatalf("unexpected codes: %v", stock.Inserted)
	}
	for i, code := range want {
		if stock.Inserted[i] != code {
			t.Fatalf("expected %q at %d, got %q", code, i, stock.Inserted[i])
		}
	}
}

func TestImportEmptyPayload(t *testing.T) {
	uc := stockFixture(&test.StockRepositoryStub{})

	if _, err := uc.Import(context.Background(), 7, "\n  \n"); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestImportUnknownProduct(t *testing.T) {
	uc := stockFixture(&test.StockRepositoryStub{})

	if _, err := uc.Import(context.Background(), 99, "CODE-A"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveDelegates(t *testing.T) {
	stock := &test.StockRepositoryStub{
		DeleteAvailableFn: func(_ context.Context, id int64) error {
			if id != 11 {
				t.Fatalf("unexpected id %d", id)
			}
			return domainErrors.ErrNotFound
		},
	}
	uc := stockFixture(stock)

	if err := uc.Remove(context.Background(), 11); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
