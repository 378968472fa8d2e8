package repository

import (
	"context"

	"github.com/vkotelnikov/codemart/internal/domain/model"
)

// ProductRepository exposes the catalog read surface this core depends on.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}
