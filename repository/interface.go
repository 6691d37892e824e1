package repository

import (
	"context"

	"gestao-pesos/models"
)

// NotaFiscalStoreInterface defines the contract for the fiscal invoice
// lifecycle store.
type NotaFiscalStoreInterface interface {
	List() []models.NotaFiscal
	Get(id int64) (models.NotaFiscal, bool)
	Add(nota models.NotaFiscal) models.NotaFiscal
	Update(nota models.NotaFiscal) bool
	Issue(id int64) (models.NotaFiscal, error)
	Cancel(id int64) (models.NotaFiscal, error)
	CheckAuthority() int
}

// OrderRepositoryInterface defines the contract for order persistence.
type OrderRepositoryInterface interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error)
}
