package service

import (
	"context"

	"gestao-pesos/models"
)

// DanfeServiceInterface defines the contract for DANFE rendering
type DanfeServiceInterface interface {
	Render(ctx context.Context, nota *models.NotaFiscal) ([]byte, error)
}

// XMLServiceInterface defines the contract for fiscal XML serialization
type XMLServiceInterface interface {
	Build(order *models.Order, settings *models.FiscalSettings) (string, error)
	BuildFromNota(nota *models.NotaFiscal, settings *models.FiscalSettings) (string, error)
}
