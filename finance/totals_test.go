package finance

import (
	"testing"

	"gestao-pesos/models"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.OrderItem
		discount     float64
		shipping     float64
		additional   float64
		tax          float64
		wantSubtotal float64
		wantTotal    float64
	}{
		{
			name: "items with adjustments",
			items: []models.OrderItem{
				{TotalPrice: 200},
				{TotalPrice: 200},
			},
			discount:     50,
			shipping:     20,
			wantSubtotal: 400,
			wantTotal:    370,
		},
		{
			name:         "no items",
			items:        nil,
			wantSubtotal: 0,
			wantTotal:    0,
		},
		{
			name: "all adjustments",
			items: []models.OrderItem{
				{TotalPrice: 100},
			},
			discount:     10,
			shipping:     5,
			additional:   3,
			tax:          2,
			wantSubtotal: 100,
			wantTotal:    100,
		},
		{
			name: "excess discount yields negative total",
			items: []models.OrderItem{
				{TotalPrice: 30},
			},
			discount:     50,
			wantSubtotal: 30,
			wantTotal:    -20,
		},
		{
			name: "cent rounding",
			items: []models.OrderItem{
				{TotalPrice: 10.005},
				{TotalPrice: 10.004},
			},
			wantSubtotal: 20.01,
			wantTotal:    20.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, total := CalculateTotals(tt.items, tt.discount, tt.shipping, tt.additional, tt.tax)
			if subtotal != tt.wantSubtotal {
				t.Errorf("subtotal = %v, want %v", subtotal, tt.wantSubtotal)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %v, want %v", total, tt.wantTotal)
			}
		})
	}
}

func TestAddItem(t *testing.T) {
	order := &models.Order{PaymentMethod: models.PaymentBoleto, SaleDate: "2024-01-01"}

	if !AddItem(order, "P10", "Peso padrão 2kg M1", 2, 100, 0) {
		t.Fatal("valid item was rejected")
	}
	if len(order.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(order.Items))
	}
	if order.Items[0].TotalPrice != 200 {
		t.Errorf("total_price = %v, want 200", order.Items[0].TotalPrice)
	}
	if order.Subtotal != 200 || order.TotalAmount != 200 {
		t.Errorf("subtotal/total = %v/%v, want 200/200", order.Subtotal, order.TotalAmount)
	}
	if len(order.Installments) != 1 {
		t.Errorf("len(installments) = %d, want 1", len(order.Installments))
	}
}

func TestAddItemInvalidInputIsDropped(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		prodName  string
		quantity  float64
		unitPrice float64
	}{
		{"missing product id", "", "Peso padrão", 1, 100},
		{"missing product name", "P10", "", 1, 100},
		{"zero quantity", "P10", "Peso padrão", 0, 100},
		{"negative quantity", "P10", "Peso padrão", -1, 100},
		{"negative unit price", "P10", "Peso padrão", 1, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{}
			if AddItem(order, tt.productID, tt.prodName, tt.quantity, tt.unitPrice, 0) {
				t.Fatal("invalid item was accepted")
			}
			if len(order.Items) != 0 {
				t.Errorf("len(items) = %d, want 0", len(order.Items))
			}
			if order.Subtotal != 0 || order.TotalAmount != 0 {
				t.Errorf("totals changed by rejected item: %v/%v", order.Subtotal, order.TotalAmount)
			}
		})
	}
}

func TestRemoveItem(t *testing.T) {
	order := &models.Order{}
	AddItem(order, "P10", "Peso padrão 2kg M1", 2, 100, 0)
	AddItem(order, "P20", "Peso padrão 5kg M1", 1, 300, 0)

	if !RemoveItem(order, 0) {
		t.Fatal("valid index was rejected")
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != "P20" {
		t.Fatalf("wrong item removed: %+v", order.Items)
	}
	if order.Subtotal != 300 {
		t.Errorf("subtotal = %v, want 300", order.Subtotal)
	}

	if RemoveItem(order, 5) {
		t.Error("out-of-range index was accepted")
	}
	if RemoveItem(order, -1) {
		t.Error("negative index was accepted")
	}
	if len(order.Items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(order.Items))
	}
}

func TestRecalculatePreservesInstallmentCount(t *testing.T) {
	order := &models.Order{
		PaymentMethod: models.PaymentBoleto,
		SaleDate:      "2024-01-01",
	}
	AddItem(order, "P10", "Peso padrão 2kg M1", 2, 100, 0)
	RecalculateWithInstallments(order, 3)

	if len(order.Installments) != 3 {
		t.Fatalf("len(installments) = %d, want 3", len(order.Installments))
	}

	// Changing an adjustment keeps the installment count.
	order.ShippingCost = 30
	Recalculate(order)

	if len(order.Installments) != 3 {
		t.Fatalf("len(installments) after recalculate = %d, want 3", len(order.Installments))
	}
	if order.TotalAmount != 230 {
		t.Errorf("total = %v, want 230", order.TotalAmount)
	}

	var sum float64
	for _, inst := range order.Installments {
		sum += inst.Value
	}
	if Round2(sum) != order.TotalAmount {
		t.Errorf("installments sum to %v, want %v", Round2(sum), order.TotalAmount)
	}
}
