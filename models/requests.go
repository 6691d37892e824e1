package models

// OrderItemRequest is one item of an incoming order, before validation.
type OrderItemRequest struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
}

// CreateOrderRequest represents the request body for creating an order
// Example: {"customer_cpf_cnpj": "12345678000199", "customer_name": "Empresa Exemplo LTDA",
//
//	"sale_date": "2024-01-01", "seller": "João Vitor", "payment_method": "boleto_bancario",
//	"items": [{"product_id": "P10", "product_name": "Peso padrão 2kg M1", "quantity": 2, "unit_price": 100}],
//	"num_installments": 3}
type CreateOrderRequest struct {
	CustomerCpfCnpj string             `json:"customer_cpf_cnpj"`
	CustomerName    string             `json:"customer_name"`
	SaleDate        string             `json:"sale_date"`
	Seller          string             `json:"seller"`
	PaymentMethod   string             `json:"payment_method"`
	Observations    string             `json:"observations,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	DiscountTotal   float64            `json:"discount_total"`
	ShippingCost    float64            `json:"shipping_cost"`
	AdditionalCost  float64            `json:"additional_cost"`
	TaxCost         float64            `json:"tax_cost"`
	NumInstallments int                `json:"num_installments"`
}

// UpdateOrderStatusRequest represents the request body for moving an
// order through its sub-lifecycle
// Example: {"status": "processando"}
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// EmailDanfeRequest represents the request body for e-mailing a DANFE
// Example: {"to": "cliente@exemplo.com"}
type EmailDanfeRequest struct {
	To string `json:"to"`
}
