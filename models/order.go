package models

// Order status values. "cancelado" is reachable from any non-terminal
// status; "entregue" and "cancelado" are terminal.
const (
	OrderStatusPendente    = "pendente"
	OrderStatusProcessando = "processando"
	OrderStatusEnviado     = "enviado"
	OrderStatusEntregue    = "entregue"
	OrderStatusCancelado   = "cancelado"
)

// Payment method values. Installments are only generated for
// boleto_bancario and cartao_credito.
const (
	PaymentBoleto        = "boleto_bancario"
	PaymentPix           = "pix"
	PaymentCartaoCredito = "cartao_credito"
	PaymentCartaoDebito  = "cartao_debito"
)

// OrderItem represents a single line of an order.
// Invariant: TotalPrice = Quantity*UnitPrice - Discount.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	TotalPrice  float64 `json:"total_price"`
}

// Installment represents one scheduled partial payment of an order.
// Numbers are 1-based and contiguous; DueDate is "yyyy-MM-dd".
type Installment struct {
	Number  int     `json:"number"`
	Value   float64 `json:"value"`
	DueDate string  `json:"due_date"`
}

// Order represents a sales order
// Example:
//
//	{
//	  "id": 3,
//	  "customer_cpf_cnpj": "12345678000199",
//	  "customer_name": "Empresa Exemplo LTDA",
//	  "sale_date": "2024-01-01",
//	  "seller": "João Vitor",
//	  "payment_method": "boleto_bancario",
//	  "items": [{"product_id": "P10", "product_name": "Peso padrão 2kg M1", "quantity": 2, "unit_price": 100, "discount": 0, "total_price": 200}],
//	  "subtotal": 200.00,
//	  "total_amount": 200.00,
//	  "installments": [{"number": 1, "value": 200.00, "due_date": "2024-01-31"}],
//	  "status": "pendente"
//	}
type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"order_number,omitempty"`
	CustomerID      string        `json:"customer_id,omitempty"`
	CustomerCpfCnpj string        `json:"customer_cpf_cnpj"`
	CustomerName    string        `json:"customer_name"`
	CreatedDate     string        `json:"created_date"`
	SaleDate        string        `json:"sale_date"`
	Seller          string        `json:"seller"`
	PaymentMethod   string        `json:"payment_method"`
	Items           []OrderItem   `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	DiscountTotal   float64       `json:"discount_total"`
	ShippingCost    float64       `json:"shipping_cost"`
	AdditionalCost  float64       `json:"additional_cost"`
	TaxCost         float64       `json:"tax_cost"`
	TotalAmount     float64       `json:"total_amount"`
	Installments    []Installment `json:"installments"`
	Status          string        `json:"status"`
	Observations    string        `json:"observations,omitempty"`
}

// orderTransitions lists the allowed status transitions for plain
// orders (cancelado additionally reachable from any non-terminal state).
var orderTransitions = map[string]string{
	OrderStatusPendente:    OrderStatusProcessando,
	OrderStatusProcessando: OrderStatusEnviado,
	OrderStatusEnviado:     OrderStatusEntregue,
}

// CanTransitionTo reports whether the order status may move to next.
func (o *Order) CanTransitionTo(next string) bool {
	if o.Status == OrderStatusEntregue || o.Status == OrderStatusCancelado {
		return false
	}
	if next == OrderStatusCancelado {
		return true
	}
	return orderTransitions[o.Status] == next
}
