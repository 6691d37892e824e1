package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gestao-pesos/finance"
	"gestao-pesos/models"
	"gestao-pesos/repository"
)

// OrderController handles HTTP requests for sales orders
type OrderController struct {
	repository repository.OrderRepositoryInterface
}

// NewOrderController creates a new OrderController
func NewOrderController(repo repository.OrderRepositoryInterface) *OrderController {
	return &OrderController{
		repository: repo,
	}
}

// CreateOrder handles POST /admin/pedidos
// Items are validated one by one; invalid lines are dropped. Subtotal,
// total and the installment schedule are always computed server-side.
// Example request:
// POST /admin/pedidos
// {
//   "customer_cpf_cnpj": "12345678000199",
//   "customer_name": "Empresa Exemplo LTDA",
//   "sale_date": "2024-01-01",
//   "seller": "João Vitor",
//   "payment_method": "boleto_bancario",
//   "items": [
//     {"product_id": "P10", "product_name": "Peso padrão 2kg M1", "quantity": 2, "unit_price": 100}
//   ],
//   "num_installments": 3
// }
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateOrder: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ CreateOrder: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ CreateOrder: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		log.Printf("❌ CreateOrder: customer_name is required")
		http.Error(w, "customer_name is required", http.StatusBadRequest)
		return
	}

	if len(req.Items) == 0 {
		log.Printf("❌ CreateOrder: items are required")
		http.Error(w, "at least one item is required", http.StatusBadRequest)
		return
	}

	order := &models.Order{
		CustomerCpfCnpj: req.CustomerCpfCnpj,
		CustomerName:    req.CustomerName,
		CreatedDate:     time.Now().Format(time.RFC3339),
		SaleDate:        req.SaleDate,
		Seller:          req.Seller,
		PaymentMethod:   req.PaymentMethod,
		DiscountTotal:   req.DiscountTotal,
		ShippingCost:    req.ShippingCost,
		AdditionalCost:  req.AdditionalCost,
		TaxCost:         req.TaxCost,
		Status:          models.OrderStatusPendente,
		Observations:    req.Observations,
	}

	added := 0
	for _, item := range req.Items {
		if finance.AddItem(order, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Discount) {
			added++
		}
	}
	if added == 0 {
		log.Printf("❌ CreateOrder: No valid items in request")
		http.Error(w, "no valid items in request", http.StatusBadRequest)
		return
	}

	finance.RecalculateWithInstallments(order, req.NumInstallments)

	ctx := context.Background()
	created, err := c.repository.Create(ctx, order)
	if err != nil {
		log.Printf("❌ CreateOrder: Error creating order: %v", err)
		http.Error(w, fmt.Sprintf("Failed to create order: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ CreateOrder: Successfully created order id=%d total=%.2f", created.ID, created.TotalAmount)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		log.Printf("❌ CreateOrder: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListOrders handles GET /admin/pedidos
// Example response:
// {
//   "orders": [
//     {"id": 3, "customer_name": "Empresa Exemplo LTDA", "total_amount": 370.00, "status": "pendente"}
//   ]
// }
func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListOrders: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ ListOrders: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := context.Background()
	orders, err := c.repository.List(ctx)
	if err != nil {
		log.Printf("❌ ListOrders: Error fetching orders: %v", err)
		http.Error(w, fmt.Sprintf("Failed to fetch orders: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ ListOrders: Successfully fetched %d orders", len(orders))

	response := map[string][]models.Order{"orders": orders}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ ListOrders: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// GetOrder handles GET /admin/pedidos/:id
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetOrder: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ GetOrder: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/admin/pedidos/")
	if path == "" {
		http.Error(w, "order id parameter is required", http.StatusBadRequest)
		return
	}

	if strings.Contains(path, "/") {
		http.Error(w, "invalid path format", http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		log.Printf("❌ GetOrder: Invalid order id: %s", path)
		http.Error(w, "invalid order id parameter", http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	order, err := c.repository.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("❌ GetOrder: Error fetching order: %v", err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to fetch order: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ GetOrder: Successfully fetched order id=%d", orderID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(order); err != nil {
		log.Printf("❌ GetOrder: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// UpdateOrderStatus handles PUT /admin/pedidos/:id/status
// Moves the order through its lifecycle. Invalid transitions are
// rejected.
// Example request:
// PUT /admin/pedidos/3/status
// {
//   "status": "processando"
// }
func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateOrderStatus: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		log.Printf("❌ UpdateOrderStatus: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/admin/pedidos/")
	idStr := strings.TrimSuffix(path, "/status")
	if idStr == path || idStr == "" {
		http.Error(w, "invalid path format", http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Printf("❌ UpdateOrderStatus: Invalid order id: %s", idStr)
		http.Error(w, "invalid order id parameter", http.StatusBadRequest)
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateOrderStatus: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Status) == "" {
		log.Printf("❌ UpdateOrderStatus: status is required")
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	order, err := c.repository.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		log.Printf("❌ UpdateOrderStatus: Error updating status: %v", err)
		errMsg := err.Error()
		if strings.Contains(errMsg, "not found") {
			http.Error(w, errMsg, http.StatusNotFound)
			return
		}
		if strings.Contains(errMsg, "invalid status transition") {
			http.Error(w, errMsg, http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to update order status: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ UpdateOrderStatus: Successfully moved order id=%d to %s", orderID, order.Status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		log.Printf("❌ UpdateOrderStatus: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
