package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gestao-pesos/db"
	"gestao-pesos/models"
)

// OrderRepository handles database operations for plain sales orders.
type OrderRepository struct{}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// Create persists an order together with its items and installment
// schedule in a single transaction. The derived fields (subtotal,
// total, installments) must already be computed by the caller.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	log.Printf("📦 Create: persisting order for customer=%s items=%d", order.CustomerCpfCnpj, len(order.Items))

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if order.Status == "" {
		order.Status = models.OrderStatusPendente
	}
	if order.CreatedDate == "" {
		order.CreatedDate = time.Now().Format(time.RFC3339)
	}

	queryOrder := `
		INSERT INTO orders (customer_cpf_cnpj, customer_name, created_date, sale_date, seller,
		                    payment_method, subtotal, discount_total, shipping_cost, additional_cost,
		                    tax_cost, total_amount, status, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, queryOrder,
		order.CustomerCpfCnpj, order.CustomerName, order.CreatedDate, order.SaleDate, order.Seller,
		order.PaymentMethod, order.Subtotal, order.DiscountTotal, order.ShippingCost, order.AdditionalCost,
		order.TaxCost, order.TotalAmount, order.Status, order.Observations,
	).Scan(&order.ID)
	if err != nil {
		log.Printf("❌ Create: error inserting order: %v", err)
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, discount, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, queryItem,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Discount, item.TotalPrice,
		); err != nil {
			log.Printf("❌ Create: error inserting item %s: %v", item.ProductID, err)
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// The schedule is regenerated wholesale on every change, so it is
	// stored as a single JSON document instead of one row per parcel.
	installmentsJSON, err := json.Marshal(order.Installments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode installments: %w", err)
	}
	queryInstallments := `UPDATE orders SET installments = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, queryInstallments, installmentsJSON, order.ID); err != nil {
		return nil, fmt.Errorf("failed to store installments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Create: order id=%d total=%.2f", order.ID, order.TotalAmount)
	return order, nil
}

// GetByID fetches one order with its items and installments.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, customer_cpf_cnpj, customer_name, created_date, sale_date, seller,
		       payment_method, subtotal, discount_total, shipping_cost, additional_cost,
		       tax_cost, total_amount, status, COALESCE(observations, ''), COALESCE(installments, '[]')
		FROM orders
		WHERE id = $1
	`
	var order models.Order
	var installmentsJSON []byte
	err := db.DB.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerCpfCnpj, &order.CustomerName, &order.CreatedDate, &order.SaleDate, &order.Seller,
		&order.PaymentMethod, &order.Subtotal, &order.DiscountTotal, &order.ShippingCost, &order.AdditionalCost,
		&order.TaxCost, &order.TotalAmount, &order.Status, &order.Observations, &installmentsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if err := json.Unmarshal(installmentsJSON, &order.Installments); err != nil {
		log.Printf("⚠️ GetByID: invalid installments payload for order %d: %v", id, err)
		order.Installments = nil
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

// List returns all orders, newest first, without item details.
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT id, customer_cpf_cnpj, customer_name, created_date, sale_date, seller,
		       payment_method, subtotal, discount_total, shipping_cost, additional_cost,
		       tax_cost, total_amount, status, COALESCE(observations, '')
		FROM orders
		ORDER BY id DESC
	`
	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerCpfCnpj, &order.CustomerName, &order.CreatedDate, &order.SaleDate, &order.Seller,
			&order.PaymentMethod, &order.Subtotal, &order.DiscountTotal, &order.ShippingCost, &order.AdditionalCost,
			&order.TaxCost, &order.TotalAmount, &order.Status, &order.Observations,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus moves the order through its sub-lifecycle. Invalid
// transitions are rejected.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Order
	queryLock := `SELECT id, status FROM orders WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, queryLock, id).Scan(&current.ID, &current.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if !current.CanTransitionTo(status) {
		log.Printf("❌ UpdateStatus: invalid transition %s -> %s for order %d", current.Status, status, id)
		return nil, fmt.Errorf("invalid status transition: %s -> %s", current.Status, status)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ UpdateStatus: order %d %s -> %s", id, current.Status, status)
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT product_id, product_name, quantity, unit_price, discount, total_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`
	rows, err := db.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Discount, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
