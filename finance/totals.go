package finance

import (
	"log"
	"math"

	"gestao-pesos/models"
)

// Round2 rounds to 2 decimal places, half away from zero. Applied only
// at the end of a computation so per-item rounding error does not
// compound.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateTotals derives the order subtotal and grand total from the
// item list and the four adjustment amounts. A negative total is
// allowed: excess discount is the caller's responsibility.
func CalculateTotals(items []models.OrderItem, discountTotal, shippingCost, additionalCost, taxCost float64) (subtotal, totalAmount float64) {
	var sum float64
	for _, item := range items {
		sum += item.TotalPrice
	}
	subtotal = Round2(sum)
	totalAmount = Round2(sum - discountTotal + shippingCost + additionalCost + taxCost)
	return subtotal, totalAmount
}

// AddItem validates and appends an item to the order, then recomputes
// the derived fields. Invalid input (missing product reference,
// quantity <= 0, negative unit price) is silently dropped and the
// order is left untouched; the return value reports whether the item
// was added.
func AddItem(order *models.Order, productID, productName string, quantity, unitPrice, discount float64) bool {
	if productID == "" || productName == "" || quantity <= 0 || unitPrice < 0 {
		log.Printf("⚠️ AddItem: ignoring invalid item product=%q qty=%v price=%v", productID, quantity, unitPrice)
		return false
	}

	order.Items = append(order.Items, models.OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
		TotalPrice:  quantity*unitPrice - discount,
	})
	Recalculate(order)
	return true
}

// RemoveItem removes the item at index and recomputes the derived
// fields. Out-of-range indexes are a no-op.
func RemoveItem(order *models.Order, index int) bool {
	if index < 0 || index >= len(order.Items) {
		return false
	}
	order.Items = append(order.Items[:index], order.Items[index+1:]...)
	Recalculate(order)
	return true
}

// Recalculate recomputes subtotal, total and the installment schedule
// from the order's current items and adjustments. Runs synchronously
// whenever any governing input changes. The current installment count
// is preserved (defaulting to 1, as in a fresh order form).
func Recalculate(order *models.Order) {
	RecalculateWithInstallments(order, len(order.Installments))
}

// RecalculateWithInstallments is Recalculate with an explicit
// installment count, used when the caller changes the count itself.
func RecalculateWithInstallments(order *models.Order, n int) {
	if n <= 0 {
		n = 1
	}
	order.Subtotal, order.TotalAmount = CalculateTotals(order.Items, order.DiscountTotal, order.ShippingCost, order.AdditionalCost, order.TaxCost)
	order.Installments = GenerateInstallments(order.TotalAmount, n, order.PaymentMethod, order.SaleDate)
}
