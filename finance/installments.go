package finance

import (
	"time"

	"gestao-pesos/models"
)

const dueDateLayout = "2006-01-02"

// installmentMethods are the payment methods that carry an installment
// schedule; any other method forces the schedule empty.
var installmentMethods = map[string]bool{
	models.PaymentBoleto:        true,
	models.PaymentCartaoCredito: true,
}

// GenerateInstallments produces the full schedule of n installments
// for the given total, due every 30 days after the sale date. The
// schedule is regenerated wholesale: callers must not assume
// installment identity survives a recomputation.
//
// Each installment is total/n rounded to cents; the last installment
// absorbs the rounding remainder so the schedule always sums to the
// total exactly.
func GenerateInstallments(totalAmount float64, n int, paymentMethod, saleDate string) []models.Installment {
	if !installmentMethods[paymentMethod] {
		return nil
	}
	if n <= 0 || totalAmount <= 0 {
		return nil
	}

	start, err := time.Parse(dueDateLayout, saleDate)
	if err != nil {
		// Invalid sale date degrades to today as the schedule anchor.
		start = time.Now()
	}

	value := Round2(totalAmount / float64(n))
	installments := make([]models.Installment, 0, n)
	for k := 1; k <= n; k++ {
		v := value
		if k == n {
			v = Round2(totalAmount - value*float64(n-1))
		}
		installments = append(installments, models.Installment{
			Number:  k,
			Value:   v,
			DueDate: start.AddDate(0, 0, 30*k).Format(dueDateLayout),
		})
	}
	return installments
}
