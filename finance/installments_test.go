package finance

import (
	"testing"

	"gestao-pesos/models"
)

func TestGenerateInstallments(t *testing.T) {
	installments := GenerateInstallments(300, 3, models.PaymentBoleto, "2024-01-01")

	if len(installments) != 3 {
		t.Fatalf("len(installments) = %d, want 3", len(installments))
	}

	wantDates := []string{"2024-01-31", "2024-03-01", "2024-03-31"}
	for i, inst := range installments {
		if inst.Number != i+1 {
			t.Errorf("installment %d: number = %d, want %d", i, inst.Number, i+1)
		}
		if inst.Value != 100 {
			t.Errorf("installment %d: value = %v, want 100", i, inst.Value)
		}
		if inst.DueDate != wantDates[i] {
			t.Errorf("installment %d: due_date = %s, want %s", i, inst.DueDate, wantDates[i])
		}
	}
}

func TestGenerateInstallmentsLastAbsorbsRemainder(t *testing.T) {
	installments := GenerateInstallments(100, 3, models.PaymentCartaoCredito, "2024-06-15")

	if len(installments) != 3 {
		t.Fatalf("len(installments) = %d, want 3", len(installments))
	}
	if installments[0].Value != 33.33 || installments[1].Value != 33.33 {
		t.Errorf("leading values = %v/%v, want 33.33/33.33", installments[0].Value, installments[1].Value)
	}
	if installments[2].Value != 33.34 {
		t.Errorf("last value = %v, want 33.34", installments[2].Value)
	}

	var sum float64
	for _, inst := range installments {
		sum += inst.Value
	}
	if Round2(sum) != 100 {
		t.Errorf("schedule sums to %v, want 100", Round2(sum))
	}
}

func TestGenerateInstallmentsNonInstallmentMethods(t *testing.T) {
	tests := []struct {
		name   string
		method string
	}{
		{"pix", models.PaymentPix},
		{"debit card", models.PaymentCartaoDebito},
		{"unknown method", "dinheiro"},
		{"empty method", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateInstallments(300, 3, tt.method, "2024-01-01"); got != nil {
				t.Errorf("installments = %v, want none", got)
			}
		})
	}
}

func TestGenerateInstallmentsDegenerateInput(t *testing.T) {
	if got := GenerateInstallments(300, 0, models.PaymentBoleto, "2024-01-01"); got != nil {
		t.Errorf("n=0: installments = %v, want none", got)
	}
	if got := GenerateInstallments(0, 3, models.PaymentBoleto, "2024-01-01"); got != nil {
		t.Errorf("total=0: installments = %v, want none", got)
	}
	if got := GenerateInstallments(-10, 3, models.PaymentBoleto, "2024-01-01"); got != nil {
		t.Errorf("total<0: installments = %v, want none", got)
	}
}

func TestGenerateInstallmentsInvalidSaleDateAnchorsToday(t *testing.T) {
	installments := GenerateInstallments(200, 2, models.PaymentBoleto, "not-a-date")

	if len(installments) != 2 {
		t.Fatalf("len(installments) = %d, want 2", len(installments))
	}
	// The anchor degrades to now; the schedule must still be complete
	// and well-formed.
	for i, inst := range installments {
		if inst.DueDate == "" {
			t.Errorf("installment %d has empty due_date", i)
		}
		if inst.Value != 100 {
			t.Errorf("installment %d: value = %v, want 100", i, inst.Value)
		}
	}
}
