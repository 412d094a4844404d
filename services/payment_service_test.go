package services

import (
	"testing"

	"github.com/Auwalkay/uni-portal/model"
)

func TestMinorToMajor(t *testing.T) {
	cases := []struct {
		minor int64
		want  float64
	}{
		{2500000, 25000},
		{150, 1.5},
		{0, 0},
		{99, 0.99},
	}
	for _, c := range cases {
		if got := MinorToMajor(c.minor); got != c.want {
			t.Errorf("MinorToMajor(%d) = %v, want %v", c.minor, got, c.want)
		}
	}
}

func TestInvoiceDeriveStatus(t *testing.T) {
	invoice := model.Invoice{Amount: 75000}

	cases := []struct {
		paid float64
		want model.InvoiceStatus
	}{
		{0, model.InvoiceStatusPending},
		{100, model.InvoiceStatusPartial},
		{74999.99, model.InvoiceStatusPartial},
		{75000, model.InvoiceStatusPaid},
		{80000, model.InvoiceStatusPaid}, // overpayment still reads as paid
	}

	for _, c := range cases {
		if got := invoice.DeriveStatus(c.paid); got != c.want {
			t.Errorf("DeriveStatus(%.2f) = %s, want %s", c.paid, got, c.want)
		}
	}
}
