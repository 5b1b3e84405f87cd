package extract

import (
	"testing"
)

func TestInvoiceTotal(t *testing.T) {
	t.Parallel()

	text := `Invoice #1042
Date: 2024-03-01

Item Quantity Price
Widget 2 10.00
Gadget 4 5.00

Total: 40.00`

	if got := InvoiceTotal(text); got != 40.0 {
		t.Fatalf("InvoiceTotal = %v, want 40.0", got)
	}
}

func TestInvoiceTotalStopsAtFooter(t *testing.T) {
	t.Parallel()

	text := `Quantity Item Price
Widget 1 10.00
Subtotal 10.00
Ghost 5 100.00`

	// Lines after the footer keyword never contribute.
	if got := InvoiceTotal(text); got != 10.0 {
		t.Fatalf("InvoiceTotal = %v, want 10.0", got)
	}
}

func TestInvoiceTotalBounds(t *testing.T) {
	t.Parallel()

	text := `Quantity Item Price
Bulk 5000 2.00
Gold 1 99999.00
Widget 3 4.50`

	// Out-of-bounds quantity and price rows are skipped.
	if got := InvoiceTotal(text); got != 13.5 {
		t.Fatalf("InvoiceTotal = %v, want 13.5", got)
	}
}

func TestInvoiceTotalNoItems(t *testing.T) {
	t.Parallel()

	if got := InvoiceTotal("Invoice #7\nDate: 2024-01-01"); got != 0 {
		t.Fatalf("InvoiceTotal = %v, want 0", got)
	}
}

func TestInvoiceTotalRounding(t *testing.T) {
	t.Parallel()

	text := `Quantity Item Price
A 3 0.10
B 1 0.005`

	if got := InvoiceTotal(text); got != 0.31 {
		t.Fatalf("InvoiceTotal = %v, want 0.31", got)
	}
}
