package sync

import (
	"fmt"
	"log"
	"math"

	"github.com/fenuasim/odoosync/internal/odoo"
)

// totalTolerance is the maximum drift allowed between the order's computed
// total and the amount the customer paid before a confirmation is refused.
const totalTolerance = 0.05

// invoiceRec is the slice of account.move fields the engine reads.
type invoiceRec struct {
	ID           int64    `json:"id"`
	State        string   `json:"state"`
	PaymentState odoo.Str `json:"payment_state"`
	AmountTotal  float64  `json:"amount_total"`
}

// advance walks a sale order as far along its lifecycle as its state allows:
// draft, confirmed, invoiced, paid. Each step is idempotent; an order
// already past a step is left untouched. When expected is set, confirmation
// is gated on the order total matching the paid amount within tolerance;
// a mismatch leaves the order in draft and is reported, not raised.
func (s *Syncer) advance(orderID int64, expected *float64) error {
	orders, err := retryRead("read sale.order", func() ([]orderRec, error) {
		var out []orderRec
		err := s.erp.Read("sale.order", []int64{orderID},
			[]string{"name", "state", "amount_total", "partner_id", "order_line"}, &out)
		return out, err
	})
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return fmt.Errorf("sale.order %d not found", orderID)
	}
	order := orders[0]

	if order.State == "draft" || order.State == "sent" {
		if expected != nil && math.Abs(order.AmountTotal-*expected) > totalTolerance {
			log.Printf("⚠️ %s: total %.2f != paid %.2f, confirmation skipped (order stays in draft)",
				order.Name, order.AmountTotal, *expected)
			s.report.Skipped++
			return nil
		}
		if _, err := s.erp.Invoke("sale.order", "action_confirm", []int64{orderID}); err != nil {
			return fmt.Errorf("confirm %s: %w", order.Name, err)
		}
		log.Printf("✔️ Order confirmed: %s", order.Name)
		s.report.Confirmed++
		order.State = "sale"
	}

	if order.State != "sale" && order.State != "done" {
		return nil
	}

	invoice, err := s.ensureInvoice(order)
	if err != nil {
		return err
	}
	if invoice == nil {
		return nil
	}

	if invoice.State == "draft" {
		if _, err := s.erp.Invoke("account.move", "action_post", []int64{invoice.ID}); err != nil {
			return fmt.Errorf("post invoice for %s: %w", order.Name, err)
		}
		log.Printf("🧾 Invoice posted for %s", order.Name)
	}

	return s.ensurePayment(order, invoice)
}

// ensureInvoice creates the order's invoice exactly once, using the
// invoice_origin linkage as the existence check.
func (s *Syncer) ensureInvoice(order orderRec) (*invoiceRec, error) {
	find := func() ([]invoiceRec, error) {
		var out []invoiceRec
		err := s.erp.SearchRead("account.move",
			odoo.Domain(
				odoo.Eq("invoice_origin", order.Name),
				odoo.Eq("move_type", "out_invoice"),
			),
			[]string{"id", "state", "payment_state", "amount_total"}, 1, &out)
		return out, err
	}

	invoices, err := retryRead("search account.move", find)
	if err != nil {
		return nil, err
	}
	if len(invoices) > 0 {
		return &invoices[0], nil
	}

	if _, err := s.erp.Invoke("sale.order", "_create_invoices", []int64{order.ID}); err != nil {
		return nil, fmt.Errorf("create invoice for %s: %w", order.Name, err)
	}

	invoices, err = find()
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		// Nothing invoiceable (e.g. zero-quantity line): not an error,
		// the next run retries once the order is repaired.
		log.Printf("⚠️ %s: no invoice produced", order.Name)
		return nil, nil
	}
	log.Printf("🧾 Invoice created for %s", order.Name)
	return &invoices[0], nil
}

// ensurePayment registers one inbound payment per invoice. Invoices whose
// payment state already shows money received are left untouched.
func (s *Syncer) ensurePayment(order orderRec, invoice *invoiceRec) error {
	switch invoice.PaymentState.String() {
	case "paid", "in_payment":
		return nil
	}

	// A payment created over RPC is not reconciled against the invoice, so
	// the invoice can report not_paid while the money is already registered.
	// The ref carries the order name: look the payment up before creating
	// another one.
	ids, err := retryRead("search account.payment", func() ([]int64, error) {
		return s.erp.Search("account.payment", odoo.Domain(odoo.Eq("ref", order.Name)), 1)
	})
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return nil
	}

	paymentID, err := s.erp.Create("account.payment", map[string]interface{}{
		"payment_type": "inbound",
		"partner_type": "customer",
		"partner_id":   order.PartnerID.ID,
		"amount":       invoice.AmountTotal,
		"ref":          order.Name,
	})
	if err != nil {
		return fmt.Errorf("register payment for %s: %w", order.Name, err)
	}
	if _, err := s.erp.Invoke("account.payment", "action_post", []int64{paymentID}); err != nil {
		return fmt.Errorf("post payment for %s: %w", order.Name, err)
	}

	log.Printf("💶 Payment registered for %s (%.2f €)", order.Name, invoice.AmountTotal)
	return nil
}
