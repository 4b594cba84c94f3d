package sync

import (
	"fmt"
	"log"
	"time"

	"github.com/fenuasim/odoosync/internal/models"
	"github.com/fenuasim/odoosync/internal/odoo"
)

// odooDateLayout is the datetime format Odoo's external API expects.
const odooDateLayout = "2006-01-02 15:04:05"

// orderRec is the slice of sale.order fields the engine reads.
type orderRec struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	State       string        `json:"state"`
	OrderLine   []int64       `json:"order_line"`
	AmountTotal float64       `json:"amount_total"`
	PartnerID   odoo.Many2One `json:"partner_id"`
}

// ensureOutcome says what ensureSaleOrder did with the record. Exactly one
// report counter fires per record, chosen from this outcome plus whatever
// advance does afterwards.
type ensureOutcome int

const (
	orderCreated ensureOutcome = iota
	orderRepaired
	orderUnchanged
)

// reconcileOrder materializes one storefront order as a sale.order, keyed by
// the order id stored in client_order_ref. Running it again for the same
// reference is a no-op once the order has a line.
func (s *Syncer) reconcileOrder(rec models.AiraloOrder) error {
	if err := s.validate.Struct(rec); err != nil {
		return &ValidationError{Ref: rec.OrderID, Reason: err.Error()}
	}

	code := NormalizeCode(rec.PackageID)

	orderID, outcome, err := s.ensureSaleOrder(saleOrderInput{
		Reference: rec.OrderID,
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Code:      code,
		Origin:    "Airalo",
		Date:      rec.CreatedAt,
	})
	if err != nil {
		return err
	}
	if outcome == orderCreated {
		log.Printf("🟢 Order created: %s", rec.OrderID)
	}

	if rec.Completed() {
		return s.advance(orderID, nil)
	}
	if outcome == orderUnchanged {
		s.report.Skipped++
	}
	return nil
}

// reconcileStandardOrder materializes one site-checkout order. These rows
// carry no payment status, so the sale order is created in draft and left
// for the matching payment record to advance.
func (s *Syncer) reconcileStandardOrder(rec models.StandardOrder) error {
	if err := s.validate.Struct(rec); err != nil {
		return &ValidationError{Ref: rec.OrderID, Reason: err.Error()}
	}

	code := NormalizeCode(rec.PackageID)

	_, outcome, err := s.ensureSaleOrder(saleOrderInput{
		Reference: rec.OrderID,
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Code:      code,
		Origin:    "Site",
		Date:      rec.CreatedAt,
	})
	if err != nil {
		return err
	}
	switch outcome {
	case orderCreated:
		log.Printf("🟢 Standard order created: %s", rec.OrderID)
	case orderUnchanged:
		s.report.Skipped++
	}
	return nil
}

// reconcilePayment materializes one Stripe session as a sale.order. The
// session id is the idempotency key; the line is priced at the amount the
// customer actually paid, normalized to EUR.
func (s *Syncer) reconcilePayment(rec models.PaymentOrder) error {
	ref := rec.Reference()

	if err := s.validate.Struct(rec); err != nil {
		return &ValidationError{Ref: ref, Reason: err.Error()}
	}

	paid, err := NormalizeAmount(rec.Amount, rec.Currency)
	if err != nil {
		return &ValidationError{Ref: ref, Reason: err.Error()}
	}

	code := NormalizeCode(rec.PackageID)

	orderID, outcome, err := s.ensureSaleOrder(saleOrderInput{
		Reference:  ref,
		Email:      rec.Email,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Code:       code,
		Origin:     "Stripe",
		Date:       rec.CreatedAt,
		PaidAmount: &paid,
	})
	if err != nil {
		return err
	}
	if outcome == orderCreated {
		log.Printf("🟢 Stripe order created: %s (%.2f €)", ref, paid)
	}

	if rec.Completed() {
		return s.advance(orderID, &paid)
	}
	if outcome == orderUnchanged {
		s.report.Skipped++
	}
	return nil
}

// saleOrderInput is everything needed to create or repair one sale.order.
type saleOrderInput struct {
	Reference  string
	Email      string
	FirstName  string
	LastName   string
	Code       string
	Origin     string
	Date       time.Time
	PaidAmount *float64 // set for payment records: the line price overrides the list price
}

// ensureSaleOrder looks the order up by its idempotency key and either
// creates it with one line, repairs a shell order that is missing its line,
// or leaves a fully-synchronized order untouched.
func (s *Syncer) ensureSaleOrder(in saleOrderInput) (int64, ensureOutcome, error) {
	ids, err := retryRead("search sale.order", func() ([]int64, error) {
		return s.erp.Search("sale.order", odoo.Domain(odoo.Eq("client_order_ref", in.Reference)), 1)
	})
	if err != nil {
		return 0, orderUnchanged, err
	}

	if len(ids) > 0 {
		repaired, err := s.repairShellOrder(ids[0], in)
		if err != nil {
			return 0, orderUnchanged, err
		}
		if repaired {
			return ids[0], orderRepaired, nil
		}
		log.Printf("⏭️ Order %s already synchronized", in.Reference)
		return ids[0], orderUnchanged, nil
	}

	partnerID, err := s.ensurePartner(in.Email, in.FirstName, in.LastName, in.Reference)
	if err != nil {
		return 0, orderUnchanged, err
	}

	productID, price, err := s.resolveLine(in.Code, in.PaidAmount)
	if err != nil {
		return 0, orderUnchanged, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	orderID, err := s.erp.Create("sale.order", map[string]interface{}{
		"partner_id":       partnerID,
		"client_order_ref": in.Reference,
		"origin":           in.Origin,
		"date_order":       date.UTC().Format(odooDateLayout),
		"order_line": odoo.EncodeCommands(odoo.CreateLine(map[string]interface{}{
			"product_id":      productID,
			"product_uom_qty": 1,
			"price_unit":      price,
		})),
	})
	if err != nil {
		return 0, orderUnchanged, fmt.Errorf("create sale.order %s: %w", in.Reference, err)
	}
	s.report.Created++
	return orderID, orderCreated, nil
}

// repairShellOrder appends the missing line to an order created by an
// earlier partial sync pass. An order with lines is left untouched. This
// step is mandatory: every synchronized order must end up invoiceable.
func (s *Syncer) repairShellOrder(orderID int64, in saleOrderInput) (bool, error) {
	orders, err := retryRead("read sale.order", func() ([]orderRec, error) {
		var out []orderRec
		err := s.erp.Read("sale.order", []int64{orderID}, []string{"order_line", "state"}, &out)
		return out, err
	})
	if err != nil {
		return false, err
	}
	if len(orders) == 0 {
		return false, fmt.Errorf("sale.order %d vanished during repair", orderID)
	}
	if len(orders[0].OrderLine) > 0 {
		return false, nil
	}

	productID, price, err := s.resolveLine(in.Code, in.PaidAmount)
	if err != nil {
		return false, err
	}

	err = s.erp.Write("sale.order", []int64{orderID}, map[string]interface{}{
		"order_line": odoo.EncodeCommands(odoo.CreateLine(map[string]interface{}{
			"product_id":      productID,
			"product_uom_qty": 1,
			"price_unit":      price,
		})),
	})
	if err != nil {
		return false, fmt.Errorf("repair sale.order %s: %w", in.Reference, err)
	}

	log.Printf("🧩 Shell order repaired: %s", in.Reference)
	s.report.Repaired++
	return true, nil
}

// resolveLine finds the product for a package code and decides the unit
// price: the paid amount when the record is a payment, the catalog list
// price otherwise. Unknown codes get a minimal fallback product.
func (s *Syncer) resolveLine(code string, paidAmount *float64) (int64, float64, error) {
	product, err := s.findProductByCode(code)
	if err != nil {
		return 0, 0, err
	}

	if product == nil {
		price := 0.0
		if paidAmount != nil {
			price = *paidAmount
		}
		id, err := s.createFallbackProduct(code, price)
		if err != nil {
			return 0, 0, err
		}
		return id, price, nil
	}

	price := product.ListPrice
	if paidAmount != nil {
		price = *paidAmount
	}
	return product.ID, price, nil
}
