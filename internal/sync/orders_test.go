package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenuasim/odoosync/internal/models"
	"github.com/fenuasim/odoosync/internal/odoo"
)

func seedProduct(f *fakeERP, code string, price float64) int64 {
	id, _ := f.Create("product.product", map[string]interface{}{
		"default_code": code,
		"name":         code,
		"list_price":   price,
	})
	return id
}

func TestReconcileOrderIdempotent(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)
	productID := seedProduct(f, "discover-7days-1gb", 9.5)

	rec := models.AiraloOrder{
		ID:        1,
		OrderID:   "AIRALO-1001",
		Email:     "A@X.com",
		FirstName: "Ana",
		LastName:  "Teva",
		PackageID: "discover+-7days-1gb", // superseded spelling
		Status:    "completed",
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.reconcileOrder(rec))
	require.NoError(t, s.reconcileOrder(rec))

	require.Equal(t, 1, f.count("sale.order"), "one order per reference")
	order := f.first("sale.order")
	assert.Equal(t, "AIRALO-1001", order["client_order_ref"])
	assert.Equal(t, "Airalo", order["origin"])
	assert.Len(t, order["order_line"], 1, "exactly one line after two runs")

	line := f.first("sale.order.line")
	assert.Equal(t, productID, line["product_id"], "code remapped to the current product")
	assert.Equal(t, 9.5, line["price_unit"])

	assert.Equal(t, "a@x.com", f.first("res.partner")["email"])
	assert.Equal(t, 1, f.count("res.partner"))

	// The completed order was advanced once, not twice.
	assert.Equal(t, "sale", order["state"])
	assert.Equal(t, 1, f.count("account.move"))
	assert.Equal(t, 1, f.count("account.payment"))
}

func TestReconcileStandardOrderStaysDraft(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)
	productID := seedProduct(f, "discover-7days-1gb", 9.5)

	rec := models.StandardOrder{
		ID:        1,
		OrderID:   "WEB-77",
		Email:     "a@x.com",
		PackageID: "discover-7days-1gb",
		CreatedAt: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.reconcileStandardOrder(rec))
	require.NoError(t, s.reconcileStandardOrder(rec))

	require.Equal(t, 1, f.count("sale.order"), "one order per reference")
	order := f.first("sale.order")
	assert.Equal(t, "WEB-77", order["client_order_ref"])
	assert.Equal(t, "Site", order["origin"])
	assert.Len(t, order["order_line"], 1)
	assert.Equal(t, productID, f.first("sale.order.line")["product_id"])

	// No payment status on these rows: never confirmed, never invoiced.
	assert.Equal(t, "draft", order["state"])
	assert.Equal(t, 0, f.count("account.move"))
	assert.Equal(t, 1, s.report.Created)
	assert.Equal(t, 1, s.report.Skipped, "second pass counts once as skipped")
}

func TestReportCountsEachRecordOnce(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)
	seedProduct(f, "discover-7days-1gb", 9.5)

	// An earlier pass synced the order with a mispriced line.
	partnerID := f.insert("res.partner", map[string]interface{}{
		"name": "Ana Teva", "email": "a@x.com",
	})
	_, err := f.Create("sale.order", map[string]interface{}{
		"partner_id":       partnerID,
		"client_order_ref": "cs_test_mismatch",
		"order_line": odoo.EncodeCommands(odoo.CreateLine(map[string]interface{}{
			"product_id": int64(1), "product_uom_qty": 1, "price_unit": 10.0,
		})),
	})
	require.NoError(t, err)

	rec := models.PaymentOrder{
		ID:              1,
		StripeSessionID: "cs_test_mismatch",
		Email:           "a@x.com",
		PackageID:       "discover-7days-1gb",
		Amount:          2500,
		Currency:        "EUR",
		Status:          "completed",
	}
	require.NoError(t, s.reconcilePayment(rec))

	// Already synchronized and then refused at the confirmation gate:
	// still one skip, not two.
	assert.Equal(t, "draft", f.first("sale.order")["state"])
	assert.Equal(t, 1, s.report.Skipped)
}

func TestReconcileOrderMissingFieldsSkipped(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)

	err := s.reconcileOrder(models.AiraloOrder{ID: 1, OrderID: "AIRALO-2"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, f.count("sale.order"))
}

func TestShellOrderRepair(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)
	seedProduct(f, "discover-7days-1gb", 9.5)

	partnerID := f.insert("res.partner", map[string]interface{}{
		"name": "Ana Teva", "email": "a@x.com",
	})
	// An earlier partial pass left the order without lines.
	shellID, err := f.Create("sale.order", map[string]interface{}{
		"partner_id":       partnerID,
		"client_order_ref": "AIRALO-1001",
		"origin":           "Airalo",
	})
	require.NoError(t, err)

	rec := models.AiraloOrder{
		ID:        1,
		OrderID:   "AIRALO-1001",
		Email:     "a@x.com",
		PackageID: "discover-7days-1gb",
	}
	require.NoError(t, s.reconcileOrder(rec))

	require.Equal(t, 1, f.count("sale.order"), "repair must not create a second order")
	order := f.byID("sale.order", shellID)
	require.Len(t, order["order_line"], 1, "repair appends exactly one line")
	assert.Equal(t, 9.5, order["amount_total"])
	assert.Equal(t, 1, s.report.Repaired)

	// A second pass over the repaired order is a no-op.
	require.NoError(t, s.reconcileOrder(rec))
	assert.Len(t, f.byID("sale.order", shellID)["order_line"], 1)
}

func TestReconcilePaymentDuplicateSession(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)
	seedProduct(f, "discover-7days-1gb", 9.5)

	first := models.PaymentOrder{
		ID:              10,
		StripeSessionID: "cs_test_abc123",
		Email:           "a@x.com",
		PackageID:       "discover-7days-1gb",
		Amount:          1999,
		Currency:        "EUR",
		Status:          "completed",
	}
	second := first
	second.ID = 11 // retried webhook row, same checkout session

	require.NoError(t, s.reconcilePayment(first))
	linesAfterFirst := f.count("sale.order.line")

	require.NoError(t, s.reconcilePayment(second))

	assert.Equal(t, 1, f.count("sale.order"), "same session id reconciles once")
	assert.Equal(t, linesAfterFirst, f.count("sale.order.line"), "no new lines on second pass")

	order := f.first("sale.order")
	assert.Equal(t, "cs_test_abc123", order["client_order_ref"])
	assert.Equal(t, "Stripe", order["origin"])
	assert.Equal(t, 19.99, order["amount_total"], "line priced at the paid amount")
}

func TestReconcilePaymentUnknownCodeGetsFallbackProduct(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)

	rec := models.PaymentOrder{
		ID:              1,
		StripeSessionID: "cs_test_zz",
		Email:           "a@x.com",
		PackageID:       "never-seen-code",
		Amount:          2500,
		Currency:        "XPF",
	}
	require.NoError(t, s.reconcilePayment(rec))

	require.Equal(t, 1, f.count("product.product"))
	product := f.first("product.product")
	assert.Equal(t, "never-seen-code", product["default_code"])
	assert.Equal(t, 20.95, product["list_price"], "fallback priced at the paid amount")

	assert.Equal(t, 20.95, f.first("sale.order")["amount_total"])
}

func TestReconcilePaymentBadCurrencySkipped(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)

	err := s.reconcilePayment(models.PaymentOrder{
		ID:              1,
		StripeSessionID: "cs_test_usd",
		PackageID:       "discover-7days-1gb",
		Amount:          1000,
		Currency:        "USD",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, f.count("sale.order"))
}

func TestReconcilePaymentTopupReference(t *testing.T) {
	f := newFakeERP()
	s := newTestSyncer(f)
	productID := seedProduct(f, "discover-7days-1gb", 9.5)

	rec := models.PaymentOrder{
		ID:              1,
		StripeSessionID: "cs_test_topup",
		Email:           "a@x.com",
		PackageID:       "discover-7days-1gb-topup-20260501",
		Amount:          1999,
		Currency:        "EUR",
	}
	require.NoError(t, s.reconcilePayment(rec))

	assert.Equal(t, productID, f.first("sale.order.line")["product_id"],
		"top-up resolves to the base package product")
	assert.Equal(t, 1, f.count("product.product"), "no fallback created")
}
