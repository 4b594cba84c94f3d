// Package sync reconciles FENUA SIM commerce records held in Supabase
// (eSIM catalog, storefront orders, Stripe checkout sessions, leads) with
// their Odoo counterparts (products, partners, sale orders, invoices,
// payments). Every upsert is keyed on a stable external reference, so any
// pass can be re-run without duplicating records.
package sync

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fenuasim/odoosync/internal/models"
)

// Source is the Supabase-side read interface the engine consumes.
type Source interface {
	Packages(ctx context.Context) ([]models.AiraloPackage, error)
	Orders(ctx context.Context) ([]models.AiraloOrder, error)
	StandardOrders(ctx context.Context) ([]models.StandardOrder, error)
	PaymentOrders(ctx context.Context) ([]models.PaymentOrder, error)
	UnsyncedLeads(ctx context.Context) ([]models.Lead, error)
	MarkLeadSynced(ctx context.Context, id int64) error
}

// Report counts per-record outcomes of one run.
type Report struct {
	Created   int
	Updated   int
	Repaired  int
	Confirmed int
	Skipped   int
	Errors    int
}

// Syncer holds the collaborators for one batch run. It is single-threaded:
// the engine is the sole writer of the orders it reconciles.
type Syncer struct {
	erp      ERP
	src      Source
	http     *http.Client
	validate *validator.Validate

	categID int64
	report  Report
}

// New builds a Syncer around an authenticated ERP client and a source store.
func New(erp ERP, src Source) *Syncer {
	return &Syncer{
		erp:      erp,
		src:      src,
		http:     &http.Client{Timeout: 15 * time.Second},
		validate: validator.New(),
	}
}

// RunFull runs the complete pipeline: duplicate cleanup, catalog, orders,
// payments. Per-record failures are counted and logged, never fatal.
func (s *Syncer) RunFull(ctx context.Context) Report {
	runID := uuid.NewString()[:8]
	log.Printf("🚀 [%s] Full Supabase → Odoo synchronization", runID)

	s.RemoveDuplicateProducts()
	s.SyncCatalog(ctx)
	s.SyncOrders(ctx)
	s.SyncStandardOrders(ctx)
	s.SyncPayments(ctx)

	s.logReport(runID)
	return s.report
}

// RunFast skips the catalog and only reconciles orders and payments.
func (s *Syncer) RunFast(ctx context.Context) Report {
	runID := uuid.NewString()[:8]
	log.Printf("🚀 [%s] Fast Supabase → Odoo synchronization", runID)

	s.SyncOrders(ctx)
	s.SyncPayments(ctx)

	s.logReport(runID)
	return s.report
}

// RunProducts synchronizes the catalog only.
func (s *Syncer) RunProducts(ctx context.Context) Report {
	runID := uuid.NewString()[:8]
	log.Printf("🚀 [%s] Product catalog synchronization", runID)

	s.SyncCatalog(ctx)

	s.logReport(runID)
	return s.report
}

// SyncCatalog upserts every catalog row as an Odoo product.
func (s *Syncer) SyncCatalog(ctx context.Context) {
	packages, err := s.src.Packages(ctx)
	if err != nil {
		log.Printf("❌ Catalog read failed: %v", err)
		s.report.Errors++
		return
	}
	log.Printf("📦 %d package(s) found", len(packages))

	for _, pkg := range packages {
		if err := s.upsertProduct(pkg); err != nil {
			log.Printf("❌ Package %s: %v", pkg.AiraloID, err)
			s.report.Errors++
		}
	}
	log.Println("🎉 Products synchronized")
}

// SyncOrders reconciles every storefront order.
func (s *Syncer) SyncOrders(ctx context.Context) {
	orders, err := s.src.Orders(ctx)
	if err != nil {
		log.Printf("❌ Orders read failed: %v", err)
		s.report.Errors++
		return
	}
	log.Printf("🛒 %d order(s) found", len(orders))

	for _, rec := range orders {
		if err := s.reconcileOrder(rec); err != nil {
			s.reportRecordError(rec.OrderID, err)
		}
	}
}

// SyncStandardOrders reconciles every site-checkout order. The fast run
// leaves these out: they only ever produce draft orders, which the payment
// pass picks up anyway.
func (s *Syncer) SyncStandardOrders(ctx context.Context) {
	orders, err := s.src.StandardOrders(ctx)
	if err != nil {
		log.Printf("❌ Standard orders read failed: %v", err)
		s.report.Errors++
		return
	}
	log.Printf("🛍️ %d standard order(s) found", len(orders))

	for _, rec := range orders {
		if err := s.reconcileStandardOrder(rec); err != nil {
			s.reportRecordError(rec.OrderID, err)
		}
	}
}

// SyncPayments reconciles every Stripe checkout session.
func (s *Syncer) SyncPayments(ctx context.Context) {
	payments, err := s.src.PaymentOrders(ctx)
	if err != nil {
		log.Printf("❌ Payments read failed: %v", err)
		s.report.Errors++
		return
	}
	log.Printf("💳 %d payment(s) found", len(payments))

	for _, rec := range payments {
		if err := s.reconcilePayment(rec); err != nil {
			s.reportRecordError(rec.Reference(), err)
		}
	}
}

// reportRecordError is the per-record error boundary: validation problems
// are skips, anything else is an error. Neither stops the batch.
func (s *Syncer) reportRecordError(ref string, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		log.Printf("⏭️ Skipped %s: %s", verr.Ref, verr.Reason)
		s.report.Skipped++
		return
	}
	log.Printf("❌ Record %s: %v", ref, err)
	s.report.Errors++
}

func (s *Syncer) logReport(runID string) {
	log.Printf("✅ [%s] Done: %d created, %d updated, %d repaired, %d confirmed, %d skipped, %d errors",
		runID, s.report.Created, s.report.Updated, s.report.Repaired,
		s.report.Confirmed, s.report.Skipped, s.report.Errors)
}
