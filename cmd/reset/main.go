// Command reset removes synchronized records from Odoo so a sync run can be
// replayed from a clean slate. It is a maintenance tool: nothing runs
// unless an explicit scope flag is given.
package main

import (
	"flag"
	"log"

	"github.com/fenuasim/odoosync/internal/config"
	"github.com/fenuasim/odoosync/internal/odoo"
)

func main() {
	airaloDrafts := flag.Bool("airalo-drafts", false, "delete draft Airalo sale orders")
	stripe := flag.Bool("stripe", false, "delete Stripe sale orders")
	full := flag.Bool("full", false, "cancel and delete all orders, invoices, payments, products and synced partners")
	flag.Parse()

	if !*airaloDrafts && !*stripe && !*full {
		log.Fatal("❌ Nothing to do: pass -airalo-drafts, -stripe or -full")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	client := odoo.NewClient(cfg.Odoo.URL, cfg.Odoo.Database, cfg.Odoo.Username, cfg.Odoo.Password)
	if _, err := client.Authenticate(); err != nil {
		log.Fatalf("❌ Odoo connection failed: %v", err)
	}

	switch {
	case *full:
		resetFull(client)
	case *airaloDrafts:
		wipe(client, "sale.order", odoo.Domain(
			odoo.Eq("origin", "Airalo"),
			odoo.Eq("state", "draft"),
		))
	case *stripe:
		wipe(client, "sale.order", odoo.Domain(odoo.Eq("origin", "Stripe")))
	}

	log.Println("✅ Reset finished")
}

// resetFull empties everything the sync ever created, cancelling documents
// first because Odoo refuses to unlink confirmed ones.
func resetFull(client *odoo.Client) {
	log.Println("🔥 Full reset (cancelling documents first)...")

	// Sale orders: cancel, then drop lines and orders.
	if ids := searchAll(client, "sale.order", nil); len(ids) > 0 {
		safeInvoke(client, "sale.order", "action_cancel", ids, "cancel sale orders")
		wipe(client, "sale.order.line", nil)
		wipe(client, "sale.order", nil)
	}

	// Invoices and journal entries: back to draft, then unlink.
	for _, cond := range [][]interface{}{
		odoo.NotEq("move_type", "entry"),
		odoo.Eq("move_type", "entry"),
	} {
		ids := searchAll(client, "account.move", odoo.Domain(cond))
		safeInvoke(client, "account.move", "button_draft", ids, "draft account moves")
		if len(ids) > 0 {
			wipe(client, "account.move", odoo.Domain(odoo.In("id", ids)))
		}
	}

	// Payments: version-dependent action names, so try both.
	if ids := searchAll(client, "account.payment", nil); len(ids) > 0 {
		safeInvoke(client, "account.payment", "action_draft", ids, "draft payments")
		safeInvoke(client, "account.payment", "action_cancel", ids, "cancel payments")
		wipe(client, "account.payment", nil)
	}

	wipe(client, "product.product", nil)
	wipe(client, "product.template", nil)
	wipe(client, "product.category", nil)

	// Keep the admin partners (ids 1 and 2).
	wipe(client, "res.partner", odoo.Domain([]interface{}{"id", "not in", []interface{}{1, 2}}))
}

// searchAll returns every id matching the domain.
func searchAll(client *odoo.Client, model string, domain []interface{}) []int64 {
	if domain == nil {
		domain = odoo.Domain()
	}
	ids, err := client.Search(model, domain, 0)
	if err != nil {
		log.Printf("⚠️ Search %s failed: %v", model, err)
		return nil
	}
	return ids
}

// safeInvoke calls a lifecycle action and keeps going on failure: some
// actions do not exist on every Odoo version.
func safeInvoke(client *odoo.Client, model, action string, ids []int64, label string) {
	if len(ids) == 0 {
		return
	}
	if _, err := client.Invoke(model, action, ids); err != nil {
		log.Printf("⚠️ Could not %s (%s.%s): %v", label, model, action, err)
		return
	}
	log.Printf("✅ %s (%s.%s, %d record(s))", label, model, action, len(ids))
}

// wipe unlinks every record of a model matching the domain, continuing even
// when Odoo refuses.
func wipe(client *odoo.Client, model string, domain []interface{}) {
	ids := searchAll(client, model, domain)
	if len(ids) == 0 {
		log.Printf("ℹ️ %s: nothing to delete", model)
		return
	}
	if err := client.Unlink(model, ids); err != nil {
		log.Printf("⚠️ Could not delete %s (continuing): %v", model, err)
		return
	}
	log.Printf("🗑️ %s: %d deleted", model, len(ids))
}
