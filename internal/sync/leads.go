package sync

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// SyncLeads pushes popup-captured leads into Odoo CRM. Each lead is created
// once and flagged as synced in the source store; a flag write failure is
// logged but does not undo the CRM record (the next run would duplicate the
// lead otherwise, so the flag write is attempted exactly once per create).
func (s *Syncer) SyncLeads(ctx context.Context) error {
	leads, err := s.src.UnsyncedLeads(ctx)
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		log.Println("ℹ️ No leads to synchronize")
		return nil
	}

	log.Printf("📇 %d lead(s) to synchronize...", len(leads))

	for _, lead := range leads {
		contact := strings.TrimSpace(lead.FirstName + " " + lead.LastName)
		source := lead.Source
		if source == "" {
			source = "popup"
		}

		id, err := s.erp.Create("crm.lead", map[string]interface{}{
			"name":         fmt.Sprintf("Lead FENUA SIM - %s", contact),
			"contact_name": contact,
			"email_from":   lead.Email,
			"type":         "lead",
			"description":  fmt.Sprintf("Capté via popup FENUA SIM\nSource: %s", source),
		})
		if err != nil {
			log.Printf("❌ Lead %d failed: %v", lead.ID, err)
			s.report.Errors++
			continue
		}

		if err := s.src.MarkLeadSynced(ctx, lead.ID); err != nil {
			log.Printf("⚠️ Lead %d created in Odoo (ID %d) but flag write failed: %v", lead.ID, id, err)
			s.report.Errors++
			continue
		}

		log.Printf("✅ Lead synchronized → Odoo ID %d", id)
		s.report.Created++
	}

	return nil
}
