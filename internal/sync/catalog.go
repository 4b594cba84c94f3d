package sync

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/fenuasim/odoosync/internal/models"
	"github.com/fenuasim/odoosync/internal/odoo"
)

// productCategory is the Odoo category all synced eSIM products live under.
const productCategory = "eSIM"

// productRef is the slice of product.product fields the engine reads.
type productRef struct {
	ID            int64         `json:"id"`
	ProductTmplID odoo.Many2One `json:"product_tmpl_id"`
	Image1920     odoo.Str      `json:"image_1920"`
	ListPrice     float64       `json:"list_price"`
}

// upsertProduct creates or updates the Odoo product for one catalog row,
// keyed by default_code. Rows without a code or name are a no-op.
func (s *Syncer) upsertProduct(pkg models.AiraloPackage) error {
	if pkg.AiraloID == "" || pkg.Name == "" {
		log.Printf("⏭️ Package %d skipped: missing code or name", pkg.ID)
		s.report.Skipped++
		return nil
	}

	name := buildProductName(pkg.Name, pkg.Region)
	description := buildDescription(pkg)

	existing, err := s.findProductByCode(pkg.AiraloID)
	if err != nil {
		return err
	}

	if existing != nil {
		values := map[string]interface{}{
			"name":        name,
			"list_price":  pkg.Price(),
			"description": description,
		}
		// Images are first-write-wins: never replace one set by hand.
		if existing.Image1920 == "" && pkg.ImageURL != "" {
			if img := s.fetchImageBase64(pkg.ImageURL); img != "" {
				values["image_1920"] = img
			}
		}
		if err := s.erp.Write("product.template", []int64{existing.ProductTmplID.ID}, values); err != nil {
			return fmt.Errorf("update product %s: %w", pkg.AiraloID, err)
		}
		log.Printf("🔁 Product updated: %s → %s (%.2f €)", pkg.AiraloID, name, pkg.Price())
		s.report.Updated++
		return nil
	}

	categID, err := s.ensureCategory()
	if err != nil {
		return err
	}

	values := map[string]interface{}{
		"name":         name,
		"default_code": pkg.AiraloID,
		"list_price":   pkg.Price(),
		"type":         "service",
		"sale_ok":      true,
		"purchase_ok":  false,
		"description":  description,
		"categ_id":     categID,
	}
	if pkg.ImageURL != "" {
		if img := s.fetchImageBase64(pkg.ImageURL); img != "" {
			values["image_1920"] = img
		}
	}

	id, err := s.erp.Create("product.product", values)
	if err != nil {
		return fmt.Errorf("create product %s: %w", pkg.AiraloID, err)
	}
	log.Printf("✅ Product created: %s (%.2f €), ID %d", name, pkg.Price(), id)
	s.report.Created++
	return nil
}

// findProductByCode returns the product with the given default_code, or nil.
func (s *Syncer) findProductByCode(code string) (*productRef, error) {
	products, err := retryRead("search product.product", func() ([]productRef, error) {
		var out []productRef
		err := s.erp.SearchRead("product.product",
			odoo.Domain(odoo.Eq("default_code", code)),
			[]string{"id", "product_tmpl_id", "image_1920", "list_price"},
			1, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// createFallbackProduct makes a minimal sellable product for an order that
// references a code the catalog sync has not seen. The next catalog pass
// fills in name, description and price.
func (s *Syncer) createFallbackProduct(code string, price float64) (int64, error) {
	categID, err := s.ensureCategory()
	if err != nil {
		return 0, err
	}
	id, err := s.erp.Create("product.product", map[string]interface{}{
		"name":         code,
		"default_code": code,
		"list_price":   price,
		"type":         "service",
		"sale_ok":      true,
		"purchase_ok":  false,
		"categ_id":     categID,
	})
	if err != nil {
		return 0, fmt.Errorf("create fallback product %s: %w", code, err)
	}
	log.Printf("🆕 Fallback product created for unknown code %s, ID %d", code, id)
	return id, nil
}

// ensureCategory finds or creates the eSIM product category, cached for the
// rest of the run.
func (s *Syncer) ensureCategory() (int64, error) {
	if s.categID != 0 {
		return s.categID, nil
	}

	ids, err := retryRead("search product.category", func() ([]int64, error) {
		return s.erp.Search("product.category", odoo.Domain(odoo.Eq("name", productCategory)), 1)
	})
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		s.categID = ids[0]
		return s.categID, nil
	}

	id, err := s.erp.Create("product.category", map[string]interface{}{
		"name": productCategory,
	})
	if err != nil {
		return 0, fmt.Errorf("create product category: %w", err)
	}
	s.categID = id
	return id, nil
}

// RemoveDuplicateProducts unlinks all but the oldest product sharing a
// default_code. Earlier revisions of the sync could double-create under
// concurrent manual edits; this keeps the catalog invariant self-healing.
func (s *Syncer) RemoveDuplicateProducts() {
	log.Println("🧹 Removing duplicate products...")

	type codeRef struct {
		ID          int64    `json:"id"`
		DefaultCode odoo.Str `json:"default_code"`
	}

	var products []codeRef
	err := s.erp.SearchRead("product.product",
		odoo.Domain(odoo.NotEq("default_code", false)),
		[]string{"id", "default_code"}, 5000, &products)
	if err != nil {
		log.Printf("❌ Duplicate scan failed: %v", err)
		s.report.Errors++
		return
	}

	grouped := make(map[string][]int64)
	for _, p := range products {
		grouped[p.DefaultCode.String()] = append(grouped[p.DefaultCode.String()], p.ID)
	}

	deleted := 0
	for code, ids := range grouped {
		if len(ids) < 2 {
			continue
		}
		// Keep the first created record, drop the rest.
		if err := s.erp.Unlink("product.product", ids[1:]); err != nil {
			log.Printf("❌ Could not remove duplicates for %s: %v", code, err)
			s.report.Errors++
			continue
		}
		deleted += len(ids) - 1
		log.Printf("🗑️ Removed %d duplicate(s) of %s", len(ids)-1, code)
	}

	log.Printf("✅ Duplicate cleanup done (%d removed)", deleted)
}

// fetchImageBase64 downloads a product image. Any transport error or
// non-200 status means "no image": the product syncs without one.
func (s *Syncer) fetchImageBase64(url string) string {
	resp, err := s.http.Get(url)
	if err != nil {
		log.Printf("⚠️ Image download failed %s: %v", url, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️ Image download failed %s: status %d", url, resp.StatusCode)
		return ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("⚠️ Image read failed %s: %v", url, err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// buildProductName appends the bracketed region qualifier when present.
func buildProductName(name, region string) string {
	if region != "" {
		return fmt.Sprintf("%s [%s]", name, region)
	}
	return name
}

// buildDescription assembles the multi-line product description from the
// free-text description, the data allowance and the region.
func buildDescription(pkg models.AiraloPackage) string {
	var lines []string
	if pkg.Description != "" {
		lines = append(lines, pkg.Description)
	}
	if pkg.DataAmount > 0 && pkg.DataUnit != "" && pkg.ValidityDays > 0 {
		lines = append(lines, fmt.Sprintf("%g %s pour %d jours", pkg.DataAmount, pkg.DataUnit, pkg.ValidityDays))
	}
	if pkg.Region != "" {
		lines = append(lines, fmt.Sprintf("Région : %s", pkg.Region))
	}
	return strings.Join(lines, "\n")
}
