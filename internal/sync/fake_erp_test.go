package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fenuasim/odoosync/internal/models"
)

// fakeERP is an in-memory stand-in for the Odoo external API. It models the
// behavior the engine depends on: order-line command tuples, computed order
// totals, the product/template split and the confirm/invoice/pay actions.
type fakeERP struct {
	seq  int64
	data map[string][]map[string]interface{}
}

func newFakeERP() *fakeERP {
	return &fakeERP{data: make(map[string][]map[string]interface{})}
}

func newTestSyncer(f *fakeERP) *Syncer {
	return &Syncer{
		erp:      f,
		http:     &http.Client{Timeout: time.Second},
		validate: validator.New(),
	}
}

func (f *fakeERP) nextID() int64 {
	f.seq++
	return f.seq
}

func (f *fakeERP) count(model string) int {
	return len(f.data[model])
}

func (f *fakeERP) byID(model string, id int64) map[string]interface{} {
	for _, row := range f.data[model] {
		if row["id"].(int64) == id {
			return row
		}
	}
	return nil
}

func (f *fakeERP) first(model string) map[string]interface{} {
	if rows := f.data[model]; len(rows) > 0 {
		return rows[0]
	}
	return nil
}

// insert seeds a row directly, bypassing Create's sale.order handling.
func (f *fakeERP) insert(model string, values map[string]interface{}) int64 {
	row := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		row[k] = v
	}
	id := f.nextID()
	row["id"] = id
	f.data[model] = append(f.data[model], row)
	return id
}

func matches(row map[string]interface{}, domain []interface{}) bool {
	for _, c := range domain {
		cond, ok := c.([]interface{})
		if !ok || len(cond) != 3 {
			return false
		}
		field := cond[0].(string)
		op := cond[1].(string)
		want := cond[2]
		got, present := row[field]

		switch op {
		case "=":
			if !present || fmt.Sprint(got) != fmt.Sprint(want) {
				return false
			}
		case "!=":
			if want == false {
				// "field != false" means "field is set"
				if !present || got == nil || got == false || got == "" {
					return false
				}
			} else if present && fmt.Sprint(got) == fmt.Sprint(want) {
				return false
			}
		case "=ilike":
			if !present || !likeMatchFold(fmt.Sprint(want), fmt.Sprint(got)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// likeMatchFold evaluates a SQL LIKE pattern case-insensitively: `_` is any
// one character, `%` any run, and a backslash escapes the next character.
func likeMatchFold(pattern, value string) bool {
	return likeMatch(strings.ToLower(pattern), strings.ToLower(value))
}

func likeMatch(p, v string) bool {
	if p == "" {
		return v == ""
	}
	switch p[0] {
	case '%':
		for i := 0; i <= len(v); i++ {
			if likeMatch(p[1:], v[i:]) {
				return true
			}
		}
		return false
	case '_':
		return v != "" && likeMatch(p[1:], v[1:])
	case '\\':
		if len(p) < 2 {
			return false
		}
		return v != "" && v[0] == p[1] && likeMatch(p[2:], v[1:])
	default:
		return v != "" && v[0] == p[0] && likeMatch(p[1:], v[1:])
	}
}

func (f *fakeERP) Search(model string, domain []interface{}, limit int) ([]int64, error) {
	var ids []int64
	for _, row := range f.data[model] {
		if matches(row, domain) {
			ids = append(ids, row["id"].(int64))
			if limit > 0 && len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeERP) SearchRead(model string, domain []interface{}, fields []string, limit int, result interface{}) error {
	var rows []map[string]interface{}
	for _, row := range f.data[model] {
		if matches(row, domain) {
			rows = append(rows, row)
			if limit > 0 && len(rows) == limit {
				break
			}
		}
	}
	return decode(rows, result)
}

func (f *fakeERP) Read(model string, ids []int64, fields []string, result interface{}) error {
	var rows []map[string]interface{}
	for _, id := range ids {
		if row := f.byID(model, id); row != nil {
			rows = append(rows, row)
		}
	}
	return decode(rows, result)
}

func (f *fakeERP) Create(model string, values map[string]interface{}) (int64, error) {
	row := make(map[string]interface{}, len(values)+2)
	for k, v := range values {
		row[k] = v
	}
	id := f.nextID()
	row["id"] = id

	switch model {
	case "product.product":
		// Mirror Odoo's product/template split: every variant hangs off a
		// template carrying the shared fields.
		tmplID := f.insert("product.template", values)
		row["product_tmpl_id"] = tmplID
	case "sale.order":
		row["name"] = fmt.Sprintf("S%05d", id)
		if _, ok := row["state"]; !ok {
			row["state"] = "draft"
		}
		cmds, _ := row["order_line"].([]interface{})
		delete(row, "order_line")
		row["order_line"] = []int64{}
		f.data[model] = append(f.data[model], row)
		f.applyLineCommands(row, cmds)
		return id, nil
	}

	f.data[model] = append(f.data[model], row)
	return id, nil
}

func (f *fakeERP) Write(model string, ids []int64, values map[string]interface{}) error {
	for _, id := range ids {
		row := f.byID(model, id)
		if row == nil {
			return fmt.Errorf("%s %d not found", model, id)
		}
		for k, v := range values {
			if model == "sale.order" && k == "order_line" {
				cmds, _ := v.([]interface{})
				f.applyLineCommands(row, cmds)
				continue
			}
			row[k] = v
		}
	}
	return nil
}

func (f *fakeERP) Unlink(model string, ids []int64) error {
	kept := f.data[model][:0]
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	for _, row := range f.data[model] {
		if !drop[row["id"].(int64)] {
			kept = append(kept, row)
		}
	}
	f.data[model] = kept
	return nil
}

func (f *fakeERP) Invoke(model, method string, ids []int64) (interface{}, error) {
	for _, id := range ids {
		row := f.byID(model, id)
		if row == nil {
			return nil, fmt.Errorf("%s %d not found", model, id)
		}
		switch model + "." + method {
		case "sale.order.action_confirm":
			row["state"] = "sale"
		case "sale.order.action_cancel":
			row["state"] = "cancel"
		case "sale.order._create_invoices":
			f.insert("account.move", map[string]interface{}{
				"invoice_origin": row["name"],
				"move_type":      "out_invoice",
				"state":          "draft",
				"payment_state":  "not_paid",
				"amount_total":   row["amount_total"],
				"partner_id":     row["partner_id"],
			})
		case "account.move.action_post":
			row["state"] = "posted"
		case "account.move.button_draft":
			row["state"] = "draft"
		case "account.payment.action_post":
			// Posting a standalone payment does not reconcile it: the
			// invoice keeps reporting not_paid until someone matches the
			// two journal entries.
			row["state"] = "posted"
		default:
			return nil, fmt.Errorf("unsupported action %s.%s", model, method)
		}
	}
	return true, nil
}

// applyLineCommands interprets (0,0,values) command tuples against a
// sale.order row and recomputes its total.
func (f *fakeERP) applyLineCommands(order map[string]interface{}, cmds []interface{}) {
	lines := order["order_line"].([]int64)
	for _, c := range cmds {
		tuple, ok := c.([]interface{})
		if !ok || len(tuple) != 3 {
			continue
		}
		if op, _ := tuple[0].(int); op != 0 {
			continue
		}
		values, _ := tuple[2].(map[string]interface{})
		lineValues := map[string]interface{}{"order_id": order["id"]}
		for k, v := range values {
			lineValues[k] = v
		}
		lines = append(lines, f.insert("sale.order.line", lineValues))
	}
	order["order_line"] = lines

	total := 0.0
	for _, lineID := range lines {
		line := f.byID("sale.order.line", lineID)
		total += asFloat(line["price_unit"]) * asFloat(line["product_uom_qty"])
	}
	order["amount_total"] = total
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func decode(rows []map[string]interface{}, result interface{}) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

// fakeSource is an in-memory source store.
type fakeSource struct {
	packages []models.AiraloPackage
	orders   []models.AiraloOrder
	standard []models.StandardOrder
	payments []models.PaymentOrder
	leads    []models.Lead
	synced   []int64
}

func (s *fakeSource) Packages(context.Context) ([]models.AiraloPackage, error) {
	return s.packages, nil
}

func (s *fakeSource) Orders(context.Context) ([]models.AiraloOrder, error) {
	return s.orders, nil
}

func (s *fakeSource) StandardOrders(context.Context) ([]models.StandardOrder, error) {
	return s.standard, nil
}

func (s *fakeSource) PaymentOrders(context.Context) ([]models.PaymentOrder, error) {
	return s.payments, nil
}

func (s *fakeSource) UnsyncedLeads(context.Context) ([]models.Lead, error) {
	var out []models.Lead
	for _, l := range s.leads {
		if !l.OdooSynced {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeSource) MarkLeadSynced(_ context.Context, id int64) error {
	for i := range s.leads {
		if s.leads[i].ID == id {
			s.leads[i].OdooSynced = true
		}
	}
	s.synced = append(s.synced, id)
	return nil
}
