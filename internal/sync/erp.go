package sync

import "github.com/fenuasim/odoosync/internal/odoo"

// ERP is the subset of the Odoo external API the engine drives. It is an
// interface so tests can reconcile against an in-memory double instead of a
// live instance.
type ERP interface {
	Search(model string, domain []interface{}, limit int) ([]int64, error)
	SearchRead(model string, domain []interface{}, fields []string, limit int, result interface{}) error
	Read(model string, ids []int64, fields []string, result interface{}) error
	Create(model string, values map[string]interface{}) (int64, error)
	Write(model string, ids []int64, values map[string]interface{}) error
	Unlink(model string, ids []int64) error
	Invoke(model, method string, ids []int64) (interface{}, error)
}

var _ ERP = (*odoo.Client)(nil)
