package odoo

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"time"

	"github.com/kolo/xmlrpc"
)

// Client represents an Odoo XML-RPC client
type Client struct {
	URL       string
	Database  string
	Username  string
	Password  string
	Uid       int
	CommonURL string
	ObjectURL string
	Transport http.RoundTripper
}

// NewClient creates a new Odoo client
func NewClient(url, db, username, password string) *Client {
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		CommonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		ObjectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}
}

// call opens a connection to the given endpoint and performs one RPC call.
func (c *Client) call(endpoint, method string, args []interface{}, result interface{}) error {
	client, err := xmlrpc.NewClient(endpoint, c.Transport)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	return client.Call(method, args, result)
}

// execKw performs an execute_kw call against the object endpoint.
func (c *Client) execKw(model, method string, args []interface{}, kwargs map[string]interface{}, result interface{}) error {
	callArgs := []interface{}{c.Database, c.Uid, c.Password, model, method, args}
	if kwargs != nil {
		callArgs = append(callArgs, kwargs)
	}
	return c.call(c.ObjectURL, "execute_kw", callArgs, result)
}

// Authenticate authenticates with Odoo and returns the user ID
func (c *Client) Authenticate() (int, error) {
	args := []interface{}{c.Database, c.Username, c.Password, make([]interface{}, 0)}
	var uid int
	if err := c.call(c.CommonURL, "authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}
	if uid == 0 {
		return 0, fmt.Errorf("authentication rejected for user %s on %s", c.Username, c.Database)
	}

	c.Uid = uid
	return uid, nil
}

// Search performs a search operation and returns matching record IDs.
// A limit of 0 means unlimited.
func (c *Client) Search(model string, domain []interface{}, limit int) ([]int64, error) {
	kwargs := map[string]interface{}{}
	if limit > 0 {
		kwargs["limit"] = limit
	}
	var ids []int64
	if err := c.execKw(model, "search", []interface{}{domain}, kwargs, &ids); err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	return ids, nil
}

// SearchRead performs a search_read operation.
// result: pointer to slice of structs with json tags matching Odoo fields.
func (c *Client) SearchRead(model string, domain []interface{}, fields []string, limit int, result interface{}) error {
	kwargs := map[string]interface{}{"fields": fields}
	if limit > 0 {
		kwargs["limit"] = limit
	}
	var rawResult []map[string]interface{}
	err := c.execKw(model, "search_read", []interface{}{domain}, kwargs, &rawResult)
	if err != nil {
		return fmt.Errorf("failed to execute search_read: %w", err)
	}

	return decodeRecords(rawResult, result)
}

// Read reads records by IDs
func (c *Client) Read(model string, ids []int64, fields []string, result interface{}) error {
	var rawResult []map[string]interface{}
	err := c.execKw(model, "read", []interface{}{ids}, map[string]interface{}{
		"fields": fields,
	}, &rawResult)
	if err != nil {
		return fmt.Errorf("failed to execute read: %w", err)
	}

	return decodeRecords(rawResult, result)
}

// Create creates a new record
func (c *Client) Create(model string, values map[string]interface{}) (int64, error) {
	var id int64
	if err := c.execKw(model, "create", []interface{}{values}, nil, &id); err != nil {
		return 0, fmt.Errorf("failed to create record: %w", err)
	}
	return id, nil
}

// Write updates existing record(s)
func (c *Client) Write(model string, ids []int64, values map[string]interface{}) error {
	var success bool
	if err := c.execKw(model, "write", []interface{}{ids, values}, nil, &success); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if !success {
		return fmt.Errorf("write operation returned false")
	}
	return nil
}

// Unlink deletes record(s)
func (c *Client) Unlink(model string, ids []int64) error {
	var success bool
	if err := c.execKw(model, "unlink", []interface{}{ids}, nil, &success); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if !success {
		return fmt.Errorf("delete operation returned false")
	}
	return nil
}

// Invoke calls a lifecycle action on an Odoo model (action_confirm,
// action_post, _create_invoices, ...).
func (c *Client) Invoke(model, method string, ids []int64) (interface{}, error) {
	var result interface{}
	if err := c.execKw(model, method, []interface{}{ids}, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to call method %s: %w", method, err)
	}
	return result, nil
}

// decodeRecords converts raw maps to the target struct slice using JSON
// marshaling, so Odoo's dynamic values go through the Str/Many2One decoders.
func decodeRecords(raw []map[string]interface{}, result interface{}) error {
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal raw result: %w", err)
	}
	if err := json.Unmarshal(jsonData, result); err != nil {
		return fmt.Errorf("failed to unmarshal into target: %w", err)
	}
	return nil
}

// toInt64 converts an interface{} value to int64 safely.
func toInt64(v interface{}) (int64, bool) {
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int64(val.Float()), true
	}
	return 0, false
}
