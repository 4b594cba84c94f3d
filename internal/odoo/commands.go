package odoo

// LineCommand is one mutation of a one2many field (e.g. sale.order order
// lines). Odoo's wire format for these is positional command tuples:
// (0, 0, values) creates a line, (1, id, values) updates one and
// (2, id, 0) deletes one. Callers build tagged commands and the encoder
// produces the tuples.
type LineCommand struct {
	op     int
	id     int64
	values map[string]interface{}
}

// CreateLine builds a command that adds a new line with the given values.
func CreateLine(values map[string]interface{}) LineCommand {
	return LineCommand{op: 0, values: values}
}

// UpdateLine builds a command that updates an existing line.
func UpdateLine(id int64, values map[string]interface{}) LineCommand {
	return LineCommand{op: 1, id: id, values: values}
}

// DeleteLine builds a command that removes an existing line.
func DeleteLine(id int64) LineCommand {
	return LineCommand{op: 2, id: id}
}

// Tuple encodes the command to Odoo's positional form.
func (c LineCommand) Tuple() []interface{} {
	switch c.op {
	case 0:
		return []interface{}{0, 0, c.values}
	case 1:
		return []interface{}{1, c.id, c.values}
	default:
		return []interface{}{2, c.id, 0}
	}
}

// EncodeCommands encodes a batch of line commands for a write or create call.
func EncodeCommands(cmds ...LineCommand) []interface{} {
	out := make([]interface{}, len(cmds))
	for i, c := range cmds {
		out[i] = c.Tuple()
	}
	return out
}
