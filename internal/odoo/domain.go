package odoo

// Search domains are lists of (field, operator, value) triples, encoded on
// the wire exactly as Odoo's external API expects them. The helpers below
// build the triples so callers never hand-assemble nested []interface{}.

// Eq matches records whose field equals value.
func Eq(field string, value interface{}) []interface{} {
	return []interface{}{field, "=", value}
}

// NotEq matches records whose field differs from value.
func NotEq(field string, value interface{}) []interface{} {
	return []interface{}{field, "!=", value}
}

// ILike matches records whose field equals value case-insensitively.
func ILike(field string, value interface{}) []interface{} {
	return []interface{}{field, "=ilike", value}
}

// In matches records whose field is one of the given ids.
func In(field string, ids []int64) []interface{} {
	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	return []interface{}{field, "in", vals}
}

// Domain assembles condition triples into a search domain.
func Domain(conds ...[]interface{}) []interface{} {
	d := make([]interface{}, len(conds))
	for i, c := range conds {
		d[i] = c
	}
	return d
}
