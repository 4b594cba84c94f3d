package sync

import "strings"

// topupMarker separates a base package code from the transaction suffix a
// follow-on top-up purchase appends to it.
const topupMarker = "-topup"

// NormalizeCode rewrites a source package code into the spelling the Odoo
// catalog uses today.
//
// Two rewrites apply, in order:
//   - a top-up transaction carries the base package code plus a suffix;
//     only the base code exists as a product, so everything from the
//     "-topup" delimiter on is dropped;
//   - the storefront briefly sold "discover+" branded packages whose codes
//     were later folded back into the plain "discover" family.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)

	if i := strings.Index(code, topupMarker); i > 0 {
		code = code[:i]
	}

	code = strings.ReplaceAll(code, "discover+", "discover")

	return code
}
