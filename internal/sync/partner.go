package sync

import (
	"strings"

	"github.com/fenuasim/odoosync/internal/odoo"
)

// placeholderEmail pools records arriving without an email onto a single
// partner, so a missing field never blocks the pipeline. Known limitation:
// those orders share one identity until a real address shows up upstream.
const placeholderEmail = "client.inconnu@fenuasim.pf"

// likeEscaper neutralizes SQL LIKE metacharacters. =ilike treats the value
// as a pattern, so an address like a_b@x.com would otherwise match any
// single character in the underscore position.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ensurePartner maps an external contact to a res.partner id, creating one
// on first sight. Lookup is case-insensitive on the normalized email;
// pre-existing partners are returned untouched (their name and reference
// are never overwritten by the sync).
func (s *Syncer) ensurePartner(email, firstName, lastName, externalID string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = placeholderEmail
	}

	pattern := likeEscaper.Replace(email)
	ids, err := retryRead("search res.partner", func() ([]int64, error) {
		return s.erp.Search("res.partner", odoo.Domain(odoo.ILike("email", pattern)), 1)
	})
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" {
		name = email
	}

	values := map[string]interface{}{
		"name":          name,
		"email":         email,
		"customer_rank": 1,
	}
	if externalID != "" {
		values["ref"] = externalID
	}

	return s.erp.Create("res.partner", values)
}
