// Package inline answers chat-platform inline queries from the reaction
// catalog.
package inline

import (
	"fmt"

	"github.com/superstream-live/streamrelay/pkg/catalog"
)

// DefaultRequesterName stands in when the platform omits the requester's
// first name from the inline query.
const DefaultRequesterName = "SomeOne"

// Candidate is one inline-query answer. ID is the catalog slug: the same
// value comes back as the result ID when the user picks the candidate, so
// the chosen-result path can recover the full entry.
type Candidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	MessageText string `json:"messageText"`
}

// Responder matches free-text queries against the catalog.
type Responder struct {
	catalog *catalog.Catalog
}

func NewResponder(cat *catalog.Catalog) *Responder {
	return &Responder{catalog: cat}
}

// Respond returns answer candidates for query, best match first. Empty or
// non-matching queries yield an empty slice, never an error.
func (r *Responder) Respond(query, requesterName string) []Candidate {
	if requesterName == "" {
		requesterName = DefaultRequesterName
	}

	entries := r.catalog.Search(query)
	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, Candidate{
			ID:          e.Slug,
			Title:       e.Title,
			MessageText: fmt.Sprintf("%s redeemed %s", requesterName, e.Title),
		})
	}
	return candidates
}
