package pages

import (
	"time"

	"github.com/uptrace/bun"
)

// Canonical page names.
const (
	NameLegalInformation = "legal-information"
	NameTermsOfService   = "terms-of-service"
	NamePrivacyPolicy    = "privacy-policy"

	// DefaultName is the page shown when none is selected.
	DefaultName = NameLegalInformation
)

// pageLabels maps each page name to the catalog key of its default label, in
// seeding order.
var pageLabels = []struct {
	name  string
	label string
}{
	{NameLegalInformation, "Legal Information"},
	{NameTermsOfService, "Terms of Service"},
	{NamePrivacyPolicy, "Privacy Policy"},
}

// Names returns the canonical page names in seeding order.
func Names() []string {
	out := make([]string, 0, len(pageLabels))
	for _, entry := range pageLabels {
		out = append(out, entry.name)
	}
	return out
}

// IsKnownName reports whether name is one of the canonical pages.
func IsKnownName(name string) bool {
	_, ok := LabelKey(name)
	return ok
}

// LabelKey returns the catalog key holding the default label for name.
func LabelKey(name string) (string, bool) {
	for _, entry := range pageLabels {
		if entry.name == name {
			return entry.label, true
		}
	}
	return "", false
}

// Page is one (name, lang) content record. A non empty URL turns the page into
// an external redirect.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Lang       string    `bun:"lang,notnull" json:"lang"`
	Label      string    `bun:"label,notnull" json:"label"`
	Body       string    `bun:"body,notnull" json:"body"`
	URL        string    `bun:"url,notnull" json:"url"`
	LastUpdate time.Time `bun:"last_update,notnull" json:"last_update"`
}

// HasContent reports whether the page carries a body or an external URL.
func (p *Page) HasContent() bool {
	return p != nil && (p.Body != "" || p.URL != "")
}

// NameLabel pairs a page name with its label for pickers.
type NameLabel struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	cloned := *src
	return &cloned
}
