package replacements

import (
	"context"
	"regexp"
	"strings"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Page specific pattern keys.
const (
	KeyPhoneLink = "asso_phone_link"
	KeyEmailLink = "asso_email_link"
)

var phoneTargetCleaner = regexp.MustCompile(`[^0-9+]`)

// hiddenFromPages lists base markers that make no sense on a legal page.
var hiddenFromPages = []string{KeyLogo, KeyPrintLogo, KeyDateNow, KeyLoginURI, KeyFooter}

func pagePatterns() []Pattern {
	return []Pattern{
		Literal(KeyPhoneLink, "Your organisation phone number link", "{ASSO_PHONE_LINK}"),
		Literal(KeyEmailLink, "Your organisation email address link", "{ASSO_EMAIL_LINK}"),
	}
}

// PagesProvider adds the phone and email link markers on top of a base
// provider and curates the legend for the page editor.
type PagesProvider struct {
	base   Provider
	own    Provider
	merged Provider
}

// NewPagesProvider composes base with the page specific markers. A nil base
// falls back to an OrganizationProvider over the same source.
func NewPagesProvider(base Provider, source interfaces.OrganizationProvider) *PagesProvider {
	if base == nil {
		base = NewOrganizationProvider(source)
	}
	own := linkProvider{source: source}
	return &PagesProvider{base: base, own: own, merged: Compose(base, own)}
}

var _ Provider = (*PagesProvider)(nil)

func (p *PagesProvider) Patterns() []Pattern {
	return p.merged.Patterns()
}

func (p *PagesProvider) Replacements(ctx context.Context) (map[string]string, error) {
	return p.merged.Replacements(ctx)
}

// Legend returns the base legend without the markers hidden from pages and
// the member group, plus the page specific group.
func (p *PagesProvider) Legend() Legend {
	legend := p.base.Legend().
		WithoutPatterns(GroupMain, hiddenFromPages...).
		Without(GroupMember)
	return legend.Merge(p.own.Legend())
}

type linkProvider struct {
	source interfaces.OrganizationProvider
}

func (l linkProvider) Patterns() []Pattern {
	return pagePatterns()
}

func (l linkProvider) Replacements(ctx context.Context) (map[string]string, error) {
	var org interfaces.Organization
	if l.source != nil {
		var err error
		if org, err = l.source.Organization(ctx); err != nil {
			return nil, err
		}
	}
	return map[string]string{
		KeyPhoneLink: PhoneLink(org.Phone),
		KeyEmailLink: EmailLink(org.Email),
	}, nil
}

func (l linkProvider) Legend() Legend {
	return Legend{{
		Name:     GroupPages,
		Title:    "Specific to the Legal Notices plugin",
		Patterns: pagePatterns(),
	}}
}

// PhoneLink renders phone as a tel: link. The target keeps only digits and
// plus signs; the text is the number as given.
func PhoneLink(phone string) string {
	return `<a href="tel:` + phoneTargetCleaner.ReplaceAllString(phone, "") + `">` + phone + `</a>`
}

// EmailLink renders an address split into styled spans so it is not
// harvestable as plain text.
func EmailLink(email string) string {
	user, domain, _ := strings.Cut(email, "@")
	domain = strings.ReplaceAll(domain, ".", `<span class="p"> [dot] </span>`)
	return `<span class="obfuscate"><span class="u">` + user +
		`</span> [at] <span class="d">` + domain + `</span></span>`
}
