package replacements

import (
	"context"
	"html"
	"time"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Legend group names.
const (
	GroupMain   = "main"
	GroupMember = "member"
	GroupPages  = "pages"
)

// Organization level pattern keys.
const (
	KeyName      = "asso_name"
	KeySlogan    = "asso_slogan"
	KeyAddress   = "asso_address"
	KeyWebsite   = "asso_website"
	KeyLogo      = "asso_logo"
	KeyPrintLogo = "asso_print_logo"
	KeyDateNow   = "date_now"
	KeyLoginURI  = "login_uri"
	KeyFooter    = "asso_footer"

	KeyMemberName  = "name_adh"
	KeyMemberLogin = "login_adh"
	KeyMemberEmail = "mail_adh"
)

// OrganizationProvider is the default base provider. It exposes the
// organization wide markers a host application would normally supply.
type OrganizationProvider struct {
	source interfaces.OrganizationProvider
	now    func() time.Time
}

// OrganizationOption configures the organization provider.
type OrganizationOption func(*OrganizationProvider)

// WithOrganizationClock overrides the clock used for the date marker.
func WithOrganizationClock(clock func() time.Time) OrganizationOption {
	return func(p *OrganizationProvider) {
		if clock != nil {
			p.now = clock
		}
	}
}

// NewOrganizationProvider builds the base provider over an organization source.
func NewOrganizationProvider(source interfaces.OrganizationProvider, opts ...OrganizationOption) *OrganizationProvider {
	p := &OrganizationProvider{source: source, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Provider = (*OrganizationProvider)(nil)

func (p *OrganizationProvider) Patterns() []Pattern {
	return append(mainPatterns(), memberPatterns()...)
}

func mainPatterns() []Pattern {
	return []Pattern{
		Literal(KeyName, "Your organisation name", "{ASSO_NAME}"),
		Literal(KeySlogan, "Your organisation slogan", "{ASSO_SLOGAN}"),
		Literal(KeyAddress, "Your organisation address", "{ASSO_ADDRESS}"),
		Literal(KeyWebsite, "Your organisation website", "{ASSO_WEBSITE}"),
		Literal(KeyLogo, "Your organisation logo", "{ASSO_LOGO}"),
		Literal(KeyPrintLogo, "Your organisation logo (print specific)", "{ASSO_PRINT_LOGO}"),
		Literal(KeyDateNow, "Current date (YYYY-MM-DD)", "{DATE_NOW}"),
		Literal(KeyLoginURI, "Login URI", "{LOGIN_URI}"),
		Literal(KeyFooter, "Footer text", "{ASSO_FOOTER}"),
	}
}

func memberPatterns() []Pattern {
	return []Pattern{
		Literal(KeyMemberName, "Name of the member", "{NAME_ADH}"),
		Literal(KeyMemberLogin, "Login of the member", "{LOGIN_ADH}"),
		Literal(KeyMemberEmail, "Email address of the member", "{MAIL_ADH}"),
	}
}

// Replacements resolves the current organization values. Member markers have
// no value outside a member context and are left untouched.
func (p *OrganizationProvider) Replacements(ctx context.Context) (map[string]string, error) {
	org, err := p.organization(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyName:      org.Name,
		KeySlogan:    org.Slogan,
		KeyAddress:   org.Address,
		KeyWebsite:   org.Website,
		KeyLogo:      imageTag(org.LogoURL, org.Name),
		KeyPrintLogo: imageTag(org.PrintLogoURL, org.Name),
		KeyDateNow:   p.now().Format(time.DateOnly),
		KeyLoginURI:  org.LoginURL,
		KeyFooter:    org.Footer,
	}, nil
}

func (p *OrganizationProvider) Legend() Legend {
	return Legend{
		{Name: GroupMain, Title: "Main information", Patterns: mainPatterns()},
		{Name: GroupMember, Title: "Member information", Patterns: memberPatterns()},
	}
}

func (p *OrganizationProvider) organization(ctx context.Context) (interfaces.Organization, error) {
	if p == nil || p.source == nil {
		return interfaces.Organization{}, nil
	}
	return p.source.Organization(ctx)
}

func imageTag(src, alt string) string {
	if src == "" {
		return ""
	}
	return `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `"/>`
}

// StaticOrganization serves a fixed organization profile.
type StaticOrganization interfaces.Organization

func (s StaticOrganization) Organization(context.Context) (interfaces.Organization, error) {
	return interfaces.Organization(s), nil
}
