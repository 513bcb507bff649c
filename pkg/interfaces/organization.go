package interfaces

import "context"

// Organization holds the organization profile values substituted into page bodies.
type Organization struct {
	Name         string `json:"name" yaml:"name"`
	Slogan       string `json:"slogan" yaml:"slogan"`
	Address      string `json:"address" yaml:"address"`
	Website      string `json:"website" yaml:"website"`
	Phone        string `json:"phone" yaml:"phone"`
	Email        string `json:"email" yaml:"email"`
	Footer       string `json:"footer" yaml:"footer"`
	LogoURL      string `json:"logo_url" yaml:"logo_url"`
	PrintLogoURL string `json:"print_logo_url" yaml:"print_logo_url"`
	LoginURL     string `json:"login_url" yaml:"login_url"`
}

// OrganizationProvider supplies the current organization profile. It is read
// at render time so profile changes propagate without editing pages.
type OrganizationProvider interface {
	Organization(ctx context.Context) (Organization, error)
}
