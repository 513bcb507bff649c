// Package http provides an optional net/http adapter for the legal notices
// back office and public pages.
//
// Back office routes mount under the admin prefix (default /plugins/legalnotices):
//   - Settings: GET /settings, POST /settings
//   - Page editor: GET /pages, GET /pages/{lang}/{name}, POST /pages/change, POST /pages
//
// Public pages mount at the root: /legal-information, /terms-of-service and
// /privacy-policy.
//
// Views are answered as JSON for the host to render. Host applications supply
// the caller (viewer, flash bag, language) through a SessionFunc.
package http
