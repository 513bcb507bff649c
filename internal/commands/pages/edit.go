package pagescmd

import (
	"context"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-legalnotices/internal/commands"
	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

const editPageMessageType = "legalnotices.pages.edit"

// PageStore is the slice of pages.Service the edit handler needs.
type PageStore interface {
	Store(ctx context.Context, name, lang, body, url string) error
}

// EditPageCommand replaces the body and external URL of one page translation.
type EditPageCommand struct {
	Name string `json:"cur_name"`
	Lang string `json:"cur_lang"`
	Body string `json:"page_body"`
	// URL redirects visitors elsewhere when set. Empty serves Body.
	URL string `json:"external_url"`
}

// Type implements command.Message.
func (EditPageCommand) Type() string { return editPageMessageType }

// Validate rejects unknown page names, a missing language and malformed
// external URLs.
func (m EditPageCommand) Validate() error {
	errs := validation.Errors{}
	name := strings.TrimSpace(m.Name)
	switch {
	case name == "":
		errs["cur_name"] = validation.NewError("legalnotices.pages.edit.name_required", "page name is required")
	case !pages.IsKnownName(name):
		errs["cur_name"] = validation.NewError("legalnotices.pages.edit.name_unknown", "page name is not a legal notice")
	}
	if strings.TrimSpace(m.Lang) == "" {
		errs["cur_lang"] = validation.NewError("legalnotices.pages.edit.lang_required", "language is required")
	}
	if raw := strings.TrimSpace(m.URL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs["external_url"] = validation.NewError("legalnotices.pages.edit.url_invalid", "external url must be absolute")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EditPageHandler stores page content through the page service.
type EditPageHandler struct {
	inner *commands.Handler[EditPageCommand]
}

// NewEditPageHandler constructs a handler wired to store.
func NewEditPageHandler(store PageStore, logger interfaces.Logger, opts ...commands.HandlerOption[EditPageCommand]) *EditPageHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg EditPageCommand) error {
		return store.Store(ctx, strings.TrimSpace(msg.Name), strings.TrimSpace(msg.Lang), msg.Body, strings.TrimSpace(msg.URL))
	}

	handlerOpts := []commands.HandlerOption[EditPageCommand]{
		commands.WithLogger[EditPageCommand](baseLogger),
		commands.WithOperation[EditPageCommand]("pages.edit"),
		commands.WithMessageFields(func(msg EditPageCommand) map[string]any {
			fields := map[string]any{
				"page": strings.TrimSpace(msg.Name),
				"lang": strings.TrimSpace(msg.Lang),
			}
			if strings.TrimSpace(msg.URL) != "" {
				fields["external"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[EditPageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &EditPageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[EditPageCommand].
func (h *EditPageHandler) Execute(ctx context.Context, msg EditPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
