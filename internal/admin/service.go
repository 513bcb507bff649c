package admin

import (
	"context"
	"errors"
	"strings"

	installcmd "github.com/goliatone/go-legalnotices/internal/commands/install"
	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	settingscmd "github.com/goliatone/go-legalnotices/internal/commands/settings"
	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/permissions"
	"github.com/goliatone/go-legalnotices/internal/replacements"
	"github.com/goliatone/go-legalnotices/internal/resolution"
	"github.com/goliatone/go-legalnotices/internal/settings"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Flash messages, as catalog keys.
const (
	msgPageModified      = "The \"%s\" page has been successfully modified."
	msgPageNotModified   = "The \"%s\" page has not been modified!"
	msgSettingsSaved     = "Legal Notices settings have been saved."
	msgSettingsNotStored = "An SQL error has occurred while storing Legal Notices settings. Please try again, and contact the administrator if the problem persists."
)

var ErrServiceUnavailable = errors.New("admin: service is not configured")

// Session carries the caller of one operation. Lang is the interface
// language; Entered holds a settings form kept from a failed save.
// Permissions, when set, replaces the role mapping derived from Viewer.
type Session struct {
	Viewer      interfaces.Viewer
	Flash       interfaces.Flash
	Lang        string
	Entered     map[string]string
	Permissions permissions.Checker
}

// Deps lists the collaborators of the Service.
type Deps struct {
	Pages         pages.Service
	Settings      *settings.Store
	Resolver      *resolution.Service
	URLs          *navigation.URLs
	Menus         *navigation.Menus
	Localizer     interfaces.Localizer
	EditPage      *pagescmd.EditPageHandler
	StoreSettings *settingscmd.StoreSettingsHandler
	Install       *installcmd.InstallHandler
	Logger        interfaces.Logger
}

// PagesView is the editor screen for one page translation.
type PagesView struct {
	Title           string                `json:"page_title"`
	Page            *pages.Page           `json:"page"`
	Pages           []pages.NameLabel     `json:"pageslist"`
	Languages       []interfaces.Language `json:"langlist"`
	CurrentLang     string                `json:"cur_lang"`
	CurrentLangName string                `json:"cur_lang_name"`
	CurrentName     string                `json:"cur_name"`
	Legend          replacements.Legend   `json:"legend"`
	HTMLEditor      bool                  `json:"html_editor"`
	ChangeURL       string                `json:"change_url"`
	EditURL         string                `json:"edit_url"`
}

// SettingsView is the settings screen. Values holds either the stored
// settings or the form the caller submitted before a failed save.
type SettingsView struct {
	Title     string                `json:"page_title"`
	Values    map[string]string     `json:"settings"`
	Languages []interfaces.Language `json:"langlist"`
	SubmitURL string                `json:"submit_url"`
}

// StoreResult tells the caller where to go after a settings submission.
// Retain is set when the form must be shown again.
type StoreResult struct {
	RedirectURL string            `json:"redirect_url"`
	Retain      map[string]string `json:"retain,omitempty"`
}

// Service implements the back office and public page operations.
type Service struct {
	deps   Deps
	logger interfaces.Logger
}

// NewService validates deps and returns the service.
func NewService(deps Deps) (*Service, error) {
	if deps.Pages == nil || deps.Settings == nil || deps.Resolver == nil || deps.URLs == nil {
		return nil, ErrServiceUnavailable
	}
	if deps.EditPage == nil || deps.StoreSettings == nil || deps.Install == nil {
		return nil, ErrServiceUnavailable
	}
	return &Service{deps: deps, logger: logging.Ensure(deps.Logger)}, nil
}

// ListPages prepares the editor for lang and name. Empty values select the
// default language and the default page.
func (s *Service) ListPages(ctx context.Context, session Session, lang, name string) (*PagesView, error) {
	if err := s.require(ctx, session, permissions.PagePermissions().Read); err != nil {
		return nil, err
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = s.defaultLanguage()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = pages.DefaultName
	}

	page, err := s.deps.Pages.Get(ctx, name, lang)
	if err != nil {
		return nil, err
	}
	names, err := s.deps.Pages.ListNames(ctx, page.Lang)
	if err != nil {
		return nil, err
	}
	changeURL, err := s.deps.URLs.PageChange()
	if err != nil {
		return nil, err
	}
	editURL, err := s.deps.URLs.PageEdit()
	if err != nil {
		return nil, err
	}

	return &PagesView{
		Title:           s.translate(session.Lang, "Pages content"),
		Page:            page,
		Pages:           names,
		Languages:       s.languages(),
		CurrentLang:     page.Lang,
		CurrentLangName: s.languageName(page.Lang),
		CurrentName:     page.Name,
		Legend:          s.deps.Pages.Legend(),
		HTMLEditor:      true,
		ChangeURL:       changeURL,
		EditURL:         editURL,
	}, nil
}

// ChangePage returns the editor URL for the selected page translation.
func (s *Service) ChangePage(ctx context.Context, session Session, lang, name string) (string, error) {
	if err := s.require(ctx, session, permissions.PagePermissions().Read); err != nil {
		return "", err
	}
	return s.deps.URLs.Pages(strings.TrimSpace(lang), strings.TrimSpace(name))
}

// EditPage stores a page translation and reports the outcome through the
// session flash. The returned URL reopens the editor on the same page.
func (s *Service) EditPage(ctx context.Context, session Session, cmd pagescmd.EditPageCommand) (string, error) {
	if err := s.require(ctx, session, permissions.PagePermissions().Update); err != nil {
		return "", err
	}

	label := cmd.Name
	if page, err := s.deps.Pages.Get(ctx, cmd.Name, cmd.Lang); err == nil {
		label = page.Label
	}

	logger := logging.WithPageContext(s.logger, cmd.Name, cmd.Lang)
	if err := s.deps.EditPage.Execute(ctx, cmd); err != nil {
		logger.Warn("admin.pages.edit_failed", "error", err)
		s.flash(session, interfaces.FlashError, strings.ReplaceAll(s.translate(session.Lang, msgPageNotModified), "%s", label))
	} else {
		s.flash(session, interfaces.FlashSuccess, strings.ReplaceAll(s.translate(session.Lang, msgPageModified), "%s", label))
	}

	return s.deps.URLs.Pages(strings.TrimSpace(cmd.Lang), strings.TrimSpace(cmd.Name))
}

// ViewPage resolves the public page name for the session viewer.
func (s *Service) ViewPage(ctx context.Context, session Session, name string) (*resolution.Result, error) {
	return s.deps.Resolver.Resolve(ctx, resolution.Request{
		Name:   name,
		Lang:   session.Lang,
		Viewer: session.Viewer,
	})
}

// Settings returns the settings screen. A form retained from a failed save
// takes precedence over the stored values.
func (s *Service) Settings(ctx context.Context, session Session) (*SettingsView, error) {
	if err := s.require(ctx, session, permissions.SettingsPermissions().Read); err != nil {
		return nil, err
	}
	values := session.Entered
	if len(values) == 0 {
		values = make(map[string]string, len(settings.Keys()))
		for _, key := range settings.Keys() {
			value, _ := s.deps.Settings.Lookup(key)
			values[string(key)] = value.String()
		}
	}
	submitURL, err := s.deps.URLs.Settings()
	if err != nil {
		return nil, err
	}
	return &SettingsView{
		Title:     s.translate(session.Lang, "Legal Notices settings"),
		Values:    values,
		Languages: s.languages(),
		SubmitURL: submitURL,
	}, nil
}

// StoreSettings saves a submitted settings form. Only administrators write;
// everybody is sent back to the settings screen.
func (s *Service) StoreSettings(ctx context.Context, session Session, form map[string]string) (*StoreResult, error) {
	redirect, err := s.deps.URLs.Settings()
	if err != nil {
		return nil, err
	}
	result := &StoreResult{RedirectURL: redirect}

	if err := s.require(ctx, session, permissions.SettingsPermissions().Update); err != nil {
		s.logger.Warn("admin.settings.store_denied")
		return result, nil
	}

	if err := s.deps.StoreSettings.Execute(ctx, settingscmd.StoreSettingsCommand{Form: form}); err != nil {
		s.logger.Warn("admin.settings.store_failed", "error", err)
		s.flash(session, interfaces.FlashError, s.translate(session.Lang, msgSettingsNotStored))
		result.Retain = form
		return result, nil
	}
	s.flash(session, interfaces.FlashSuccess, s.translate(session.Lang, msgSettingsSaved))
	return result, nil
}

// Install seeds both stores, rebuilding them from scratch when force is set.
func (s *Service) Install(ctx context.Context, force bool) error {
	return s.deps.Install.Execute(ctx, installcmd.InstallCommand{Force: force})
}

// AdminMenu returns the back office menu for the session viewer, or nil.
func (s *Service) AdminMenu(session Session) (*navigation.Menu, error) {
	if s.deps.Menus == nil {
		return nil, nil
	}
	return s.deps.Menus.Admin(session.Viewer, session.Lang)
}

// PublicMenu returns the public menu items for the enabled pages.
func (s *Service) PublicMenu(session Session) ([]navigation.Item, error) {
	if s.deps.Menus == nil {
		return nil, nil
	}
	return s.deps.Menus.Public(s.deps.Settings, session.Lang)
}

func (s *Service) require(ctx context.Context, session Session, permission string) error {
	switch {
	case session.Permissions != nil:
		ctx = permissions.WithChecker(ctx, session.Permissions)
	case session.Viewer != nil:
		ctx = permissions.WithViewer(ctx, session.Viewer)
	}
	return permissions.Require(ctx, permission)
}

func (s *Service) flash(session Session, kind, message string) {
	if session.Flash != nil {
		session.Flash.AddMessage(kind, message)
	}
}

func (s *Service) translate(lang, key string) string {
	if s.deps.Localizer == nil {
		return key
	}
	if strings.TrimSpace(lang) == "" {
		lang = s.deps.Localizer.DefaultLanguage()
	}
	return s.deps.Localizer.Translate(lang, key)
}

func (s *Service) languages() []interfaces.Language {
	if s.deps.Localizer == nil {
		return nil
	}
	return s.deps.Localizer.Languages()
}

func (s *Service) languageName(lang string) string {
	for _, language := range s.languages() {
		if language.ID == lang {
			return language.Name
		}
	}
	return lang
}

func (s *Service) defaultLanguage() string {
	if s.deps.Localizer == nil {
		return ""
	}
	return s.deps.Localizer.DefaultLanguage()
}
