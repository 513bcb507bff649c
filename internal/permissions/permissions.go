package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
)

const (
	ResourcePages    = "pages"
	ResourceSettings = "settings"
)

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// PermissionSet captures the permission tokens of one resource.
type PermissionSet struct {
	Read   string `json:"read,omitempty"`
	Update string `json:"update,omitempty"`
}

// PagePermissions returns the permissions guarding page administration.
func PagePermissions() PermissionSet {
	return ResourcePermissions(ResourcePages)
}

// SettingsPermissions returns the permissions guarding the settings screen.
func SettingsPermissions() PermissionSet {
	return ResourcePermissions(ResourceSettings)
}

// ResourcePermissions creates a permission set for a resource.
func ResourcePermissions(resource string) PermissionSet {
	normalized := normalizeToken(resource)
	return PermissionSet{
		Read:   Join(normalized, ActionRead),
		Update: Join(normalized, ActionUpdate),
	}
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

// List returns the non-empty permissions in the set.
func (p PermissionSet) List() []string {
	out := make([]string, 0, 2)
	if p.Read != "" {
		out = append(out, p.Read)
	}
	if p.Update != "" {
		out = append(out, p.Update)
	}
	return out
}

type Checker interface {
	Allowed(permission string) bool
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a static list of granted permissions. "<resource>:*" grants every
// action on a resource and "*" grants everything.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, _ := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	if _, ok := s["*"]; ok {
		return true
	}
	return false
}

// FromViewer maps the host roles onto permissions. Administrators hold every
// permission, staff members manage pages, everyone else holds none.
func FromViewer(viewer interfaces.Viewer) Checker {
	return CheckerFunc(func(permission string) bool {
		if viewer == nil {
			return false
		}
		if viewer.IsAdmin() {
			return true
		}
		resource, _ := splitPermission(permission)
		return resource == ResourcePages && viewer.IsStaff()
	})
}

type contextKey string

const checkerKey contextKey = "legalnotices.permissions.checker"

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithViewer stores the viewer's role based checker on the context.
func WithViewer(ctx context.Context, viewer interfaces.Viewer) context.Context {
	if ctx == nil || viewer == nil {
		return ctx
	}
	return WithChecker(ctx, FromViewer(viewer))
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(checkerKey).(Checker)
	return checker
}

// Allowed reports whether the provided permission is allowed for the context.
// Contexts without a checker deny everything.
func Allowed(ctx context.Context, permission string) bool {
	return Require(ctx, permission) == nil
}

// Require enforces a permission requirement. A context without a checker is
// treated as an anonymous visitor.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	checker := CheckerFromContext(ctx)
	if checker != nil && checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

func splitPermission(permission string) (string, Action) {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, ":", 2)
	resource := normalizeToken(parts[0])
	if len(parts) == 1 {
		return resource, ""
	}
	return resource, Action(normalizeToken(parts[1]))
}

func normalizePermission(permission string) string {
	trimmed := strings.TrimSpace(permission)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
