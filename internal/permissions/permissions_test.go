package permissions

import (
	"context"
	"errors"
	"testing"
)

type viewer struct{ admin, staff, logged bool }

func (v viewer) IsAdmin() bool  { return v.admin }
func (v viewer) IsStaff() bool  { return v.staff }
func (v viewer) IsLogged() bool { return v.logged }

const (
	pagesRead      = "pages:read"
	pagesUpdate    = "pages:update"
	settingsRead   = "settings:read"
	settingsUpdate = "settings:update"
)

func TestFromViewerRoles(t *testing.T) {
	cases := []struct {
		name   string
		viewer viewer
		allow  map[string]bool
	}{
		{
			name:   "admin",
			viewer: viewer{admin: true, staff: true, logged: true},
			allow:  map[string]bool{pagesRead: true, pagesUpdate: true, settingsRead: true, settingsUpdate: true},
		},
		{
			name:   "staff",
			viewer: viewer{staff: true, logged: true},
			allow:  map[string]bool{pagesRead: true, pagesUpdate: true, settingsRead: false, settingsUpdate: false},
		},
		{
			name:   "member",
			viewer: viewer{logged: true},
			allow:  map[string]bool{pagesRead: false, pagesUpdate: false, settingsRead: false, settingsUpdate: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := WithViewer(context.Background(), tc.viewer)
			for perm, want := range tc.allow {
				if got := Allowed(ctx, perm); got != want {
					t.Fatalf("%s: expected %v, got %v", perm, want, got)
				}
			}
		})
	}
}

func TestRequireWithoutCheckerDenies(t *testing.T) {
	err := Require(context.Background(), settingsUpdate)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected denial, got %v", err)
	}
	var permErr Error
	if !errors.As(err, &permErr) || permErr.Permission != settingsUpdate {
		t.Fatalf("expected permission in error, got %v", err)
	}
}

func TestSetWildcards(t *testing.T) {
	set := NewSet("pages:*", " Settings:Read ")
	if !set.Allowed(pagesUpdate) {
		t.Fatal("expected resource wildcard to match")
	}
	if !set.Allowed(settingsRead) {
		t.Fatal("expected normalized permission to match")
	}
	if set.Allowed(settingsUpdate) {
		t.Fatal("did not expect settings:update")
	}
	if !NewSet("*").Allowed(settingsUpdate) {
		t.Fatal("expected global wildcard to match")
	}
}

func TestResourcePermissionsList(t *testing.T) {
	got := SettingsPermissions().List()
	if len(got) != 2 || got[0] != settingsRead || got[1] != settingsUpdate {
		t.Fatalf("unexpected permissions: %v", got)
	}
	if got := PagePermissions(); got.Read != pagesRead || got.Update != pagesUpdate {
		t.Fatalf("unexpected page permissions: %+v", got)
	}
}

func TestCheckerOnContextTakesPrecedence(t *testing.T) {
	var asked []string
	checker := CheckerFunc(func(permission string) bool {
		asked = append(asked, permission)
		return permission == settingsRead
	})
	ctx := WithChecker(context.Background(), checker)

	if err := Require(ctx, " Settings:Read "); err != nil {
		t.Fatalf("expected settings:read allowed, got %v", err)
	}
	if Allowed(ctx, pagesUpdate) {
		t.Fatal("did not expect pages:update")
	}
	if len(asked) != 2 || asked[0] != settingsRead {
		t.Fatalf("expected normalized permissions, got %v", asked)
	}
	if WithChecker(ctx, nil) != ctx {
		t.Fatal("expected nil checker to keep context")
	}
}
