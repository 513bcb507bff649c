package interfaces

// Viewer answers the authorization questions the legal notices endpoints ask
// about the caller. Policy lives in the host application.
type Viewer interface {
	IsAdmin() bool
	IsStaff() bool
	IsLogged() bool
}

// Flash collects user facing messages surfaced after a redirect.
type Flash interface {
	AddMessage(kind, message string)
}

const (
	FlashSuccess = "success_detected"
	FlashError   = "error_detected"
)
