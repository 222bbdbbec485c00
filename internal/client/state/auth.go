package state

import (
	"github.com/electrodrive/catalog-api/internal/models"
)

// AuthStatus is the auth slice state machine position.
type AuthStatus string

const (
	StatusAnonymous     AuthStatus = "anonymous"
	StatusChecking      AuthStatus = "checking"
	StatusAuthenticated AuthStatus = "authenticated"
	StatusLoggingOut    AuthStatus = "logging_out"
)

// AuthState holds the session identity and the state of in-flight
// auth operations.
type AuthState struct {
	Status  AuthStatus
	User    *models.UserData
	Token   string
	Loading bool
	Error   string
}

func initialAuthState() AuthState {
	return AuthState{Status: StatusAnonymous}
}

// Auth slice actions. Every mutating operation follows the
// pending/fulfilled/rejected triplet.

type AuthCheckPending struct{}
type AuthCheckFulfilled struct {
	User  *models.UserData
	Token string
}
type AuthCheckRejected struct{ Err string }

type LoginPending struct{}
type LoginFulfilled struct {
	User  *models.UserData
	Token string
}
type LoginRejected struct{ Err string }

type RegisterPending struct{}
type RegisterFulfilled struct {
	User  *models.UserData
	Token string
}
type RegisterRejected struct{ Err string }

type LogoutPending struct{}
type LogoutFulfilled struct{}
type LogoutRejected struct{ Err string }

// SessionExpired is dispatched when the sync layer reports a 401. It
// drops the identity unconditionally, whichever call triggered it.
type SessionExpired struct{}

// ClearAuthError clears the slice error for inline display reset.
type ClearAuthError struct{}

func (AuthCheckPending) actionName() string   { return "auth/check/pending" }
func (AuthCheckFulfilled) actionName() string { return "auth/check/fulfilled" }
func (AuthCheckRejected) actionName() string  { return "auth/check/rejected" }
func (LoginPending) actionName() string       { return "auth/login/pending" }
func (LoginFulfilled) actionName() string     { return "auth/login/fulfilled" }
func (LoginRejected) actionName() string      { return "auth/login/rejected" }
func (RegisterPending) actionName() string    { return "auth/register/pending" }
func (RegisterFulfilled) actionName() string  { return "auth/register/fulfilled" }
func (RegisterRejected) actionName() string   { return "auth/register/rejected" }
func (LogoutPending) actionName() string      { return "auth/logout/pending" }
func (LogoutFulfilled) actionName() string    { return "auth/logout/fulfilled" }
func (LogoutRejected) actionName() string     { return "auth/logout/rejected" }
func (SessionExpired) actionName() string     { return "auth/sessionExpired" }
func (ClearAuthError) actionName() string     { return "auth/clearError" }

func reduceAuth(s AuthState, action Action) AuthState {
	switch a := action.(type) {
	case AuthCheckPending:
		s.Status = StatusChecking
		s.Loading = true
		s.Error = ""
	case AuthCheckFulfilled:
		s.Status = StatusAuthenticated
		s.Loading = false
		s.User = a.User
		s.Token = a.Token
	case AuthCheckRejected:
		s = initialAuthState()
		s.Error = a.Err

	case LoginPending:
		s.Status = StatusChecking
		s.Loading = true
		s.Error = ""
	case LoginFulfilled:
		s.Status = StatusAuthenticated
		s.Loading = false
		s.User = a.User
		s.Token = a.Token
	case LoginRejected:
		s = initialAuthState()
		s.Error = a.Err

	case RegisterPending:
		s.Status = StatusChecking
		s.Loading = true
		s.Error = ""
	case RegisterFulfilled:
		s.Status = StatusAuthenticated
		s.Loading = false
		s.User = a.User
		s.Token = a.Token
	case RegisterRejected:
		s = initialAuthState()
		s.Error = a.Err

	case LogoutPending:
		s.Status = StatusLoggingOut
		s.Loading = true
	case LogoutFulfilled:
		s = initialAuthState()
	case LogoutRejected:
		s = initialAuthState()
		s.Error = a.Err

	case SessionExpired:
		s = initialAuthState()

	case ClearAuthError:
		s.Error = ""
	}
	return s
}
