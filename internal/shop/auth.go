package shop

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/backend"
	"github.com/xenking/storefront/internal/domain/session"
)

// Login exchanges the credentials for a session. On success the session
// is installed and the expiry timer armed for exactly the server-granted
// window; on failure the state returns to unauthenticated with the
// backend's reason surfaced to both the caller and the store.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	return e.authenticate(ctx, email, password, e.api.SignIn)
}

// SignUp creates an account and installs its session, with the same
// semantics as Login.
func (e *Engine) SignUp(ctx context.Context, email, password string) error {
	return e.authenticate(ctx, email, password, e.api.SignUp)
}

type exchangeFunc func(ctx context.Context, email, password string) (backend.Credentials, error)

func (e *Engine) authenticate(ctx context.Context, email, password string, exchange exchangeFunc) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	e.store.Dispatch(session.AuthStarted{})

	creds, err := exchange(ctx, email, password)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		e.store.Dispatch(session.AuthFailed{Reason: authReason(err)})
		return err
	}

	sess := session.Session{
		UserID:    creds.UserID,
		Token:     creds.Token,
		ExpiresAt: e.now().Add(creds.ExpiresIn),
	}
	e.store.Dispatch(session.Authenticated{Session: sess})
	e.armExpiry(creds.ExpiresIn)

	e.lg.Info("Session established",
		zap.String("user_id", sess.UserID),
		zap.Time("expires_at", sess.ExpiresAt),
	)
	return nil
}

// Logout cancels the pending expiry and clears the session. All
// subscribers observe the cleared session in the same notification pass.
func (e *Engine) Logout() {
	e.expiry.Cancel()
	e.store.Dispatch(session.Cleared{Cause: session.CauseLogout})
	e.lg.Info("Session cleared", zap.String("cause", "logout"))
}

// armExpiry schedules the auto-logout, replacing any previously armed
// deadline so timers never stack across re-logins.
func (e *Engine) armExpiry(d time.Duration) {
	e.expiry.Arm(d, func() {
		e.store.Dispatch(session.Cleared{Cause: session.CauseExpired})
		e.lg.Info("Session cleared", zap.String("cause", "expired"))
	})
}

// authReason maps an auth exchange error to the reason shown to the
// user: backend reason codes go through the message table, anything
// else is reported as-is.
func authReason(err error) string {
	if be, ok := backend.AsError(err); ok && be.Code != "" {
		return session.ReasonMessage(be.Code)
	}
	return err.Error()
}
