// Package auth is the local sign-in collaborator: it remembers which email is
// signed in on this machine.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskdeck/internal/projectctx"
	"taskdeck/internal/store"

	"github.com/sirupsen/logrus"
)

const sessionFileName = "session.json"

var ErrNotSignedIn = errors.New("not signed in")

type sessionFile struct {
	Email      string    `json:"email"`
	SignedInAt time.Time `json:"signedInAt"`
}

// Session persists the signed-in email in <Dir>/session.json.
type Session struct {
	Dir string
	Log *logrus.Logger
	Now func() time.Time
}

func (s Session) path() string {
	return filepath.Join(s.Dir, sessionFileName)
}

func (s Session) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SignIn records email as the current user. The address is normalized to
// lower case.
func (s Session) SignIn(email string) (projectctx.User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return projectctx.User{}, fmt.Errorf("invalid email %q", email)
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	f := sessionFile{Email: strings.ToLower(addr.Address), SignedInAt: now}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return projectctx.User{}, err
	}
	if err := store.WriteFileAtomic(s.path(), b, 0o600); err != nil {
		return projectctx.User{}, fmt.Errorf("write session: %w", err)
	}
	s.logger().WithFields(logrus.Fields{"email": f.Email}).Debug("signed in")
	return projectctx.User{Email: f.Email}, nil
}

// CurrentUser reports the signed-in user. A missing or unreadable session
// counts as signed out.
func (s Session) CurrentUser() (projectctx.User, bool) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger().WithError(err).Warn("read session")
		}
		return projectctx.User{}, false
	}
	var f sessionFile
	if err := json.Unmarshal(b, &f); err != nil || strings.TrimSpace(f.Email) == "" {
		return projectctx.User{}, false
	}
	return projectctx.User{Email: f.Email}, true
}

// SignOut removes the session. Signing out twice is not an error.
func (s Session) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	s.logger().Debug("signed out")
	return nil
}
