package models

import (
	"crypto/subtle"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moyoez/qrdrop/tool"
	"github.com/moyoez/qrdrop/types"
)

// NewSession builds the single session record for this run. The token is
// generated here, exactly once, before the listener binds. filePath must be
// readable; the caller keeps it on disk until shutdown.
func NewSession(filePath, password string, expireSeconds int, isArchive bool) (*types.Session, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot serve %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("cannot serve %s: is a directory (archive it first)", filePath)
	}

	session := &types.Session{
		SessionId: tool.GenerateRandomUUID(),
		Token:     tool.GenerateToken(),
		Password:  password,
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		IsArchive: isArchive,
	}
	if expireSeconds > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(expireSeconds) * time.Second)
	}
	return session, nil
}

// Validate decides the fate of one request. It is pure: no mutation, no
// side effects, just the session, the request values, and the clock.
//
// Precedence is fixed: a wrong token is always a plain not-found, so holders
// of an invalid token learn nothing about the session. With the right token,
// expiry wins over a bad password, since a dead link is the more useful
// answer than an auth challenge nobody can pass anymore.
func Validate(s *types.Session, requestedToken, suppliedPassword string, now time.Time) types.Verdict {
	if !constantTimeEquals(requestedToken, s.Token) {
		return types.VerdictNotFound
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return types.VerdictGone
	}
	if s.Password != "" && !constantTimeEquals(suppliedPassword, s.Password) {
		return types.VerdictUnauthorized
	}
	return types.VerdictOK
}

// constantTimeEquals compares secrets without a timing side channel.
func constantTimeEquals(supplied, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) == 1
}
