package types

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Verdict is the outcome of validating a download request against the
// active session.
type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictNotFound
	VerdictUnauthorized
	VerdictGone
)

// HTTPStatus maps a verdict to the status code written to the client.
func (v Verdict) HTTPStatus() int {
	switch v {
	case VerdictOK:
		return http.StatusOK
	case VerdictUnauthorized:
		return http.StatusUnauthorized
	case VerdictGone:
		return http.StatusGone
	default:
		return http.StatusNotFound
	}
}

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictUnauthorized:
		return "unauthorized"
	case VerdictGone:
		return "gone"
	default:
		return "not_found"
	}
}

// Session is the single in-memory record for the active transfer. Every
// field except the download counter is immutable after creation; the session
// must be fully built before the listener starts accepting connections.
type Session struct {
	SessionId string    // non-secret id, used in logs and the JSON summary
	Token     string    // secret URL path segment
	Password  string    // empty means no password required
	ExpiresAt time.Time // zero means the link never expires
	FilePath  string    // resolved file to serve (original file or built archive)
	FileName  string    // name presented via Content-Disposition
	IsArchive bool      // FilePath is a temporary archive removed at shutdown

	downloads atomic.Int64
}

// IncrementDownloads records one successful delivery and returns the new total.
func (s *Session) IncrementDownloads() int64 {
	return s.downloads.Add(1)
}

// Downloads returns the number of successful deliveries so far.
func (s *Session) Downloads() int64 {
	return s.downloads.Load()
}

// SessionSummary is the machine-readable descriptor printed with -printJson.
type SessionSummary struct {
	SessionId string `json:"sessionId"`
	URL       string `json:"url"`
	Token     string `json:"token"`
	FileName  string `json:"fileName"`
	Protected bool   `json:"protected"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}
