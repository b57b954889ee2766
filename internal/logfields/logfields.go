package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyFile       = "file"
	KeySection    = "section"
	KeyComponent  = "component"
	KeyTag        = "tag"
	KeyAttribute  = "attribute"
	KeyIssue      = "issue"
	KeyOutcome    = "outcome"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyRequestID  = "request_id"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Section(s string) slog.Attr        { return slog.String(KeySection, s) }
func Component(c string) slog.Attr      { return slog.String(KeyComponent, c) }
func Tag(name string) slog.Attr         { return slog.String(KeyTag, name) }
func Attribute(name string) slog.Attr   { return slog.String(KeyAttribute, name) }
func Issue(kind string) slog.Attr       { return slog.String(KeyIssue, kind) }
func Outcome(o string) slog.Attr        { return slog.String(KeyOutcome, o) }
func Method(m string) slog.Attr         { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr         { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr     { return slog.String(KeyRequestID, id) }
func UserAgent(ua string) slog.Attr     { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr  { return slog.String(KeyRemoteAddr, addr) }
func Duration(d time.Duration) slog.Attr { return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
