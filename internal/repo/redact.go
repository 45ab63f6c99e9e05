package repo

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// key=value DSNs: password=secret, password='with space'
var kvPasswordRE = regexp.MustCompile(`(?i)\b(password|pass|pwd)\s*=\s*('[^']*'|\S+)`)

// RedactDSN masks the password of a Postgres connection string. Both the URL
// form (postgres://user:pw@host/db) and the key=value form are handled.
func RedactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return redacted
		}
		if u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), redacted)
			}
		}
		q := u.Query()
		for k := range q {
			if isPasswordKey(k) {
				q.Set(k, redacted)
			}
		}
		u.RawQuery = q.Encode()
		// keep the marker readable
		return strings.ReplaceAll(u.String(), url.QueryEscape(redacted), redacted)
	}
	return kvPasswordRE.ReplaceAllString(dsn, "${1}="+redacted)
}

func isPasswordKey(k string) bool {
	switch strings.ToLower(k) {
	case "password", "pass", "pwd":
		return true
	}
	return false
}

// Target describes where o points, safe to log.
func (o Options) Target() string {
	if strings.EqualFold(strings.TrimSpace(o.Driver), DriverPostgres) {
		return RedactDSN(o.DSN)
	}
	return o.Path
}
