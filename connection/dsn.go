package connection

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/zeebo/xxh3"
)

// Fingerprint returns a stable short hash of a SQL text, suitable for
// grouping log lines by statement shape.
func Fingerprint(query string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(query))
}

// SanitizeDSN masks the password in URL style and MySQL style DSNs.
func SanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuilt by hand so the mask is not percent-encoded.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// user:pass@tcp(host)/db
	if cfg, err := mysql.ParseDSN(dsn); err == nil && cfg.Passwd != "" {
		creds := cfg.User + ":" + cfg.Passwd + "@"
		if strings.HasPrefix(dsn, creds) {
			return cfg.User + ":****@" + dsn[len(creds):]
		}
	}
	if at := strings.LastIndex(dsn, "@"); at > 0 {
		userPass := dsn[:at]
		if colon := strings.Index(userPass, ":"); colon >= 0 {
			return userPass[:colon+1] + "****" + dsn[at:]
		}
	}
	return dsn
}
