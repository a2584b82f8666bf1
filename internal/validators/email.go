// Package validators holds the input checks shared by the account handlers.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address carries a domain that
// resolves. Client accounts are keyed by email and receive their booking
// confirmations there, so a typo'd domain at registration means a silent
// loss of every notification that follows.
func IsEmailDomainValid(email string) bool {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" || host == "" {
		return false
	}

	if mx, err := net.LookupMX(host); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(host)
	return err == nil && len(ips) > 0
}
