package scan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Resolver failures. Callers branch on these with errors.Is; the distinction
// matters because an unresolvable host is the network's answer while invalid
// input never reaches the network at all.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnresolvableHost = errors.New("unresolvable host")
)

// MaxInputLength is the longest host string Resolve will accept. DNS caps
// names at 255 octets; anything longer is garbage before we even look at it.
const MaxInputLength = 255

type Family uint8

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

func (f Family) String() string {
	if f == FamilyIPv6 {
		return "ipv6"
	}
	return "ipv4"
}

// Target is a validated, connectable scan destination. It is built once by
// Resolve and never modified; a Target serves exactly one scan.
type Target struct {
	Input  string
	Addr   string
	Family Family
}

// Resolve validates a user-supplied host string and normalizes it into a
// Target. Literal IPs are parsed without any network I/O; hostnames get a
// syntax check and then exactly one name lookup. No retries, no caching.
func Resolve(ctx context.Context, input string) (Target, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return Target{}, fmt.Errorf("%w: empty host", ErrInvalidInput)
	}
	if len(input) > MaxInputLength {
		return Target{}, fmt.Errorf("%w: host exceeds %d characters", ErrInvalidInput, MaxInputLength)
	}

	if ip := net.ParseIP(input); ip != nil {
		return Target{Input: input, Addr: ip.String(), Family: familyOf(ip)}, nil
	}

	if !validHostname(input) {
		return Target{}, fmt.Errorf("%w: '%s' is not a valid hostname or IP address", ErrInvalidInput, input)
	}

	log.Debugf("Looking up host %s...", input)

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, input)
	if err != nil {
		return Target{}, fmt.Errorf("%w: lookup of '%s' failed: %v", ErrUnresolvableHost, input, err)
	}
	if len(addrs) == 0 {
		return Target{}, fmt.Errorf("%w: lookup of '%s' returned no addresses", ErrUnresolvableHost, input)
	}

	ip := pickAddress(addrs)
	log.Debugf("Host %s resolved to %s", input, ip)

	return Target{Input: input, Addr: ip.String(), Family: familyOf(ip)}, nil
}

// pickAddress prefers the first IPv4 address so dual-stack hosts are scanned
// over the family a plain TCP connect is most likely to reach.
func pickAddress(addrs []net.IPAddr) net.IP {
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP
		}
	}
	return addrs[0].IP
}

func familyOf(ip net.IP) Family {
	if ip.To4() != nil {
		return FamilyIPv4
	}
	return FamilyIPv6
}

// validHostname applies RFC 1123 label rules: dot-separated labels of 1-63
// characters, alphanumerics and hyphens only, no leading or trailing hyphen.
func validHostname(host string) bool {
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
	}
	return true
}
