package http_utils

import (
	"net/netip"
	"net/url"
	"strings"
)

// privatePrefixes are the locally-routable IPv4 ranges a remote service cannot reach.
var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
}

// IsPrivateURL reports whether rawURL points at a LAN or loopback host.
// Unparseable URLs and DNS names other than localhost are classified as public.
func IsPrivateURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	return IsPrivateHost(u.Hostname())
}

// IsPrivateHost reports whether host is an IP literal inside one of the private ranges.
func IsPrivateHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
