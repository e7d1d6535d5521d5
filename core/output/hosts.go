package output

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HostParts is the public-suffix-aware split of a hostname.
// "blog.example.co.uk" has subdomain "blog", domain "example" and
// suffix "co.uk".
type HostParts struct {
	Subdomain string
	Domain    string
	Suffix    string
	FQDN      string
}

// SplitHost decomposes host. IP addresses and bare suffixes come back as
// a domain with no suffix.
func SplitHost(host string) HostParts {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return HostParts{Domain: host, FQDN: host}
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return HostParts{Domain: host, FQDN: host}
	}
	suffix, _ := publicsuffix.PublicSuffix(host)

	return HostParts{
		Subdomain: strings.TrimSuffix(strings.TrimSuffix(host, registrable), "."),
		Domain:    strings.TrimSuffix(registrable, "."+suffix),
		Suffix:    suffix,
		FQDN:      host,
	}
}
