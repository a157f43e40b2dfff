package validate

import (
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

var dnsServers = []string{"8.8.8.8:53", "1.1.1.1:53"}

// MXChecker verifies that an email's domain publishes MX records. Results
// are cached per domain for the lifetime of the checker; lookup failures
// are treated as inconclusive rather than rejections.
type MXChecker struct {
	mu    sync.Mutex
	cache map[string]bool
}

func NewMXChecker() *MXChecker {
	return &MXChecker{cache: make(map[string]bool)}
}

// HasMX reports whether the domain of addr has at least one MX record.
// Unresolvable lookups return true so transient DNS trouble never drops
// otherwise valid contacts.
func (c *MXChecker) HasMX(addr string) bool {
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return false
	}
	domain := addr[at+1:]

	c.mu.Lock()
	if ok, hit := c.cache[domain]; hit {
		c.mu.Unlock()
		return ok
	}
	c.mu.Unlock()

	ok := lookupMX(domain)
	c.mu.Lock()
	c.cache[domain] = ok
	c.mu.Unlock()
	return ok
}

func lookupMX(domain string) bool {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	client := &dns.Client{Timeout: 5 * time.Second}
	for _, server := range dnsServers {
		resp, _, err := client.Exchange(m, server)
		if err != nil || resp == nil {
			continue
		}
		if resp.Rcode == dns.RcodeNameError {
			return false
		}
		for _, ans := range resp.Answer {
			if _, isMX := ans.(*dns.MX); isMX {
				return true
			}
		}
		return false
	}
	return true
}
