package models

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ScanTarget defines a validated scan target. The address is always an
// IPv4/IPv6 literal, never a hostname.
type ScanTarget struct {
	IP net.IP
}

// ParseTarget validates a raw address string into a ScanTarget.
func ParseTarget(raw string) (ScanTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ScanTarget{}, errors.New("target address cannot be empty")
	}

	ip := net.ParseIP(raw)
	if ip == nil {
		return ScanTarget{}, fmt.Errorf("invalid IP address: %s", raw)
	}
	return ScanTarget{IP: ip}, nil
}

func (t ScanTarget) String() string {
	return t.IP.String()
}

// PortSpec defines the ports to scan: either an inclusive [Start, End]
// range or a discrete set of ports. A non-empty Ports set takes
// precedence over the range.
type PortSpec struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Ports []int `json:"ports,omitempty"`
}

// Validate checks the port range boundaries.
func (ps PortSpec) Validate() error {
	if len(ps.Ports) > 0 {
		for _, p := range ps.Ports {
			if p < 1 || p > 65535 {
				return fmt.Errorf("port %d out of range", p)
			}
		}
		return nil
	}
	if ps.Start < 1 || ps.End > 65535 || ps.Start >= ps.End {
		return fmt.Errorf("invalid port range %d-%d", ps.Start, ps.End)
	}
	return nil
}

// Total returns the number of ports covered by the spec.
func (ps PortSpec) Total() int {
	if len(ps.Ports) > 0 {
		return len(ps.Ports)
	}
	return ps.End - ps.Start + 1
}

// String renders the spec in the engine's ports-argument syntax.
func (ps PortSpec) String() string {
	if len(ps.Ports) > 0 {
		return JoinPorts(ps.Ports)
	}
	return fmt.Sprintf("%d-%d", ps.Start, ps.End)
}

// JoinPorts renders a port list as a comma-separated string.
func JoinPorts(ports []int) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, ",")
}

// PortRecord defines everything known about a single open port. Records
// are created by the orchestrator from engine output and may be enriched
// by banner grabbing before they are finalized into a report.
type PortRecord struct {
	Port      int               `json:"port"`
	State     string            `json:"state"`
	Service   string            `json:"service"`
	Product   string            `json:"product"`
	Version   string            `json:"version"`
	ExtraInfo string            `json:"extrainfo"`
	Scripts   map[string]string `json:"scripts,omitempty"`
	CPE       string            `json:"cpe"`
}

// Description synthesizes the human-readable service string:
// name[ product][ version][ (extrainfo)].
func (r PortRecord) Description() string {
	desc := r.Service
	if r.Product != "" {
		desc += " " + r.Product
	}
	if r.Version != "" {
		desc += " " + r.Version
	}
	if r.ExtraInfo != "" {
		desc += " (" + r.ExtraInfo + ")"
	}
	return desc
}

// BannerTag classifies the outcome of a single banner grab.
type BannerTag int

const (
	TagBanner  BannerTag = iota // raw banner text captured
	TagSSLSkip                  // SSL/TLS-only port, plaintext probe skipped
	TagTimeout
	TagRefused
	TagReset
	TagNetworkError
)

func (t BannerTag) String() string {
	switch t {
	case TagBanner:
		return "banner"
	case TagSSLSkip:
		return "ssl-skip"
	case TagTimeout:
		return "timeout"
	case TagRefused:
		return "refused"
	case TagReset:
		return "reset"
	case TagNetworkError:
		return "network-error"
	}
	return "unknown"
}

// BannerResult pairs a port with either captured banner text or a tagged
// socket failure. Exactly one is produced per probed port.
type BannerResult struct {
	Port   int
	Tag    BannerTag
	Banner string
	Err    error
}

// OK reports whether usable banner text was captured.
func (r BannerResult) OK() bool {
	return r.Tag == TagBanner && r.Banner != ""
}

// Failed reports whether the grab ended in a socket failure.
func (r BannerResult) Failed() bool {
	return r.Err != nil
}

// SecurityInsight defines one derived security finding together with the
// evidence ports and services that triggered it.
type SecurityInsight struct {
	Finding  string   `json:"finding"`
	Ports    []int    `json:"ports,omitempty"`
	Services []string `json:"services,omitempty"`
}
