// Package version_extractor normalizes free-text service banners into
// structured version strings using an ordered set of per-service
// regular expressions.
package version_extractor

import (
	"regexp"
	"strings"
)

// Unknown is returned whenever no pattern matches the banner.
const Unknown = "Unknown Version"

// servicePatterns holds the per-service patterns in matching priority
// order. Within a service the more specific patterns come first, so
// "SSH-2.0-OpenSSH_8.2p1" yields the bare version token rather than the
// whole software identifier.
type servicePatterns struct {
	service  string
	patterns []*regexp.Regexp
}

var orderedPatterns = []servicePatterns{
	{"ssh", compile(
		`OpenSSH[_-]([\d.]+\w*)`,
		`SSH-\d+\.\d+-([\w._-]+)`,
	)},
	{"http", compile(
		`Apache/([\d.]+)`,
		`nginx/([\d.]+)`,
		`Microsoft-IIS/([\d.]+)`,
		`Server:\s+([\w._/-]+)`,
	)},
	{"ftp", compile(
		`([\w._-]+) FTP`,
		`FTP server \(Version ([\w._-]+)\)`,
	)},
	{"smtp", compile(
		`([\w._-]+) ESMTP`,
		`([\w._-]+) Mail Service`,
	)},
	{"mysql", compile(
		`([\d.]+)-MariaDB`,
		`MySQL\s+([\d.]+)`,
	)},
	{"telnet", compile(
		`([\w._-]+) telnetd`,
	)},
	{"pop3", compile(
		`POP3 Server ([\w._-]+)`,
	)},
	{"imap", compile(
		`IMAP4rev1 ([\w._-]+)`,
	)},
}

// genericPatterns are the fallbacks applied to the whole banner when no
// service pattern matched.
var genericPatterns = compile(
	`version[\s:]+([\w._-]+)`,
	`(\d+\.[\d.]*\d)`,
)

func compile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		res = append(res, regexp.MustCompile(`(?i)`+expr))
	}
	return res
}

// Extract returns the version string captured from a banner, or the
// Unknown sentinel. First match wins: service patterns are tried line
// by line, then against the whole banner for matches spanning line
// boundaries, then the generic fallbacks. Extraction is deterministic
// and never fails past this boundary.
func Extract(banner string) string {
	if strings.TrimSpace(banner) == "" {
		return Unknown
	}

	for _, line := range strings.Split(banner, "\n") {
		if v, ok := matchServices(line); ok {
			return v
		}
	}

	if v, ok := matchServices(banner); ok {
		return v
	}

	for _, re := range genericPatterns {
		if m := re.FindStringSubmatch(banner); m != nil {
			return m[1]
		}
	}

	return Unknown
}

func matchServices(text string) (string, bool) {
	for _, sp := range orderedPatterns {
		for _, re := range sp.patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}
