package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanRequestValidate(t *testing.T) {
	cases := []struct {
		name  string
		req   ScanRequestAPI
		valid bool
	}{
		{"ok", ScanRequestAPI{Target: "192.168.1.1", StartPort: 1, EndPort: 1024}, true},
		{"full range", ScanRequestAPI{Target: "10.0.0.5", StartPort: 1, EndPort: 65535}, true},
		{"hostname rejected", ScanRequestAPI{Target: "scanme.nmap.org", StartPort: 1, EndPort: 1024}, false},
		{"empty target", ScanRequestAPI{Target: "", StartPort: 1, EndPort: 1024}, false},
		{"zero start", ScanRequestAPI{Target: "192.168.1.1", StartPort: 0, EndPort: 1024}, false},
		{"inverted range", ScanRequestAPI{Target: "192.168.1.1", StartPort: 1024, EndPort: 80}, false},
		{"end too high", ScanRequestAPI{Target: "192.168.1.1", StartPort: 1, EndPort: 70000}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.req.Validate())
		})
	}
}
