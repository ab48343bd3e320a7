package version_extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name   string
		banner string
		want   string
	}{
		{"openssh", "SSH-2.0-OpenSSH_8.2p1\r\n", "8.2p1"},
		{"openssh ubuntu", "SSH-2.0-OpenSSH_7.6p1 Ubuntu-4ubuntu0.3", "7.6p1"},
		{"dropbear", "SSH-2.0-dropbear_2019.78", "dropbear_2019.78"},
		{"nginx header", "HTTP/1.1 200 OK\r\nServer: nginx/1.18.0\r\nContent-Type: text/html\r\n", "1.18.0"},
		{"apache header", "HTTP/1.1 403 Forbidden\r\nServer: Apache/2.4.41\r\n", "2.4.41"},
		{"iis header", "HTTP/1.1 200 OK\r\nServer: Microsoft-IIS/10.0\r\n", "10.0"},
		{"smtp esmtp", "220 mail.example.com Postfix ESMTP ready", "Postfix"},
		{"mariadb", "5.5.5-10.3.27-MariaDB", "10.3.27"},
		{"vsftpd generic fallback", "220 (vsFTPd 3.0.3)", "3.0.3"},
		{"explicit version token", "service ready version: 4.2.1-beta", "4.2.1-beta"},
		{"no version", "hello world", Unknown},
		{"empty", "", Unknown},
		{"whitespace only", "   \r\n  ", Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.banner))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	banners := []string{
		"SSH-2.0-OpenSSH_8.2p1\r\n",
		"220 (vsFTPd 3.0.3)",
		"",
		"garbage with no digits",
	}
	for _, banner := range banners {
		first := Extract(banner)
		second := Extract(banner)
		assert.Equal(t, first, second)
	}
}

func TestExtract_LineByLineBeforeWholeBanner(t *testing.T) {
	// The SSH identification on its own line must win over anything a
	// later line could contribute.
	banner := "SSH-2.0-OpenSSH_8.2p1\r\nsome noise 9.9.9\r\n"
	assert.Equal(t, "8.2p1", Extract(banner))
}
