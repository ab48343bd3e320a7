package banner_grabber

import "fmt"

// sslOnlyPorts lists ports that only speak TLS. Plaintext probes on
// these are wasted work and unsafe protocol behavior, so the grabber
// reports a synthetic result instead of connecting.
var sslOnlyPorts = map[int]struct{}{
	443:  {},
	465:  {},
	636:  {},
	993:  {},
	995:  {},
	8443: {},
}

// SSLOnly reports whether a port belongs to the TLS-only set.
func SSLOnly(port int) bool {
	_, ok := sslOnlyPorts[port]
	return ok
}

// staticProbes maps ports to the payload sent right after connecting to
// elicit a more informative banner. HTTP probes are built separately
// because they embed the target host. The MySQL and PostgreSQL entries
// are minimal handshake triggers.
var staticProbes = map[int][]byte{
	21:   []byte("USER anonymous\r\n"),
	22:   []byte("SSH-2.0-OpenSSH_8.2p1\r\n"),
	25:   []byte("EHLO scan.local\r\n"),
	110:  []byte("USER test\r\n"),
	143:  []byte("A1 CAPABILITY\r\n"),
	3306: {0x00, 0x00, 0x00, 0x00, 0x00},
	5432: {0x00, 0x00, 0x00, 0x08, 0x04, 0xd2, 0x16, 0x2f},
}

// Probe returns the payload to send for a port, or nil for a passive
// banner listen.
func Probe(port int, target string) []byte {
	switch port {
	case 80, 8080:
		return []byte(fmt.Sprintf("GET / HTTP/1.1\r\nHost: %s\r\n\r\n", target))
	}
	return staticProbes[port]
}

// dynamicRPCStart is the lower bound of the dynamic RPC port range. The
// range rule wins over the static table for every port it covers.
const dynamicRPCStart = 49152

// serviceNames maps well-known ports to service labels, expanded for
// security assessments.
var serviceNames = map[int]string{
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	67:    "DHCP",
	68:    "DHCP-Client",
	69:    "TFTP",
	80:    "HTTP",
	88:    "Kerberos",
	110:   "POP3",
	123:   "NTP",
	135:   "MS-RPC",
	139:   "NetBIOS-SSN",
	143:   "IMAP",
	161:   "SNMP",
	162:   "SNMP-Trap",
	389:   "LDAP",
	443:   "HTTPS",
	445:   "Microsoft-DS",
	464:   "Kpasswd5",
	465:   "SMTPS",
	587:   "SMTP Submission",
	593:   "RPC-over-HTTP",
	636:   "LDAPS",
	993:   "IMAPS",
	995:   "POP3S",
	1433:  "MS-SQL-S",
	1521:  "Oracle",
	3268:  "GlobalCatalog",
	3269:  "GlobalCatalog-SSL",
	3306:  "MySQL",
	3389:  "MS-WBT-Server",
	5357:  "WSDAPI",
	5432:  "PostgreSQL",
	5900:  "VNC",
	5985:  "WinRM-HTTP",
	5986:  "WinRM-HTTPS",
	6379:  "Redis",
	8080:  "HTTP-Proxy",
	8443:  "HTTPS-Alt",
	9389:  "MC-NMF",
	27017: "MongoDB",
	47001: "WinRM",
	49152: "Dynamic-RPC",
	49153: "Dynamic-RPC",
	49154: "Dynamic-RPC",
	49155: "Dynamic-RPC",
	49156: "Dynamic-RPC",
	49157: "Dynamic-RPC",
	49158: "Dynamic-RPC",
}

// ServiceName identifies a service by port number. The dynamic RPC
// range is evaluated before the static table, and unlisted ports return
// the "Unknown" sentinel rather than an error.
func ServiceName(port int) string {
	if port >= dynamicRPCStart && port <= 65535 {
		return "Dynamic-RPC"
	}
	if name, ok := serviceNames[port]; ok {
		return name
	}
	return "Unknown"
}
