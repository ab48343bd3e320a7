// Package security_analyzer derives qualitative security findings from
// the combination of open ports and services observed during a scan.
package security_analyzer

import (
	"fmt"
	"strings"

	"portsight/models"
)

// adPorts are the Active Directory service ports whose co-occurrence
// signals a domain controller.
var adPorts = map[int]string{
	88:   "Kerberos",
	389:  "LDAP",
	636:  "LDAPS",
	3268: "Global Catalog",
	3269: "Global Catalog SSL",
}

var dbPorts = map[int]string{
	1433: "MS-SQL",
	3306: "MySQL",
	5432: "PostgreSQL",
	1521: "Oracle",
}

var remotePorts = map[int]string{
	22:   "SSH",
	3389: "RDP",
	5985: "WinRM",
	5986: "WinRM-HTTPS",
	23:   "Telnet",
}

var webPorts = []int{80, 443, 8080, 8443}

// maxExpectedPorts is the open-port count above which exposure itself
// becomes a finding.
const maxExpectedPorts = 20

// Analyze evaluates every posture rule against the open ports and their
// records. It is a pure function of its inputs: no I/O, deterministic
// output, fixed rule order, so identical inputs always produce the same
// ordered findings. Rules are independent and several may fire at once.
func Analyze(openPorts []int, records map[int]models.PortRecord) []models.SecurityInsight {
	var insights []models.SecurityInsight

	// Rule 1: domain controller signature.
	var adFound []int
	for _, port := range openPorts {
		if _, ok := adPorts[port]; ok {
			adFound = append(adFound, port)
		}
	}
	if len(adFound) >= 2 {
		insights = append(insights, models.SecurityInsight{
			Finding: "Domain Controller detected - Kerberos, LDAP services indicate AD environment",
			Ports:   adFound,
		})
	}

	// Rule 2: exposed databases, naming each matched product.
	var dbMatches []int
	var dbNames []string
	for _, port := range openPorts {
		if name, ok := dbPorts[port]; ok {
			dbMatches = append(dbMatches, port)
			dbNames = append(dbNames, name)
		}
	}
	if len(dbNames) > 0 {
		insights = append(insights, models.SecurityInsight{
			Finding:  fmt.Sprintf("Database services detected: %s - Potential data targets", strings.Join(dbNames, ", ")),
			Ports:    dbMatches,
			Services: dbNames,
		})
	}

	// Rule 3: remote access exposure.
	var remoteMatches []int
	var remoteNames []string
	for _, port := range openPorts {
		if name, ok := remotePorts[port]; ok {
			remoteMatches = append(remoteMatches, port)
			remoteNames = append(remoteNames, name)
		}
	}
	if len(remoteNames) > 0 {
		insights = append(insights, models.SecurityInsight{
			Finding:  fmt.Sprintf("Remote access services: %s - Authentication targets", strings.Join(remoteNames, ", ")),
			Ports:    remoteMatches,
			Services: remoteNames,
		})
	}

	// Rule 4: SMB enumeration risk.
	if contains(openPorts, 445) {
		insights = append(insights, models.SecurityInsight{
			Finding: "SMB service detected - Check for anonymous access and share enumeration",
			Ports:   []int{445},
		})
	}

	// Rule 5: anonymous FTP, confirmed by the engine's ftp-anon script.
	if contains(openPorts, 21) {
		if rec, ok := records[21]; ok {
			if strings.Contains(rec.Scripts["ftp-anon"], "Anonymous FTP login allowed") {
				insights = append(insights, models.SecurityInsight{
					Finding: "Anonymous FTP access enabled - Potential information disclosure",
					Ports:   []int{21},
				})
			}
		}
	}

	// Rule 6: web attack surface, listing the matched ports.
	var webFound []int
	for _, port := range openPorts {
		if contains(webPorts, port) {
			webFound = append(webFound, port)
		}
	}
	if len(webFound) > 0 {
		insights = append(insights, models.SecurityInsight{
			Finding: fmt.Sprintf("Web services on ports %v - Web application attack surface", webFound),
			Ports:   webFound,
		})
	}

	// Rule 7: cleartext protocol.
	if contains(openPorts, 23) {
		insights = append(insights, models.SecurityInsight{
			Finding: "Telnet service detected - Unencrypted protocol, consider SSH alternative",
			Ports:   []int{23},
		})
	}

	// Rule 8: excessive exposure.
	if len(openPorts) > maxExpectedPorts {
		insights = append(insights, models.SecurityInsight{
			Finding: fmt.Sprintf("High number of open ports (%d) - Review service necessity", len(openPorts)),
			Ports:   openPorts,
		})
	}

	return insights
}

func contains(ports []int, port int) bool {
	for _, p := range ports {
		if p == port {
			return true
		}
	}
	return false
}
