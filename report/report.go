// Package report assembles the per-run JSON document from a finalized
// scan session and persists it to disk.
package report

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	grabber "portsight/banner-grabber"
	"portsight/models"
)

// UnresolvedHostname is recorded when the reverse DNS lookup fails.
// Resolution failure never aborts report assembly.
const UnresolvedHostname = "Unable to resolve"

// scanMethod tags every report with the workflow that produced it.
const scanMethod = "Two-stage: Fast discovery + Comprehensive service detection"

// Assembler builds and writes scan reports. The reverse-DNS lookup is
// injectable so tests run without name resolution.
type Assembler struct {
	Resolver func(addr string) ([]string, error)
}

// NewAssembler returns an Assembler using the default resolver.
func NewAssembler() *Assembler {
	return &Assembler{Resolver: net.LookupAddr}
}

// Build merges the session's records into one report. Records missing
// from the comprehensive scan degrade to the port-table service name.
func (a *Assembler) Build(session *models.ScanSession) models.Report {
	rep := models.Report{
		Metadata: models.ReportMetadata{
			ScanTime:            session.Started.Format("2006-01-02_15-04-05"),
			ScanDurationSeconds: session.Duration().Seconds(),
			TargetIP:            session.Target.String(),
			TargetHostname:      a.hostname(session.Target),
			PortsScanned: models.PortsScanned{
				Start: session.Spec.Start,
				End:   session.Spec.End,
				Total: session.Spec.Total(),
			},
			OpenPortsCount: len(session.OpenPorts),
			ScanMethod:     scanMethod,
		},
		OpenPorts: make([]models.ReportPort, 0, len(session.OpenPorts)),
	}

	now := time.Now().Format("15:04:05")
	for _, port := range session.OpenPorts {
		rec := session.Record(port)
		if rec.Service == "" {
			rec.Service = grabber.ServiceName(port)
		}

		scripts := rec.Scripts
		if scripts == nil {
			scripts = map[string]string{}
		}

		rep.OpenPorts = append(rep.OpenPorts, models.ReportPort{
			PortNumber:         port,
			Service:            rec.Service,
			Product:            rec.Product,
			Version:            rec.Version,
			ExtraInfo:          rec.ExtraInfo,
			ServiceDescription: rec.Description(),
			ScriptResults:      scripts,
			CPE:                rec.CPE,
			State:              rec.State,
			ScanTime:           now,
		})
	}

	return rep
}

// Write persists the report as an indented JSON file under dir, mode
// 0644, and returns the file path. Persistence failures are surfaced to
// the operator by the caller; the run still completes in memory.
func (a *Assembler) Write(rep models.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("scan_%s_%s.json", rep.Metadata.TargetIP, rep.Metadata.ScanTime)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(rep, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save scan results: %w", err)
	}

	logrus.Infof("[+] Comprehensive scan results saved to %s", path)
	return path, nil
}

// hostname resolves the target's reverse DNS name, degrading to the
// sentinel on failure.
func (a *Assembler) hostname(target models.ScanTarget) string {
	resolve := a.Resolver
	if resolve == nil {
		resolve = net.LookupAddr
	}

	names, err := resolve(target.String())
	if err != nil || len(names) == 0 {
		logrus.Debugf("Reverse lookup failed for %s: %v", target, err)
		return UnresolvedHostname
	}
	return names[0]
}
