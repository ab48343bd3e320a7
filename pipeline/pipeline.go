// Package pipeline wires the reconnaissance stages around one
// explicitly passed ScanSession: discovery, enumeration, banner
// grabbing, version extraction, enrichment, posture analysis and report
// assembly.
package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	grabber "portsight/banner-grabber"
	"portsight/database"
	"portsight/models"
	scanner "portsight/nmap-scanner"
	"portsight/report"
	analyzer "portsight/security-analyzer"
	extractor "portsight/version-extractor"
	webprobe "portsight/web-probe"
)

// Pipeline owns the stage objects for scan runs. A nil DB disables
// history persistence; an empty ReportDir disables report files.
type Pipeline struct {
	Orchestrator *scanner.Orchestrator
	Grabber      *grabber.Grabber
	Assembler    *report.Assembler
	DB           *database.DB

	ReportDir string
	WebProbe  bool
}

// RunResult bundles everything one finished run produced.
type RunResult struct {
	Session    *models.ScanSession
	Report     models.Report
	ReportPath string
}

// New assembles a Pipeline with production stages.
func New(db *database.DB, reportDir string) *Pipeline {
	return &Pipeline{
		Orchestrator: scanner.New(),
		Grabber:      grabber.New(),
		Assembler:    report.NewAssembler(),
		DB:           db,
		ReportDir:    reportDir,
		WebProbe:     true,
	}
}

// Run executes one full scan session. Engine failures degrade to empty
// results with a warning; only context cancellation aborts the run, and
// a cancelled run discards its partial results without writing a
// report.
func (p *Pipeline) Run(ctx context.Context, target models.ScanTarget, spec models.PortSpec) (*RunResult, error) {
	session := models.NewSession(target, spec)
	logrus.Infof("Starting two-stage scan on %s...", target)

	if err := p.Orchestrator.Run(ctx, session); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.Warnf("Fast port discovery error: %v", err)
		session.SetOpenPorts(nil)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if len(session.OpenPorts) > 0 {
		p.fingerprint(ctx, session)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	session.Insights = analyzer.Analyze(session.OpenPorts, session.Records)
	session.Finish()

	rep := p.Assembler.Build(session)
	p.logSummary(session)

	result := &RunResult{Session: session, Report: rep}

	if p.DB != nil {
		if err := p.DB.SaveScan(session, rep); err != nil {
			logrus.Errorf("Failed to persist scan history: %v", err)
		}
	}

	if p.ReportDir != "" && len(session.OpenPorts) > 0 {
		path, err := p.Assembler.Write(rep, p.ReportDir)
		if err != nil {
			logrus.Errorf("[-] %v", err)
		}
		result.ReportPath = path
	}

	return result, nil
}

// fingerprint grabs banners for the open ports and folds banner-derived
// versions and web enrichment into the session records.
func (p *Pipeline) fingerprint(ctx context.Context, session *models.ScanSession) {
	banners, tally := p.Grabber.GrabAll(ctx, session.Target, session.OpenPorts)
	session.Banners = banners
	session.BannerErrors = tally

	for _, port := range session.OpenPorts {
		rec := session.Record(port)

		// The engine's version wins; banners only fill the gap.
		if rec.Version == "" {
			if br, ok := banners[port]; ok && br.OK() {
				if v := extractor.Extract(br.Banner); v != extractor.Unknown {
					rec.Version = v
				}
			}
		}

		if p.WebProbe {
			rec = webprobe.Enrich(session.Target, rec)
		}

		session.Records[port] = rec
	}
}

// logSummary prints the run summary the way the scan log reads it:
// per-port service lines first, then the security analysis.
func (p *Pipeline) logSummary(session *models.ScanSession) {
	logrus.Infof("Scan duration: %.2f seconds", session.Duration().Seconds())
	logrus.Infof("Open ports found: %d", len(session.OpenPorts))

	for _, port := range session.OpenPorts {
		rec := session.Record(port)
		if rec.Service == "" {
			rec.Service = grabber.ServiceName(port)
		}
		logrus.Infof("[+] %d/tcp open %s", port, rec.Description())
	}

	if len(session.Insights) > 0 {
		logrus.Info("SECURITY ANALYSIS:")
		for _, insight := range session.Insights {
			logrus.Infof("[!] %s", insight.Finding)
		}
	}
}
