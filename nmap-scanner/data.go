package nmap_scanner

import (
	"context"
	"fmt"

	"github.com/Ullaakut/nmap/v3"
	"github.com/sirupsen/logrus"

	"portsight/models"
)

// Engine abstracts the external scanning engine behind the two calls
// the orchestrator needs. Production code uses NmapEngine; tests
// substitute a fake.
type Engine interface {
	// Discover performs rate-optimized port discovery over the spec.
	Discover(ctx context.Context, target string, spec models.PortSpec) (*nmap.Run, error)
	// Enumerate performs service/version/script detection restricted to
	// the given ports.
	Enumerate(ctx context.Context, target string, ports []int) (*nmap.Run, error)
}

// NmapEngine invokes the nmap binary through the Ullaakut bindings.
type NmapEngine struct{}

func (NmapEngine) Discover(ctx context.Context, target string, spec models.PortSpec) (*nmap.Run, error) {
	scanner, err := nmap.NewScanner(ctx,
		nmap.WithTargets(target),
		nmap.WithPorts(spec.String()),
		nmap.WithSkipHostDiscovery(),
		nmap.WithMinRate(1000),
		nmap.WithTimingTemplate(nmap.TimingAggressive),
	)
	if err != nil {
		return nil, fmt.Errorf("scan engine unavailable: %w", err)
	}
	return run(scanner)
}

func (NmapEngine) Enumerate(ctx context.Context, target string, ports []int) (*nmap.Run, error) {
	scanner, err := nmap.NewScanner(ctx,
		nmap.WithTargets(target),
		nmap.WithPorts(models.JoinPorts(ports)),
		nmap.WithSkipHostDiscovery(),
		nmap.WithServiceInfo(),
		nmap.WithDefaultScript(),
	)
	if err != nil {
		return nil, fmt.Errorf("scan engine unavailable: %w", err)
	}
	return run(scanner)
}

func run(scanner *nmap.Scanner) (*nmap.Run, error) {
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan engine invocation failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		logrus.Debugf("Engine warnings: %v", *warnings)
	}
	return result, nil
}
