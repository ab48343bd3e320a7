// Package nmap_scanner drives the two-stage scan workflow: fast port
// discovery over the whole requested range, then comprehensive
// service/script enumeration restricted to the ports stage 1 found.
package nmap_scanner

import (
	"context"
	"sort"

	"github.com/Ullaakut/nmap/v3"
	"github.com/sirupsen/logrus"

	"portsight/models"
)

// Orchestrator normalizes external engine output into the session's
// data model. Engine invocations are strictly sequential: stage 2's
// port list is computed from stage 1's result.
type Orchestrator struct {
	engine Engine
}

// New returns an Orchestrator backed by the nmap binary.
func New() *Orchestrator {
	return &Orchestrator{engine: NmapEngine{}}
}

// NewWithEngine returns an Orchestrator over a custom engine.
func NewWithEngine(e Engine) *Orchestrator {
	return &Orchestrator{engine: e}
}

// Run populates the session with open ports and per-port records. A
// failed stage-1 invocation is returned to the caller, which treats it
// as a warning and continues with empty results; a failed stage 2
// degrades to records synthesized later from the port table.
func (o *Orchestrator) Run(ctx context.Context, session *models.ScanSession) error {
	open, err := o.Discover(ctx, session.Target, session.Spec)
	if err != nil {
		return err
	}
	session.SetOpenPorts(open)

	if len(open) == 0 {
		logrus.Info("[STAGE 2] No open ports to scan")
		return nil
	}

	records, err := o.Enumerate(ctx, session.Target, session.OpenPorts)
	if err != nil {
		logrus.Warnf("Comprehensive service scan error: %v", err)
		return nil
	}
	session.Records = records
	return nil
}

// Discover performs the stage-1 fast discovery and returns the sorted
// open ports. Absence of the target in engine output is a valid
// "no open ports" outcome, not an error.
func (o *Orchestrator) Discover(ctx context.Context, target models.ScanTarget, spec models.PortSpec) ([]int, error) {
	logrus.Infof("[STAGE 1] Fast port discovery on %s...", target)

	result, err := o.engine.Discover(ctx, target.String(), spec)
	if err != nil {
		return nil, err
	}

	var open []int
	if host := matchHost(result, target.String()); host != nil {
		for _, p := range host.Ports {
			if p.State.State == "open" {
				open = append(open, int(p.ID))
				logrus.Infof("[+] Open port found: %d/tcp", p.ID)
			}
		}
	}
	sort.Ints(open)

	logrus.Infof("[STAGE 1] Fast discovery completed. Found %d open ports", len(open))
	return open, nil
}

// Enumerate performs the stage-2 comprehensive scan on exactly the
// discovered port list and maps engine output onto PortRecords. Script
// outputs are copied verbatim.
func (o *Orchestrator) Enumerate(ctx context.Context, target models.ScanTarget, openPorts []int) (map[int]models.PortRecord, error) {
	logrus.Infof("[STAGE 2] Comprehensive service detection on %d ports...", len(openPorts))

	result, err := o.engine.Enumerate(ctx, target.String(), openPorts)
	if err != nil {
		return nil, err
	}

	records := make(map[int]models.PortRecord, len(openPorts))
	host := matchHost(result, target.String())
	if host == nil {
		return records, nil
	}

	wanted := make(map[int]struct{}, len(openPorts))
	for _, p := range openPorts {
		wanted[p] = struct{}{}
	}

	for i := range host.Ports {
		p := &host.Ports[i]
		port := int(p.ID)
		if _, ok := wanted[port]; !ok {
			// Never mutate ports outside the discovered set.
			continue
		}

		rec := models.PortRecord{
			Port:      port,
			State:     p.State.State,
			Service:   p.Service.Name,
			Product:   p.Service.Product,
			Version:   p.Service.Version,
			ExtraInfo: p.Service.ExtraInfo,
			CPE:       firstCPE(p),
		}
		if len(p.Scripts) > 0 {
			rec.Scripts = make(map[string]string, len(p.Scripts))
			for _, script := range p.Scripts {
				rec.Scripts[script.ID] = script.Output
			}
		}
		records[port] = rec

		logrus.Infof("[+] %d/tcp %s %s", port, rec.State, rec.Description())
	}

	logrus.Info("[STAGE 2] Comprehensive scan completed")
	return records, nil
}

// matchHost finds the target's entry in the engine output, nil when the
// target was not reported back.
func matchHost(run *nmap.Run, target string) *nmap.Host {
	if run == nil {
		return nil
	}
	for i := range run.Hosts {
		for _, addr := range run.Hosts[i].Addresses {
			if addr.Addr == target {
				return &run.Hosts[i]
			}
		}
	}
	return nil
}

func firstCPE(p *nmap.Port) string {
	if len(p.Service.CPEs) > 0 {
		return string(p.Service.CPEs[0])
	}
	return ""
}
