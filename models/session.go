package models

import (
	"sort"
	"time"
)

// ScanSession aggregates everything gathered during one run against one
// target. The session is created at scan start, populated by the
// orchestrator and analyzer, and finalized when the report is built. It
// is passed explicitly through every component; there is no ambient
// shared scan state.
type ScanSession struct {
	Target ScanTarget
	Spec   PortSpec

	Started  time.Time
	Finished time.Time

	OpenPorts []int
	Records   map[int]PortRecord
	Banners   map[int]BannerResult
	Insights  []SecurityInsight

	// BannerErrors tallies grab failures per tag for the run summary.
	BannerErrors map[BannerTag]int
}

// NewSession starts a fresh session for the given target and port spec.
func NewSession(target ScanTarget, spec PortSpec) *ScanSession {
	return &ScanSession{
		Target:       target,
		Spec:         spec,
		Started:      time.Now(),
		Records:      make(map[int]PortRecord),
		Banners:      make(map[int]BannerResult),
		BannerErrors: make(map[BannerTag]int),
	}
}

// SetOpenPorts records the stage-1 result in sorted order.
func (s *ScanSession) SetOpenPorts(ports []int) {
	sorted := make([]int, len(ports))
	copy(sorted, ports)
	sort.Ints(sorted)
	s.OpenPorts = sorted
}

// Record returns the record for a port, or a minimal open record when
// the comprehensive scan produced nothing for it.
func (s *ScanSession) Record(port int) PortRecord {
	if r, ok := s.Records[port]; ok {
		return r
	}
	return PortRecord{Port: port, State: "open"}
}

// Finish stamps the session end time.
func (s *ScanSession) Finish() {
	s.Finished = time.Now()
}

// Duration returns the elapsed scan time.
func (s *ScanSession) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
