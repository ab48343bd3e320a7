package models

// Report defines the JSON document persisted after each run.
type Report struct {
	Metadata  ReportMetadata `json:"metadata"`
	OpenPorts []ReportPort   `json:"open_ports"`
}

// ReportMetadata defines the run-level metadata block of a report.
type ReportMetadata struct {
	ScanTime            string       `json:"scan_time"`
	ScanDurationSeconds float64      `json:"scan_duration_seconds"`
	TargetIP            string       `json:"target_ip"`
	TargetHostname      string       `json:"target_hostname"`
	PortsScanned        PortsScanned `json:"ports_scanned"`
	OpenPortsCount      int          `json:"open_ports_count"`
	ScanMethod          string       `json:"scan_method"`
}

// PortsScanned describes the requested port range.
type PortsScanned struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Total int `json:"total"`
}

// ReportPort defines one open-port entry of a report.
type ReportPort struct {
	PortNumber         int               `json:"port_number"`
	Service            string            `json:"service"`
	Product            string            `json:"product"`
	Version            string            `json:"version"`
	ExtraInfo          string            `json:"extrainfo"`
	ServiceDescription string            `json:"service_description"`
	ScriptResults      map[string]string `json:"script_results"`
	CPE                string            `json:"cpe"`
	State              string            `json:"state"`
	ScanTime           string            `json:"scan_time"`
}
