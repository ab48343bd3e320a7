package server

import "portsight/models"

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ScanRequestAPI defines the JSON structure for incoming scan requests.
type ScanRequestAPI struct {
	Target    string `json:"target"`
	StartPort int    `json:"start_port"`
	EndPort   int    `json:"end_port"`
}

// Validate checks the target and port range of a request.
func (sr *ScanRequestAPI) Validate() bool {
	if _, err := models.ParseTarget(sr.Target); err != nil {
		return false
	}
	spec := models.PortSpec{Start: sr.StartPort, End: sr.EndPort}
	return spec.Validate() == nil
}

// ScanResponse defines the JSON structure for scan responses.
type ScanResponse struct {
	Report   models.Report            `json:"report"`
	Insights []models.SecurityInsight `json:"insights"`
}

// SettingsAPI defines the scanner settings that end users can change.
type SettingsAPI struct {
	StartPort int `json:"start_port"`
	EndPort   int `json:"end_port"`
	TimeoutMS int `json:"timeout_ms"`
	Workers   int `json:"workers"`
}
