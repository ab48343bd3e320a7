package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScanRecord persists one finished run: target, requested range, run
// metrics and the full report document.
type ScanRecord struct {
	gorm.Model
	Target     string         `gorm:"target"`
	StartPort  int            `gorm:"start_port"`
	EndPort    int            `gorm:"end_port"`
	Duration   float64        `gorm:"duration"`
	OpenPorts  int            `gorm:"open_ports"`
	Insights   datatypes.JSON `gorm:"insights"`
	Report     datatypes.JSON `gorm:"report"`
}

// ScannerConfig persists the last used scanner settings.
type ScannerConfig struct {
	gorm.Model
	StartPort int `gorm:"start_port"`
	EndPort   int `gorm:"end_port"`
	TimeoutMS int `gorm:"timeout_ms"`
	Workers   int `gorm:"workers"`
}
