package database

import (
	"encoding/json"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portsight/models"
)

// DB defines the database instance containing the connection to the
// SQLite scan-history store.
type DB struct {
	conn *gorm.DB
}

// New returns a new *DB instance backed by the given SQLite file.
func New(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}

	if err = db.Migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate migrates the current database structures.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(ScanRecord{}, ScannerConfig{})
}

// SaveScan persists one finished session together with its report.
func (db *DB) SaveScan(session *models.ScanSession, rep models.Report) error {
	insights, err := json.Marshal(session.Insights)
	if err != nil {
		return err
	}
	document, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	record := ScanRecord{
		Target:    session.Target.String(),
		StartPort: session.Spec.Start,
		EndPort:   session.Spec.End,
		Duration:  session.Duration().Seconds(),
		OpenPorts: len(session.OpenPorts),
		Insights:  insights,
		Report:    document,
	}
	return db.conn.Create(&record).Error
}

// History returns the most recent scan records, newest first.
func (db *DB) History(limit int) ([]ScanRecord, error) {
	var records []ScanRecord
	err := db.conn.Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}

// UpdateSettings updates the persisted scanner settings.
func (db *DB) UpdateSettings(cfg ScannerConfig) error {
	var current ScannerConfig
	if err := db.conn.FirstOrCreate(&current, ScannerConfig{Model: gorm.Model{ID: 1}}).Error; err != nil {
		return err
	}
	cfg.Model.ID = current.Model.ID
	return db.conn.Save(&cfg).Error
}

// FetchSettings fetches the last used scanner settings.
func (db *DB) FetchSettings() ScannerConfig {
	var result ScannerConfig
	db.conn.First(&result)
	return result
}
