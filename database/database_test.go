package database

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portsight/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "portsight.db"))
	assert.NoError(t, err)
	return db
}

func TestSaveScanAndHistory(t *testing.T) {
	db := testDB(t)

	target, _ := models.ParseTarget("192.168.1.10")
	session := models.NewSession(target, models.PortSpec{Start: 1, End: 1024})
	session.SetOpenPorts([]int{22, 80})
	session.Insights = []models.SecurityInsight{
		{Finding: "Telnet service - Cleartext authentication risk", Ports: []int{23}},
	}
	session.Finished = session.Started.Add(3 * time.Second)

	rep := models.Report{}
	rep.Metadata.TargetIP = target.String()
	rep.Metadata.OpenPortsCount = 2

	assert.NoError(t, db.SaveScan(session, rep))

	records, err := db.History(20)
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "192.168.1.10", rec.Target)
	assert.Equal(t, 1, rec.StartPort)
	assert.Equal(t, 1024, rec.EndPort)
	assert.Equal(t, 2, rec.OpenPorts)
	assert.InDelta(t, 3.0, rec.Duration, 0.01)

	var insights []models.SecurityInsight
	assert.NoError(t, json.Unmarshal(rec.Insights, &insights))
	assert.Len(t, insights, 1)
	assert.Contains(t, insights[0].Finding, "Telnet")
}

func TestHistoryLimit(t *testing.T) {
	db := testDB(t)

	target, _ := models.ParseTarget("10.0.0.1")
	for i := 0; i < 5; i++ {
		session := models.NewSession(target, models.PortSpec{Start: 1, End: 100})
		assert.NoError(t, db.SaveScan(session, models.Report{}))
	}

	records, err := db.History(3)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSettingsRoundTrip(t *testing.T) {
	db := testDB(t)

	cfg := ScannerConfig{StartPort: 1, EndPort: 1024, TimeoutMS: 2000, Workers: 10}
	assert.NoError(t, db.UpdateSettings(cfg))

	stored := db.FetchSettings()
	assert.Equal(t, 1, stored.StartPort)
	assert.Equal(t, 1024, stored.EndPort)
	assert.Equal(t, 2000, stored.TimeoutMS)
	assert.Equal(t, 10, stored.Workers)

	// A second update overwrites the single settings row.
	cfg.EndPort = 65535
	assert.NoError(t, db.UpdateSettings(cfg))

	stored = db.FetchSettings()
	assert.Equal(t, 65535, stored.EndPort)

	var count int64
	db.conn.Model(&ScannerConfig{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
