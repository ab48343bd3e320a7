package security_analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"portsight/models"
)

func TestAnalyze_WebSurfaceOnly(t *testing.T) {
	openPorts := []int{80, 443}

	insights := Analyze(openPorts, map[int]models.PortRecord{})

	assert.Len(t, insights, 1)
	assert.Contains(t, insights[0].Finding, "Web services")
	assert.Equal(t, []int{80, 443}, insights[0].Ports)
}

func TestAnalyze_DomainController(t *testing.T) {
	openPorts := []int{88, 389, 636}

	insights := Analyze(openPorts, map[int]models.PortRecord{})

	assert.Len(t, insights, 1)
	assert.Contains(t, insights[0].Finding, "Domain Controller")
	assert.Equal(t, []int{88, 389, 636}, insights[0].Ports)
}

func TestAnalyze_SingleADPortIsNotEnough(t *testing.T) {
	insights := Analyze([]int{88}, map[int]models.PortRecord{})
	assert.Empty(t, insights)
}

func TestAnalyze_DatabasesNameEachProduct(t *testing.T) {
	insights := Analyze([]int{3306, 5432}, map[int]models.PortRecord{})

	assert.Len(t, insights, 1)
	assert.Contains(t, insights[0].Finding, "MySQL")
	assert.Contains(t, insights[0].Finding, "PostgreSQL")
	assert.Equal(t, []string{"MySQL", "PostgreSQL"}, insights[0].Services)
}

func TestAnalyze_AnonymousFTPRequiresScriptEvidence(t *testing.T) {
	openPorts := []int{21}

	// Port 21 alone: no anonymous-FTP finding without script output.
	insights := Analyze(openPorts, map[int]models.PortRecord{
		21: {Port: 21, Service: "ftp"},
	})
	for _, insight := range insights {
		assert.NotContains(t, insight.Finding, "Anonymous FTP")
	}

	records := map[int]models.PortRecord{
		21: {
			Port:    21,
			Service: "ftp",
			Scripts: map[string]string{
				"ftp-anon": "Anonymous FTP login allowed (FTP code 230)",
			},
		},
	}
	insights = Analyze(openPorts, records)

	found := false
	for _, insight := range insights {
		if insight.Finding == "Anonymous FTP access enabled - Potential information disclosure" {
			found = true
			assert.Equal(t, []int{21}, insight.Ports)
		}
	}
	assert.True(t, found)
}

func TestAnalyze_TelnetFiresRemoteAccessAndCleartext(t *testing.T) {
	insights := Analyze([]int{23}, map[int]models.PortRecord{})

	assert.Len(t, insights, 2)
	assert.Contains(t, insights[0].Finding, "Remote access")
	assert.Contains(t, insights[1].Finding, "Telnet")
}

func TestAnalyze_ExcessiveExposure(t *testing.T) {
	var openPorts []int
	for port := 20000; port < 20021; port++ {
		openPorts = append(openPorts, port)
	}

	insights := Analyze(openPorts, map[int]models.PortRecord{})

	assert.Len(t, insights, 1)
	assert.Contains(t, insights[0].Finding, "High number of open ports (21)")
}

func TestAnalyze_PureAndOrderStable(t *testing.T) {
	openPorts := []int{21, 22, 23, 80, 88, 389, 443, 445, 636, 3306}
	records := map[int]models.PortRecord{
		21: {Port: 21, Scripts: map[string]string{"ftp-anon": "Anonymous FTP login allowed"}},
	}

	first := Analyze(openPorts, records)
	second := Analyze(openPorts, records)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestAnalyze_NoOpenPorts(t *testing.T) {
	assert.Empty(t, Analyze(nil, map[int]models.PortRecord{}))
}
