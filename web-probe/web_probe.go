// Package web_probe enriches open web ports with the page title and
// server header from a single bounded HTTP request. It covers the gap
// when the external engine ran without script data.
package web_probe

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"portsight/models"
)

const defaultTimeout = 5 * time.Second

// plaintextWebPorts are the web ports probed directly. TLS web ports
// are left to the external engine; this package never handshakes TLS.
var plaintextWebPorts = map[int]struct{}{
	80:   {},
	8080: {},
}

// Probeable reports whether a port is eligible for HTTP enrichment.
func Probeable(port int) bool {
	_, ok := plaintextWebPorts[port]
	return ok
}

// Result holds what one page fetch revealed.
type Result struct {
	Title  string
	Server string
}

// Fetch performs one HTTP GET against the target port and extracts the
// page title and the Server header.
func Fetch(target models.ScanTarget, port int, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	url := fmt.Sprintf("http://%s/", net.JoinHostPort(target.String(), strconv.Itoa(port)))
	resp, err := client.Get(url)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	res := Result{Server: resp.Header.Get("Server")}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return res, nil
	}
	res.Title = strings.TrimSpace(doc.Find("title").First().Text())
	return res, nil
}

// Enrich fills the http-title script slot and the extra-info field of a
// record when the engine produced neither. Fetch failures are logged
// and ignored; enrichment is strictly best effort.
func Enrich(target models.ScanTarget, rec models.PortRecord) models.PortRecord {
	if !Probeable(rec.Port) {
		return rec
	}
	if _, ok := rec.Scripts["http-title"]; ok {
		return rec
	}

	res, err := Fetch(target, rec.Port, defaultTimeout)
	if err != nil {
		logrus.Debugf("Web probe failed for port %d: %v", rec.Port, err)
		return rec
	}

	if res.Title != "" {
		if rec.Scripts == nil {
			rec.Scripts = make(map[string]string)
		}
		rec.Scripts["http-title"] = res.Title
	}
	if rec.ExtraInfo == "" && res.Server != "" {
		rec.ExtraInfo = res.Server
	}
	return rec
}
