package banner_grabber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"portsight/models"
)

const (
	// defaultWorkers caps the number of in-flight connection attempts.
	defaultWorkers = 10
	// defaultTimeout bounds both the connect and the read of one grab.
	defaultTimeout = 2 * time.Second
	// bannerBufferSize is the maximum banner length read per port.
	bannerBufferSize = 1024
)

// Grabber collects service banners from open ports over raw TCP, using
// a fixed-size worker pool and per-connection deadlines.
type Grabber struct {
	Timeout time.Duration // connect and read deadline per port
	Workers int           // concurrent connection ceiling
}

// New returns a Grabber with the default pool size and timeout.
func New() *Grabber {
	return &Grabber{Timeout: defaultTimeout, Workers: defaultWorkers}
}

// GrabAll probes every port in parallel and returns one BannerResult
// per submitted port, keyed by port, together with a per-tag tally of
// the failures. Completion order is unconstrained; a single collector
// goroutine owns the result map, so workers never share writes.
func (g *Grabber) GrabAll(ctx context.Context, target models.ScanTarget, ports []int) (map[int]models.BannerResult, map[models.BannerTag]int) {
	logrus.Info("Performing banner grabbing...")

	workers := g.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(ports) {
		workers = len(ports)
	}

	portChan := make(chan int)
	resultChan := make(chan models.BannerResult, len(ports))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for port := range portChan {
				resultChan <- g.grab(ctx, target.String(), port)
			}
		}()
	}

	// Producer: the submission set is fixed before dispatch.
	go func() {
		defer close(portChan)
		for _, port := range ports {
			select {
			case portChan <- port:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make(map[int]models.BannerResult, len(ports))
	tally := make(map[models.BannerTag]int)
	errorCount := 0

	for res := range resultChan {
		results[res.Port] = res
		if res.Failed() {
			errorCount++
			tally[res.Tag]++
			logrus.Debugf("Banner error for port %d: %v", res.Port, res.Err)
			continue
		}
		if res.Banner != "" {
			logrus.Infof("Banner for port %d: %s", res.Port, res.Banner)
		}
	}

	if errorCount > 0 {
		logrus.Infof("Banner grabbing completed with %d errors", errorCount)
		for tag, count := range tally {
			logrus.Debugf("    - %d x %s", count, tag)
		}
	}

	return results, tally
}

// grab probes a single port. Every failure mode is converted into a
// tagged result; nothing propagates as a fault.
func (g *Grabber) grab(ctx context.Context, target string, port int) models.BannerResult {
	if SSLOnly(port) {
		return models.BannerResult{
			Port:   port,
			Tag:    models.TagSSLSkip,
			Banner: fmt.Sprintf("SSL/TLS service (port %d)", port),
		}
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	addr := net.JoinHostPort(target, strconv.Itoa(port))

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		tag := classify(err)
		return models.BannerResult{Port: port, Tag: tag, Err: err}
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return models.BannerResult{Port: port, Tag: models.TagNetworkError, Err: err}
	}

	if probe := Probe(port, target); len(probe) > 0 {
		if _, err := conn.Write(probe); err != nil {
			tag := classify(err)
			return models.BannerResult{Port: port, Tag: tag, Err: err}
		}
	}

	buf := make([]byte, bannerBufferSize)
	n, err := conn.Read(buf)
	if n == 0 && err != nil && !errors.Is(err, io.EOF) {
		// EOF with no data is still a valid, empty banner; anything
		// else is a tagged socket failure.
		return models.BannerResult{Port: port, Tag: classify(err), Err: err}
	}

	banner := strings.TrimSpace(strings.ToValidUTF8(string(buf[:n]), ""))
	return models.BannerResult{Port: port, Tag: models.TagBanner, Banner: banner}
}

// classify maps a socket error onto its banner tag.
func classify(err error) models.BannerTag {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout(),
		errors.Is(err, context.DeadlineExceeded):
		return models.TagTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return models.TagRefused
	case errors.Is(err, syscall.ECONNRESET):
		return models.TagReset
	default:
		return models.TagNetworkError
	}
}
