package banner_grabber

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portsight/models"
)

// bannerListener serves a fixed banner to every connection and returns
// the port it listens on.
func bannerListener(t *testing.T, banner string) (int, func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				c.Write([]byte(banner))
			}(conn)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, func() { ln.Close() }
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestGrabber_EveryPortYieldsExactlyOneResult(t *testing.T) {
	openPort, stop := bannerListener(t, "SSH-2.0-OpenSSH_8.2p1\r\n")
	defer stop()
	closedPort := freePort(t)

	target, err := models.ParseTarget("127.0.0.1")
	assert.NoError(t, err)

	g := &Grabber{Timeout: time.Second, Workers: 4}
	ports := []int{openPort, closedPort, 443}

	results, tally := g.GrabAll(context.Background(), target, ports)

	assert.Len(t, results, len(ports))
	for _, port := range ports {
		assert.Contains(t, results, port)
	}

	assert.Equal(t, models.TagBanner, results[openPort].Tag)
	assert.Contains(t, results[openPort].Banner, "OpenSSH_8.2p1")

	assert.Equal(t, models.TagRefused, results[closedPort].Tag)
	assert.Error(t, results[closedPort].Err)
	assert.Equal(t, 1, tally[models.TagRefused])

	// TLS-only ports are never sent plaintext probes.
	assert.Equal(t, models.TagSSLSkip, results[443].Tag)
	assert.Contains(t, results[443].Banner, "SSL/TLS")
	assert.False(t, results[443].Failed())
}

func TestGrabber_ReadTimeoutIsTagged(t *testing.T) {
	// Accepts the connection but never writes anything.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			time.Sleep(time.Second)
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	target, _ := models.ParseTarget("127.0.0.1")
	g := &Grabber{Timeout: 100 * time.Millisecond, Workers: 1}

	results, tally := g.GrabAll(context.Background(), target, []int{port})

	assert.Len(t, results, 1)
	assert.Equal(t, models.TagTimeout, results[port].Tag)
	assert.Equal(t, 1, tally[models.TagTimeout])
}

func TestGrabber_ConcurrencyCeiling(t *testing.T) {
	var current, peak int32

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				c.Write([]byte("hello\r\n"))
				atomic.AddInt32(&current, -1)
			}(conn)
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	// 200 grabs against the same listener.
	ports := make([]int, 200)
	for i := range ports {
		ports[i] = port
	}

	target, _ := models.ParseTarget("127.0.0.1")
	g := New()
	g.GrabAll(context.Background(), target, ports)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(10))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}
