package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"portsight/database"
	"portsight/models"
	"portsight/pipeline"
	"portsight/server"
)

func main() {
	var (
		targetFlag = flag.String("target", "", "target IP address (prompted when omitted)")
		startPort  = flag.Int("start-port", 0, "start of the port range")
		endPort    = flag.Int("end-port", 0, "end of the port range")
		serveAddr  = flag.String("serve", "", "serve the scan API on this address instead of running one scan")
		dbPath     = flag.String("db", "portsight.db", "path of the scan-history database")
		reportDir  = flag.String("report-dir", "logs", "directory for JSON scan reports")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *serveAddr != "" {
		if err := server.Start(*serveAddr, *dbPath, *reportDir); err != nil {
			logrus.Errorf("Server error: %v", err)
			os.Exit(1)
		}
		return
	}

	// Connect scans work unprivileged; nmap just loses SYN mode.
	if os.Geteuid() != 0 {
		logrus.Warn("Not running as root - the engine falls back to connect scans")
	}

	reader := bufio.NewReader(os.Stdin)

	target, err := resolveTarget(reader, *targetFlag)
	if err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
	logrus.Infof("Target selected: %s", target)

	spec, err := resolveSpec(reader, *startPort, *endPort)
	if err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
	logrus.Infof("Port range selected: %s", spec)

	db, err := database.New(*dbPath)
	if err != nil {
		logrus.Warnf("Scan history disabled: %v", err)
		db = nil
	}

	pl := pipeline.New(db, *reportDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pl.Run(ctx, target, spec)
	if err != nil {
		// Partial results are discarded on interruption.
		logrus.Info("Scan interrupted by user. Exiting...")
		return
	}

	if len(result.Session.OpenPorts) == 0 {
		logrus.Info("No open ports found.")
	}
}

// resolveTarget takes the target from the flag or prompts until a valid
// IP literal is entered.
func resolveTarget(reader *bufio.Reader, flagValue string) (models.ScanTarget, error) {
	if flagValue != "" {
		return models.ParseTarget(flagValue)
	}

	for {
		fmt.Print("Enter target IP: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return models.ScanTarget{}, errors.New("no target provided")
		}

		target, err := models.ParseTarget(line)
		if err != nil {
			logrus.Warnf("[-] Invalid IP address: %s", strings.TrimSpace(line))
			logrus.Info("[!] Please enter a valid IP (e.g., 192.168.1.1)")
			continue
		}
		return target, nil
	}
}

// resolveSpec takes the range from the flags or walks the port-range
// menu. Only the choices 1-4 are accepted; everything else re-prompts.
func resolveSpec(reader *bufio.Reader, start, end int) (models.PortSpec, error) {
	if start != 0 || end != 0 {
		spec := models.PortSpec{Start: start, End: end}
		return spec, spec.Validate()
	}

	for {
		fmt.Println("\nSelect port range to scan:")
		fmt.Println("1. Common ports (1-1024)")
		fmt.Println("2. Extended range (1-5000)")
		fmt.Println("3. Full range (1-65535)")
		fmt.Println("4. Custom range")
		fmt.Print("\nEnter choice (1-4): ")

		choice, err := reader.ReadString('\n')
		if err != nil {
			return models.PortSpec{}, errors.New("no port range provided")
		}

		switch strings.TrimSpace(choice) {
		case "1":
			return models.PortSpec{Start: 1, End: 1024}, nil
		case "2":
			return models.PortSpec{Start: 1, End: 5000}, nil
		case "3":
			return models.PortSpec{Start: 1, End: 65535}, nil
		case "4":
			spec, ok := readCustomRange(reader)
			if !ok {
				continue
			}
			return spec, nil
		default:
			logrus.Warn("Invalid choice!")
		}
	}
}

func readCustomRange(reader *bufio.Reader) (models.PortSpec, bool) {
	readPort := func(prompt string) (int, bool) {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, false
		}
		port, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			logrus.Warn("Please enter valid numbers!")
			return 0, false
		}
		return port, true
	}

	start, ok := readPort("Enter start port: ")
	if !ok {
		return models.PortSpec{}, false
	}
	end, ok := readPort("Enter end port: ")
	if !ok {
		return models.PortSpec{}, false
	}

	spec := models.PortSpec{Start: start, End: end}
	if err := spec.Validate(); err != nil {
		logrus.Warn("Invalid port range!")
		return models.PortSpec{}, false
	}
	return spec, true
}
