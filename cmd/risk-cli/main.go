// risk-cli assesses a single normalized message record from a JSON file or
// stdin and prints the resulting assessment. It runs the detection pipeline
// directly, without a store or cache, for triage tooling and smoke tests.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/core"
	"github.com/mikey/mailrisk/internal/detect"
	"github.com/mikey/mailrisk/internal/logging"
)

var (
	inputFile = flag.String("file", "", "Input message JSON file (use stdin if not specified)")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")

	warnThreshold       = flag.Int("warn-threshold", detect.DefaultThresholds.Warn, "Score at which a message warns")
	suspiciousThreshold = flag.Int("suspicious-threshold", detect.DefaultThresholds.Suspicious, "Score at which a message is suspicious")
	riskyExtensions     = flag.String("risky-extensions", "", "Comma-separated attachment extension denylist (defaults built in)")
	shortenerDomains    = flag.String("shortener-domains", "", "Comma-separated URL shortener host list (defaults built in)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	msg, err := readMessage()
	if err != nil {
		logger.Fatal("Failed to read message", zap.Error(err))
	}

	catalog, err := detect.NewCatalog(nil)
	if err != nil {
		logger.Fatal("Failed to build signal catalog", zap.Error(err))
	}

	detectors := detect.NewDetectors(splitList(*riskyExtensions), splitList(*shortenerDomains))
	engine, err := detect.NewEngine(catalog, detectors, detect.Thresholds{
		Warn:       *warnThreshold,
		Suspicious: *suspiciousThreshold,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build detection engine", zap.Error(err))
	}

	assessment, err := engine.Score(context.Background(), msg)
	if err != nil {
		logger.Fatal("Failed to score message", zap.Error(err))
	}

	out, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode assessment", zap.Error(err))
	}
	fmt.Println(string(out))
}

func readMessage() (*core.NormalizedMessage, error) {
	var r io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var msg core.NormalizedMessage
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		return nil, fmt.Errorf("failed to decode message JSON: %w", err)
	}
	return &msg, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
