// Package main provides the host calibration tool for verrou vaults.
//
// It probes the machine for the highest sustainable Argon2id memory tier and
// prints the resulting preset parameters, ready to be stored with a new
// vault. Status goes to stderr; only the presets are written to stdout or
// the chosen output file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arnaultpascual/Verrou-sub001/kdf"
)

type cliConfig struct {
	format   string
	output   string
	timeout  time.Duration
	logLevel string
	help     bool
}

func parseCLIFlags() *cliConfig {
	config := &cliConfig{}

	flag.StringVar(&config.format, "format", "yaml", "Output format (yaml or json)")
	flag.StringVar(&config.output, "o", "", "Output file (default: stdout)")
	flag.DurationVar(&config.timeout, "timeout", 60*time.Second, "Overall calibration timeout")
	flag.StringVar(&config.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&config.help, "help", false, "Show help message")

	flag.Parse()
	return config
}

func printUsage() {
	fmt.Println("verrou-calibrate - Argon2id host calibration")
	fmt.Println()
	fmt.Println("Probes this machine for the highest sustainable memory tier")
	fmt.Println("(512, 256, or 128 MiB) and prints the calibrated Fast, Balanced,")
	fmt.Println("and Maximum presets. Store the output with the vault; the same")
	fmt.Println("parameters must be used for every unlock of that vault.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options]\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", os.Args[0])
	fmt.Printf("  %s -format json -o presets.json\n", os.Args[0])
}

func validateCLIConfig(config *cliConfig) error {
	if config.format != "yaml" && config.format != "json" {
		return fmt.Errorf("invalid format %q: must be yaml or json", config.format)
	}
	if config.timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func configureLogging(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(parsed)
	return nil
}

// runCalibration bounds kdf.Calibrate with the overall timeout the library
// itself does not impose. The probe cannot be interrupted midway; on timeout
// the process reports failure and exits while the goroutine winds down.
func runCalibration(timeout time.Duration) (kdf.CalibratedPresets, error) {
	type outcome struct {
		presets kdf.CalibratedPresets
		err     error
	}

	done := make(chan outcome, 1)
	go func() {
		presets, err := kdf.Calibrate()
		done <- outcome{presets, err}
	}()

	select {
	case result := <-done:
		return result.presets, result.err
	case <-time.After(timeout):
		return kdf.CalibratedPresets{}, fmt.Errorf("calibration did not finish within %v", timeout)
	}
}

func encodePresets(presets kdf.CalibratedPresets, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(presets, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return yaml.Marshal(presets)
	}
}

func writeResult(data []byte, output string) error {
	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}

func main() {
	config := parseCLIFlags()

	if config.help {
		printUsage()
		os.Exit(0)
	}

	if err := validateCLIConfig(config); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -help for usage information.\n")
		os.Exit(1)
	}

	if err := configureLogging(config.logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Probing memory tiers; this can take a few seconds...")

	presets, err := runCalibration(config.timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Calibration failed: %v\n", err)
		os.Exit(1)
	}

	data, err := encodePresets(presets, config.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to encode presets: %v\n", err)
		os.Exit(1)
	}

	if err := writeResult(data, config.output); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Calibrated: fast %d MiB x%d, balanced %d MiB x%d, maximum %d MiB x%d\n",
		presets.Fast.MemoryKiB/1024, presets.Fast.Iterations,
		presets.Balanced.MemoryKiB/1024, presets.Balanced.Iterations,
		presets.Maximum.MemoryKiB/1024, presets.Maximum.Iterations)
}
