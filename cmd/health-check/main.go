// Package main provides a standalone health probe for Docker health checks and monitoring scripts
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fitpantry/coach/internal/infrastructure/config"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

type probeConfig struct {
	URL        string
	Timeout    time.Duration
	Expect     string
	RetryCount int
	RetryDelay time.Duration
	Format     string
	ConfigPath string
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Checks  []struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"checks,omitempty"`
}

func main() {
	cfg := parseFlags()
	os.Exit(run(cfg))
}

func parseFlags() probeConfig {
	cfg := probeConfig{}

	flag.StringVar(&cfg.URL, "url", "", "Health endpoint URL (default derived from config)")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "Request timeout")
	flag.StringVar(&cfg.Expect, "expect", "healthy", "Accepted status: healthy or degraded")
	flag.IntVar(&cfg.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&cfg.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.StringVar(&cfg.Format, "format", "text", "Output format: text or json")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Configuration file path")
	flag.Parse()

	if cfg.URL == "" {
		cfg.URL = detectURL(cfg.ConfigPath)
	}
	return cfg
}

func detectURL(configPath string) string {
	port := 8080
	if appCfg, err := config.Load(configPath); err == nil {
		port = appCfg.Server.Port
	}
	return fmt.Sprintf("http://127.0.0.1:%d/health", port)
}

func run(cfg probeConfig) int {
	var (
		resp *healthResponse
		err  error
	)
	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(cfg.RetryDelay)
		}
		resp, err = probe(cfg)
		if err == nil {
			break
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		return exitCodeError
	}

	report(cfg.Format, resp)

	if accepted(resp.Status, cfg.Expect) {
		return exitCodeSuccess
	}
	return exitCodeFailure
}

func probe(cfg probeConfig) (*healthResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	// 503 still carries a report
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid health response: %w", err)
	}
	return &body, nil
}

// accepted treats "degraded" as passing only when the caller allows it
func accepted(status, expect string) bool {
	if status == "healthy" {
		return true
	}
	return status == "degraded" && expect == "degraded"
}

func report(format string, resp *healthResponse) {
	if format == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(resp)
		return
	}
	fmt.Printf("%s %s: %s (uptime %s)\n", resp.Service, resp.Version, resp.Status, resp.Uptime)
	for _, check := range resp.Checks {
		if check.Message != "" {
			fmt.Printf("  %s: %s (%s)\n", check.Name, check.Status, check.Message)
			continue
		}
		fmt.Printf("  %s: %s\n", check.Name, check.Status)
	}
}
