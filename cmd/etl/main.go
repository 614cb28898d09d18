package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"footballetl/internal/config"
	"footballetl/internal/etl"
	"footballetl/internal/metrics"
	"footballetl/internal/metrics/prompush"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "footballetl/internal/storage/all"
)

// main is the entry point for the ETL binary. It loads the pipeline config,
// optionally initializes a metrics backend, and executes one normalization run.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		seed              bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipeline.yaml", "pipeline config path (.yaml, .yml or .json)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none); overrides env METRICS_BACKEND")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&seed, "seed", false, "load source.file into the source.mongo collections and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()
	log.SetOutput(os.Stderr)

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	if seed {
		if !reportIssues(os.Stderr, config.ValidateSeed(p)) {
			log.Printf("Configuration is invalid for seeding: %v", cfgPath)
			os.Exit(1)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if _, _, err := etl.Seed(ctx, p.Source, *verbose); err != nil {
			fatalf("%v", err)
		}
		return
	}

	if !reportIssues(os.Stderr, config.ValidatePipeline(p)) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	backendName := firstNonEmpty(metricsBackendFlg, os.Getenv("METRICS_BACKEND"), "none")
	switch backendName {
	case "pushgateway":
		gwURL := firstNonEmpty(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091")
		b, err := prompush.NewBackend(p.Job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			break
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, p.Job)
		metrics.SetBackend(b)
		defer func() {
			if err := metrics.Flush(); err != nil {
				log.Printf("metrics: flush error: %v", err)
			}
		}()

	case "none":
		if *verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := etl.Run(ctx, p, *verbose); err != nil {
		// os.Exit skips deferred calls; push the failed step first.
		log.Printf("%v", err)
		stop()
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
		os.Exit(1)
	}
}

// reportIssues prints every issue and reports whether the config is usable.
func reportIssues(w io.Writer, issues []config.Issue) bool {
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return !config.HasErrors(issues)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
