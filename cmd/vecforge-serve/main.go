// Command vecforge-serve loads a trained embedding and exposes it over an
// MCP streamable HTTP endpoint for nearest-neighbor and analogy queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vecforge/vecforge/internal/mcpserver"
	"github.com/vecforge/vecforge/pkg/modelio"
	"github.com/vecforge/vecforge/pkg/searcher"
)

func main() {
	addr := flag.String("addr", ":8787", "HTTP listen address")
	modelPath := flag.String("model", "", "path to an encoded model file produced by the trainer")
	apiKey := flag.String("api-key", "", "optional API key required via X-API-Key or Authorization: Bearer")
	rateLimitRPS := flag.Float64("rate-limit-rps", 0, "optional per-client requests/sec limit (0 disables)")
	rateLimitBurst := flag.Int("rate-limit-burst", 20, "burst size for the rate limiter")
	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "vecforge-serve: -model is required")
		os.Exit(2)
	}

	if err := run(*addr, *modelPath, *apiKey, *rateLimitRPS, *rateLimitBurst); err != nil {
		log.Fatal(err)
	}
}

func run(addr, modelPath, apiKey string, rateLimitRPS float64, rateLimitBurst int) error {
	raw, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}

	m, err := modelio.DecodeModel(raw)
	if err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}
	log.Printf("loaded model: %d words, layer size %d", m.VocabSize(), m.LayerSize)

	s := searcher.New(m)
	backend := mcpserver.NewSearcherBackend(s)

	handler, err := mcpserver.NewHandler(mcpserver.Config{
		APIKey:         apiKey,
		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,
	}, backend)
	if err != nil {
		return fmt.Errorf("failed to build MCP handler: %w", err)
	}

	srv := &http.Server{Addr: addr, Handler: handler}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	log.Printf("vecforge-serve listening on %s", addr)

	waitForShutdown(ctx, cancel)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	case <-ctx.Done():
	}
}
