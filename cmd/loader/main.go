package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mosdac-ai/orbit/internal/bootstrap"
	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core"
	"github.com/mosdac-ai/orbit/internal/driver"
	"github.com/mosdac-ai/orbit/internal/ingest"
	"github.com/mosdac-ai/orbit/internal/llm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s, using defaults: %v", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var d driver.GraphDriver
	d, err = driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, "")
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j at %s: %v\nCheck that Neo4j is running and the credentials are correct.", cfg.Neo4j.URI, err)
	}

	llmClient, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		_ = d.Close(context.Background())
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	graph := core.NewGraph(d, llmClient, embedder, llm.NewSimpleLLMReranker(llmClient), cfg)

	// Teardown runs on every exit path, interruption included. Close errors
	// are logged, never escalated.
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := graph.Close(closeCtx); err != nil {
			log.Printf("Warning: error closing connections: %v", err)
			return
		}
		log.Println("All connections closed")
	}()

	loader := ingest.NewLoader(graph, ingest.NewRouter(cfg.Loader.DataDir), cfg.Loader.GroupID)
	loader.Bootstrap = func(ctx context.Context) error {
		neg := bootstrap.NewNegotiator(d, cfg.Neo4j.Database, cfg.Loader.AllowWipe)
		target, err := neg.Establish(ctx)
		if err != nil {
			return err
		}
		if target.Note != "" {
			log.Printf("Note: %s", target.Note)
		}

		fresh, err := bootstrap.EnsureIndices(ctx, d, func(database string) (driver.GraphDriver, error) {
			return driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, database)
		})
		if fresh != nil && fresh != d {
			d = fresh
			graph.Driver = fresh
		}
		return err
	}

	summary := loader.LoadAll(ctx)
	if summary.BootstrapErr != nil {
		os.Exit(1)
	}
	if summary.Loaded < summary.Attempted {
		log.Printf("Completed with failures: %d/%d datasets loaded", summary.Loaded, summary.Attempted)
		os.Exit(1)
	}
}
