package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core"
	"github.com/mosdac-ai/orbit/internal/driver"
	"github.com/mosdac-ai/orbit/internal/llm"
	"github.com/mosdac-ai/orbit/internal/server"
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

	d, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}

	llmClient, embedder, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	graph := core.NewGraph(d, llmClient, embedder, llm.NewSimpleLLMReranker(llmClient), cfg)

	srv := server.NewServer(graph, cfg.Loader.GroupID)
	r := srv.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
