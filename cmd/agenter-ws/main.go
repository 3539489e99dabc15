// Command agenter-ws serves the memory and recall subsystem over the
// WebSocket API.
package main

import (
	"fmt"
	"log"

	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/llm"
	"github.com/becomeliminal/agenter-go/llm/anthropic"
	"github.com/becomeliminal/agenter-go/llm/mock"
	"github.com/becomeliminal/agenter-go/memory"
	"github.com/becomeliminal/agenter-go/memory/embedder/cache"
	"github.com/becomeliminal/agenter-go/memory/embedder/hash"
	"github.com/becomeliminal/agenter-go/memory/index/chromem"
	"github.com/becomeliminal/agenter-go/recall"
	"github.com/becomeliminal/agenter-go/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[AGENTER-WS] %v", err)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	embedder, err := cache.New(hash.New(cfg.EmbeddingDim), 4096)
	if err != nil {
		return fmt.Errorf("build embedder: %w", err)
	}
	index, err := chromem.New(cfg.ChromaCollection)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	store := memory.NewFactStore(cfg.StorageDir, memory.WithIndex(index, embedder))
	retriever := memory.NewHybridRetriever(store, index, embedder)

	var completer llm.Completer
	switch cfg.Provider {
	case config.ProviderAnthropic:
		completer = anthropic.New(cfg.APIKey, cfg.BaseURL)
	default:
		completer = mock.New()
	}
	log.Printf("[AGENTER-WS] Provider: %s", cfg.Provider)

	registry := cognition.NewRegistry(completer, cfg)
	orchestrator := recall.NewOrchestrator(registry)
	rememberer := recall.NewRememberer(store, retriever, completer, cfg.Model)

	srv := server.New(cfg, store, rememberer, orchestrator, completer)
	return srv.ListenAndServe()
}
