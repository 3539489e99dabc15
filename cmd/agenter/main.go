// Command agenter runs the file-task demo: seed a goal into the fact
// log, then loop recall-decide-act until the executor reports DONE.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/becomeliminal/agenter-go/agent"
	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
	"github.com/becomeliminal/agenter-go/llm/anthropic"
	"github.com/becomeliminal/agenter-go/llm/mock"
	"github.com/becomeliminal/agenter-go/memory"
	"github.com/becomeliminal/agenter-go/memory/embedder/cache"
	"github.com/becomeliminal/agenter-go/memory/embedder/hash"
	"github.com/becomeliminal/agenter-go/memory/index/chromem"
	"github.com/becomeliminal/agenter-go/recall"
)

const demoGoal = "Please create a file, read it back, then delete it."

func main() {
	reset := flag.Bool("reset", false, "wipe the fact log before starting")
	maxLoops := flag.Int("max-loops", 10, "safety cap on executor iterations")
	flag.Parse()

	if err := run(*reset, *maxLoops); err != nil {
		log.Fatalf("[AGENTER] %v", err)
	}
}

func run(reset bool, maxLoops int) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	ctx := context.Background()

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

	rememberer := recall.NewRememberer(store, retriever, completer, cfg.Model)
	loop := agent.NewLoop(store, rememberer, completer, cfg.Model, cfg.DemoPath)

	if reset {
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("reset log: %w", err)
		}
		log.Printf("[AGENTER] Fact log reset")
	}

	if err := seedGoal(ctx, store); err != nil {
		return err
	}

	for i := 0; i < maxLoops; i++ {
		log.Printf("[AGENTER] --- iteration %d ---", i+1)
		decision, more, err := loop.Step(ctx, demoGoal)
		if err != nil {
			return err
		}
		if !more {
			fmt.Fprintf(os.Stdout, "Done after %d iteration(s): %s\n", i+1, decision.Reasoning)
			return nil
		}
	}
	log.Printf("[AGENTER] Stopped at max-loops=%d without DONE", maxLoops)
	return nil
}

// seedGoal appends the demo goal once. Re-runs against the same log
// keep their accumulated history.
func seedGoal(ctx context.Context, store *memory.FactStore) error {
	seeded, err := store.HasFact(ctx, func(fact core.ObjectiveFact) bool {
		return fact.Type == core.FactUserMsg && strings.Contains(fact.Content, demoGoal)
	})
	if err != nil {
		return fmt.Errorf("inspect log: %w", err)
	}
	if seeded {
		log.Printf("[AGENTER] Goal already present, resuming")
		return nil
	}
	fact := core.NewFact(core.FactUserMsg, demoGoal, nil)
	if err := store.Append(ctx, fact); err != nil {
		return fmt.Errorf("seed goal: %w", err)
	}
	log.Printf("[AGENTER] Seeded goal: %s", demoGoal)
	return nil
}
