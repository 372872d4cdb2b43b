package main

import (
	"context"
	"log"
	"net/http"
	"time"

	httpadapter "github.com/PabloGalante/lumen-console/internal/adapters/http"
	"github.com/PabloGalante/lumen-console/internal/adapters/llm"
	"github.com/PabloGalante/lumen-console/internal/adapters/speech"
	firestorestore "github.com/PabloGalante/lumen-console/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/lumen-console/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/lumen-console/internal/adapters/storage/redis"
	"github.com/PabloGalante/lumen-console/internal/app/design"
	"github.com/PabloGalante/lumen-console/internal/app/interaction"
	"github.com/PabloGalante/lumen-console/internal/config"
	"github.com/PabloGalante/lumen-console/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	// Generative upstream: mock for local dev, Gemini when a key is set.
	// Without either, the gateway answers interactions with a fixed 500 and
	// design suggestions fall back on-device.
	var generative domain.GenerativeClient
	var advisor domain.DesignAdvisor

	switch {
	case cfg.UseMockLLM:
		log.Println("[LLM] Using mock generative client")
		generative = llm.NewMockClient()
	case cfg.GeminiAPIKey != "":
		log.Println("[LLM] Using Gemini generative client")
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
		generative = gemini
		advisor = gemini
	default:
		log.Println("[LLM] No upstream credential configured; interactions will fail with an explanatory error")
	}

	// Console-state blob storage.
	var stateStore domain.StateStore
	switch cfg.StorageBackend {
	case "redis":
		log.Printf("[STORE] Using Redis state storage (addr=%s)", cfg.RedisAddr)
		stateStore, err = redisstore.NewStateStore(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("error initializing Redis state store: %v", err)
		}
	case "firestore":
		log.Printf("[STORE] Using Firestore state storage (project=%s)", cfg.GCPProjectID)
		stateStore, err = firestorestore.NewStateStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore state store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory state storage")
		stateStore = memstore.NewStateStore()
	}

	interactionSvc := interaction.NewService(
		ctx,
		generative,
		memstore.NewSessionStore(),
		stateStore,
		interaction.Options{
			Speech:     speech.NewLogSink(),
			AutoSpeak:  cfg.AutoSpeak,
			MinCapture: time.Duration(cfg.MinCaptureMS) * time.Millisecond,
		},
	)
	designSvc := design.NewService(advisor)

	handler := httpadapter.NewServer(interactionSvc, designSvc)

	addr := ":" + cfg.Port
	log.Println("Lumen console API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
