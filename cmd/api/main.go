package main

import (
	"log"
	"net/http"

	"advisorlens/internal/api"
	"advisorlens/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	h := api.NewServer(cfg)
	log.Printf("advisorlens api listening on %s llm_providers=%q embed_providers=%q", cfg.APIAddr, cfg.LLMProviders, cfg.EmbedProviders)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
