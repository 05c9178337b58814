package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"questlog/internal/config"
	"questlog/internal/serverapp"
)

func main() {
	// .env is optional; real env vars still win below.
	_ = godotenv.Load()

	cfg := config.Default()
	path := os.Getenv("QUESTLOG_CONFIG")
	if path == "" {
		path = "questlog.yml"
	}
	if loaded, err := config.Load(path); err == nil {
		cfg = loaded
	} else if !os.IsNotExist(err) {
		log.Fatalf("load config %s: %v", path, err)
	}
	cfg.ApplyEnv()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("questlog listening on http://localhost%s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
