package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"learnhub/config"
	"learnhub/database"
	"learnhub/internal/handlers"
	"learnhub/internal/router"
	"learnhub/internal/viewer"
	"learnhub/storage"
	"learnhub/tui"
)

func contentSource(ctx context.Context, cfg config.Config) (storage.Source, error) {
	switch {
	case cfg.UseB2():
		b2, err := storage.Init(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket, cfg.B2BaseURL)
		if err != nil {
			return nil, err
		}
		log.Infof("☁️ B2 storage ready: %s", b2.BaseUrl)
		return b2, nil
	case cfg.ContentBaseURL != "":
		log.Infof("🌐 content from %s", cfg.ContentBaseURL)
		return storage.NewHTTPSource(cfg.ContentBaseURL)
	default:
		log.Infof("📁 content from %s", cfg.ContentDir)
		return storage.NewDirSource(cfg.ContentDir, ""), nil
	}
}

// publish uploads a local file to the B2 bucket under its base name.
func publish(ctx context.Context, cfg config.Config, file string) error {
	if !cfg.UseB2() {
		log.Fatal("missing B2 env vars")
	}
	b2, err := storage.Init(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket, cfg.B2BaseURL)
	if err != nil {
		return err
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := b2.UploadFile(ctx, filepath.Base(file), f)
	if err != nil {
		return err
	}
	log.Infof("📤 published %s", url)
	return nil
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load")
	useTUI := flag.Bool("tui", false, "also show the dashboard in the terminal")
	publishFile := flag.String("publish", "", "upload a file to the B2 bucket and exit")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	log.SetLevel(cfg.Level())
	log.SetHeader("${time_rfc3339} ${level}")

	ctx := context.Background()
	if *publishFile != "" {
		if err := publish(ctx, cfg, *publishFile); err != nil {
			log.Fatalf("publishing %s: %v", *publishFile, err)
		}
		return
	}

	store, err := database.Init(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to init database:", err)
	}
	defer store.Close()

	src, err := contentSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Error initializing storage: %v", err)
	}
	svc := viewer.NewService(src, cfg.QuizManifest)
	svc.ContentURL = handlers.ContentURL

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		router.Router(store, svc, w, r)
	})
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.ContentDir))))
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	if *useTUI {
		// the terminal owns stdout; the server keeps running beside it on the same store
		logFile, err := os.OpenFile(filepath.Join(filepath.Dir(cfg.DBPath), "learnhub.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("opening log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("http server: %v", err)
			}
		}()
		log.Infof("🚀 Server running at http://localhost%s", cfg.Addr)
		if err := tui.Run(store); err != nil {
			log.Errorf("terminal dashboard: %v", err)
		}
		// open event streams never go idle, so the wait is bounded
		stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := server.Shutdown(stopCtx); err != nil {
			log.Warnf("stopping http server: %v", err)
		}
		return
	}

	log.Infof("🚀 Server running at http://localhost%s", cfg.Addr)
	log.Fatal(server.ListenAndServe())
}
