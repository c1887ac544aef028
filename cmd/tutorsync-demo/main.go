// Command tutorsync-demo runs the synchronization engine against a
// coordinating server and publishes a sample slot, printing the
// connectivity state and the store contents. Configuration comes from the
// environment (optionally a .env file):
//
//	SYNC_URL       coordinating server base URL (default http://localhost:4000)
//	SYNC_USER      active user ID for notification delivery
//	SYNC_DATA_DIR  directory for the persisted collections (default .tutorsync)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tutorlink/tutorsync"
	"github.com/tutorlink/tutorsync/pkg/logger/zero"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	baseURL := envOr("SYNC_URL", "http://localhost:4000")
	activeUser := os.Getenv("SYNC_USER")
	dataDir := envOr("SYNC_DATA_DIR", ".tutorsync")

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log := zero.New(zl)

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parsing SYNC_URL: %w", err)
	}

	backend, err := store.NewFileBackend(dataDir)
	if err != nil {
		return err
	}

	conf := tutorsync.NewConfig(u)
	conf.Backend = backend
	conf.Logger = log

	engine, err := tutorsync.New(conf)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	engine.Init(ctx)
	defer engine.Close(context.Background())

	if activeUser != "" {
		engine.SetActiveUser(activeUser)
	}

	slot := engine.CreateSlot(models.Slot{
		TeacherID: envOr("SYNC_USER", "demo-teacher"),
		Date:      time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		StartTime: "10:00",
		EndTime:   "11:00",
		Subject:   "Math",
		Price:     1000,
	})

	fmt.Println("connected:", engine.IsConnected())
	fmt.Println("created slot:", slot.ID)
	fmt.Println("slots in store:", len(engine.Store().Slots()))

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
