package tutorsync

import (
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/logger"
	"github.com/tutorlink/tutorsync/pkg/store"
	"github.com/tutorlink/tutorsync/pkg/transport"
)

// Config carries everything the engine needs. Construct with NewConfig to
// get working defaults, then override as needed before calling New.
type Config struct {
	// BaseURL is the http(s) endpoint of the coordinating server.
	BaseURL string

	// Backend persists the local collections. Defaults to an in-memory
	// backend; use store.NewFileBackend for durability across restarts.
	Backend store.Backend

	// Codec encodes persisted collections and wire payloads. Defaults to
	// JSON, which the snapshot endpoint requires on the wire; a compact
	// binary codec only makes sense for the Backend side.
	Codec codec.Codec

	Logger logger.Logger

	// ProbeTimeout bounds the pre-flight liveness probe.
	ProbeTimeout time.Duration

	// ResyncTimeout bounds the full-snapshot request.
	ResyncTimeout time.Duration

	// Retryer is the reconnection policy after a transport drop. Nil means
	// the bounded fixed-delay default.
	Retryer transport.Retryer
}

// NewConfig creates a Config for the coordinating server at u, with JSON
// encoding, an in-memory backend, and a text slog logger on stdout.
func NewConfig(u *url.URL) *Config {
	return &Config{
		BaseURL: u.Scheme + "://" + u.Host,
		Backend: store.NewMemoryBackend(),
		Codec:   codec.JSON{},
		Logger:  logger.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}
