package tutorsync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/logger"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/resync"
	"github.com/tutorlink/tutorsync/pkg/store"
	"github.com/tutorlink/tutorsync/pkg/transport"
)

// Engine is the client-resident synchronization engine. It owns the local
// store, the pub/sub transport, and the resync client, and exposes the
// optimistic mutation API.
//
// Every mutation applies to the local store synchronously and is forwarded
// to the coordinating server only when connected. Offline mutations stay
// local until the next successful full resync, which may supersede them.
// No mutation method returns an error: every failure degrades to serving
// the best locally known state.
type Engine struct {
	log    logger.Logger
	codec  codec.Codec
	store  *store.Store
	conn   *transport.Connection
	resync *resync.Client

	connMu    sync.RWMutex
	connected bool

	userMu     sync.Mutex
	activeUser string
}

// New wires an engine from the config. Call Init to load the store and
// bring the connection up.
func New(conf *Config) (*Engine, error) {
	if conf == nil || conf.BaseURL == "" {
		return nil, errors.New("config with a BaseURL is required")
	}

	c := *conf
	fillDefaults(&c)

	e := &Engine{
		log:    c.Logger,
		store:  store.New(c.Backend, c.Codec, c.Logger),
		resync: resync.New(c.BaseURL, c.Codec, c.ResyncTimeout),
	}

	e.conn = transport.New(&transport.Config{
		BaseURL:      c.BaseURL,
		Marshaler:    c.Codec,
		Unmarshaler:  c.Codec,
		Logger:       c.Logger,
		ProbeTimeout: c.ProbeTimeout,
		Retryer:      c.Retryer,
	})

	e.codec = c.Codec

	for _, name := range event.InboundNames {
		e.conn.On(name, e.inboundHandler(name))
	}
	e.conn.OnStatus(e.onStatusChange)

	return e, nil
}

func fillDefaults(c *Config) {
	if c.Backend == nil {
		c.Backend = store.NewMemoryBackend()
	}
	if c.Codec == nil {
		c.Codec = codec.JSON{}
	}
	if c.Logger == nil {
		c.Logger = logger.New(slog.NewTextHandler(os.Stdout, nil))
	}
}

// Init loads the persisted collections and attempts the initial connection.
// A probe or dial failure is not an error: the engine starts in local-only
// mode and serves whatever data the store already has.
func (e *Engine) Init(ctx context.Context) {
	e.store.Load()

	if err := e.conn.Connect(ctx); err != nil {
		e.log.Info("starting in local-only mode", "error", err)
	}
}

// Close tears down the transport. The store keeps serving reads afterwards.
func (e *Engine) Close(ctx context.Context) error {
	return e.conn.Close(ctx)
}

// IsConnected reports the connectivity flag owned by the engine's monitor.
func (e *Engine) IsConnected() bool {
	e.connMu.RLock()
	defer e.connMu.RUnlock()
	return e.connected
}

// SetActiveUser records the user whose notifications should be delivered to
// this client and subscribes immediately when connected. The subscription is
// re-established on every reconnect.
func (e *Engine) SetActiveUser(userID string) {
	e.userMu.Lock()
	e.activeUser = userID
	e.userMu.Unlock()

	if e.IsConnected() && userID != "" {
		e.conn.Send(event.SubscribeNotifications, userID)
	}
}

// Refresh runs a caller-initiated full resync. On any failure local state is
// untouched and the error is returned for observability.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.resyncNow(ctx)
}

// Store exposes read access to the local collections.
func (e *Engine) Store() *store.Store {
	return e.store
}

// onStatusChange is the connectivity monitor. On every transition into the
// connected state it replaces local collections with a fresh snapshot and
// re-establishes the per-user notification subscription. Transitions out of
// it take no destructive action.
func (e *Engine) onStatusChange(connected bool) {
	e.connMu.Lock()
	e.connected = connected
	e.connMu.Unlock()

	if !connected {
		e.log.Info("connection lost, continuing in local-only mode")
		return
	}

	if err := e.resyncNow(context.Background()); err != nil {
		e.log.Warn("resync after connect failed, keeping local state", "error", err)
	}

	e.userMu.Lock()
	user := e.activeUser
	e.userMu.Unlock()
	if user != "" {
		e.conn.Send(event.SubscribeNotifications, user)
	}
}

// resyncNow fetches the authoritative snapshot and replaces the local
// collections wholesale. Any failure is a strict no-op on local state.
func (e *Engine) resyncNow(ctx context.Context) error {
	snap, err := e.resync.Fetch(ctx)
	if err != nil {
		return err
	}

	e.store.Update(func(d *store.Data) []store.Collection {
		d.Slots = snap.TimeSlots
		d.Lessons = snap.Lessons
		d.Chats = snap.Chats
		d.Posts = snap.Posts
		d.TeacherProfiles = snap.TeacherProfiles
		d.StudentProfiles = snap.StudentProfiles
		if d.TeacherProfiles == nil {
			d.TeacherProfiles = make(map[string]models.TeacherProfile)
		}
		if d.StudentProfiles == nil {
			d.StudentProfiles = make(map[string]models.StudentProfile)
		}
		d.RebuildUsers()
		return store.AllCollections
	})

	e.log.Info("resync complete",
		"slots", len(snap.TimeSlots),
		"lessons", len(snap.Lessons),
		"chats", len(snap.Chats),
		"posts", len(snap.Posts),
	)

	return nil
}

// emit forwards an operation event when connected; offline it is a no-op.
func (e *Engine) emit(name string, payload any) {
	e.conn.Send(name, payload)
}
