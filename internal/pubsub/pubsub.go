package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/temsafy/temsafy/internal/config"
	"github.com/temsafy/temsafy/internal/db"
)

// Table identifies the table a change notification came from.
type Table string

const (
	TableTasks    Table = "tasks"
	TableProjects Table = "projects"
	TableUsers    Table = "users"
)

// ChangeEvent is a single data change notification. Operation is the SQL
// verb (INSERT, UPDATE, DELETE) or RELOAD after a reconnect, when
// notifications may have been missed.
type ChangeEvent struct {
	Table     Table
	Operation string
}

// ChangeHandler is a callback for data change events.
type ChangeHandler func(event ChangeEvent)

// PubSub listens on the data_changes Postgres channel and fans change
// notifications out to subscribed handlers. Triggers on tasks, projects
// and users emit "table:operation" payloads.
type PubSub struct {
	connStr  string
	listener *pq.Listener
	handlers []ChangeHandler
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewPubSub(conf *config.Config) *PubSub {
	ctx, cancel := context.WithCancel(context.Background())

	return &PubSub{
		connStr:  db.ConnString(conf),
		handlers: make([]ChangeHandler, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Subscribe adds a handler for change events.
func (ps *PubSub) Subscribe(handler ChangeHandler) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.handlers = append(ps.handlers, handler)
}

// Start begins listening for notifications.
func (ps *PubSub) Start() error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Error("PubSub listener error", slog.Any("error", err))
		}
		if ev == pq.ListenerEventConnectionAttemptFailed {
			slog.Warn("PubSub connection attempt failed, will retry")
		}
		if ev == pq.ListenerEventDisconnected {
			slog.Warn("PubSub disconnected, will attempt reconnect")
		}
		if ev == pq.ListenerEventReconnected {
			slog.Info("PubSub reconnected, triggering full reload")
			// Notifications may have been missed while disconnected.
			for _, table := range []Table{TableTasks, TableProjects, TableUsers} {
				ps.notifyHandlers(ChangeEvent{Table: table, Operation: "RELOAD"})
			}
		}
	}

	ps.listener = pq.NewListener(ps.connStr, 10*time.Second, time.Minute, reportProblem)

	if err := ps.listener.Listen("data_changes"); err != nil {
		return fmt.Errorf("failed to listen on data_changes channel: %w", err)
	}

	slog.Info("PubSub started listening for data changes")

	go ps.processNotifications()

	return nil
}

// Stop closes the listener.
func (ps *PubSub) Stop() {
	ps.cancel()
	if ps.listener != nil {
		ps.listener.Close()
	}
	slog.Info("PubSub stopped")
}

func (ps *PubSub) processNotifications() {
	for {
		select {
		case <-ps.ctx.Done():
			return
		case notification := <-ps.listener.Notify:
			if notification == nil {
				// Connection lost, handled by the listener callback.
				continue
			}

			// Payload format: "table_name:operation"
			parts := strings.SplitN(notification.Extra, ":", 2)
			if len(parts) != 2 {
				slog.Warn("Invalid notification payload", slog.String("payload", notification.Extra))
				continue
			}

			event := ChangeEvent{
				Table:     Table(parts[0]),
				Operation: parts[1],
			}

			slog.Debug("Received data change notification",
				slog.String("table", string(event.Table)),
				slog.String("operation", event.Operation))

			ps.notifyHandlers(event)
		}
	}
}

func (ps *PubSub) notifyHandlers(event ChangeEvent) {
	ps.mu.RLock()
	handlers := make([]ChangeHandler, len(ps.handlers))
	copy(handlers, ps.handlers)
	ps.mu.RUnlock()

	for _, handler := range handlers {
		// Handlers run in goroutines so a slow handler cannot block the
		// notification loop.
		go handler(event)
	}
}
