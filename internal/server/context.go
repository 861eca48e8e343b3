package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teemow/voicecal/internal/calendar"
	"github.com/teemow/voicecal/internal/google"
	"github.com/teemow/voicecal/internal/instrumentation"
)

// ServerContext holds the shared state for the MCP server: the calendar
// client and the instrumentation wiring.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	loc      *time.Location
	client   *calendar.Client
	provider *instrumentation.Provider
	audit    *instrumentation.AuditLogger
	mu       sync.Mutex
	shutdown bool
}

// NewServerContext creates a new server context. The calendar client is
// created eagerly when a token is cached and lazily on first use
// otherwise.
func NewServerContext(ctx context.Context, loc *time.Location) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		loc:    loc,
	}

	if calendar.HasToken() {
		client, err := calendar.NewClient(shutdownCtx, google.NewFileTokenProvider(), loc)
		if err != nil {
			// Re-attempted on first use
			fmt.Printf("Warning: failed to create calendar client: %v\n", err)
		} else {
			sc.client = client
		}
	}

	return sc, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// CalendarClient returns the calendar client, creating and caching it if
// it does not exist yet. Returns nil if no token is cached.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.client != nil {
		return sc.client
	}
	if !calendar.HasToken() {
		return nil
	}

	client, err := calendar.NewClient(sc.ctx, google.NewFileTokenProvider(), sc.loc)
	if err != nil {
		fmt.Printf("Warning: failed to create calendar client: %v\n", err)
		return nil
	}
	sc.client = client
	return client
}

// SetCalendarClient sets the calendar client. Used in tests.
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// SetInstrumentation attaches the instrumentation provider and audit
// logger.
func (sc *ServerContext) SetInstrumentation(provider *instrumentation.Provider, audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.provider = provider
	sc.audit = audit
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.provider == nil {
		return nil
	}
	return sc.provider.Metrics()
}

// AuditLogger returns the audit logger, or nil when not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.audit
}

// IsShutdown reports whether the context has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}

// Shutdown cancels the server context and flushes instrumentation.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()

	if sc.provider != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return sc.provider.Shutdown(shutdownCtx)
	}
	return nil
}
