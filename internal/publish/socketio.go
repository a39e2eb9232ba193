package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOOptions configures the socket.io publisher.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	Event              string
	RunID              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// DialSocketIO connects to a socket.io server over websocket and returns a
// publisher that emits one event per outcome.
func DialSocketIO(ctx context.Context, opts SocketIOOptions) (*Emitting, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL)
	logger.Info("Connecting live publisher...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must be absolute", opts.URL)
	}

	clientOpts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		clientOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		clientOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	clientOpts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, clientOpts)
	io := manager.Socket(namespace, clientOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Live publisher connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	event := opts.Event
	if event == "" {
		event = "outcome"
	}
	return &Emitting{
		RunID: opts.RunID,
		Event: event,
		emit: func(ev string, args ...any) {
			io.Emit(ev, args...)
		},
		close: func() {
			logger.Debug("Disconnecting live publisher.", "sid", io.Id())
			io.Disconnect()
		},
	}, nil
}

// NewEmitting builds a publisher around an arbitrary emit function.
func NewEmitting(runID, event string, emit func(event string, args ...any)) *Emitting {
	return &Emitting{RunID: runID, Event: event, emit: emit}
}
