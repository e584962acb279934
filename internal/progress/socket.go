package progress

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Socket.io event names emitted by SocketReporter.
const (
	EventIteration = "iteration"
	EventFinished  = "finished"
)

// DefaultDialTimeout bounds how long Dial waits for the connection.
const DefaultDialTimeout = 15 * time.Second

// SocketOptions configures Dial.
type SocketOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketReporter streams progress to a socket.io server.
type SocketReporter struct {
	emit  func(event string, args ...any)
	close func()
}

// Dial connects to the server and returns a reporter bound to the socket.
func Dial(ctx context.Context, o SocketOptions) (*SocketReporter, error) {
	logger := ctxlog.FromContext(ctx).With("reporter", "socketio", "url", o.URL)

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("progress URL %q needs a scheme and a host", o.URL)
	}
	namespace := o.Namespace
	if namespace == "" {
		namespace = "/"
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Progress stream connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

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

	return &SocketReporter{
		emit: func(event string, args ...any) {
			io.Emit(event, args...)
		},
		close: func() {
			logger.Debug("Disconnecting progress stream.")
			io.Disconnect()
		},
	}, nil
}

// Iteration implements Reporter.
func (r *SocketReporter) Iteration(_ context.Context, ev Event) {
	r.emit(EventIteration, map[string]any{
		"run":         ev.RunID,
		"iteration":   ev.Iteration,
		"paths":       ev.Paths,
		"pruned":      ev.Pruned,
		"malformed":   ev.Malformed,
		"attempts":    ev.Attempts,
		"duration_ms": ev.Duration.Milliseconds(),
	})
}

// Finished implements Reporter.
func (r *SocketReporter) Finished(_ context.Context, s Summary) {
	r.emit(EventFinished, map[string]any{
		"run":         s.RunID,
		"iterations":  s.Iterations,
		"reason":      s.Reason,
		"records":     s.Records,
		"accepted":    s.Accepted,
		"words":       s.Words,
		"duration_ms": s.Duration.Milliseconds(),
	})
}

// Close disconnects the socket.
func (r *SocketReporter) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}
