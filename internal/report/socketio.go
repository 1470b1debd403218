package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/convertkit/internal/ctxlog"
)

// connectTimeout bounds how long job startup waits for the reporting
// collaborator before giving up on it.
const connectTimeout = 15 * time.Second

// SocketIO streams progress events to a socket.io endpoint and emits the
// terminal result once.
type SocketIO struct {
	logger *slog.Logger
	io     *socket.Socket
	once   sync.Once
}

// DialSocketIO connects to the reporting endpoint. A reporter that cannot
// connect is a startup failure: the caller decides whether to fall back to
// the Noop reporter or abort.
func DialSocketIO(ctx context.Context, rawURL string) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("reporter", "socketio", "url", rawURL)
	logger.Info("Connecting to reporting endpoint...")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reporter URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Reporter connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("reporter connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while connecting to reporter")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out connecting to reporter at %s", rawURL)
	}

	return &SocketIO{logger: logger, io: io}, nil
}

// Progress emits one progress event.
func (r *SocketIO) Progress(pct int, status string) {
	r.io.Emit("progress", map[string]any{
		"progress": pct,
		"status":   status,
	})
}

// Result emits the terminal signal. Calls after the first are dropped.
func (r *SocketIO) Result(code ResultCode) {
	r.once.Do(func() {
		r.logger.Debug("Emitting terminal result.", "code", int(code))
		r.io.Emit("result", map[string]any{"result": int(code)})
	})
}

// Close disconnects from the endpoint.
func (r *SocketIO) Close() {
	r.logger.Debug("Disconnecting reporter.")
	r.io.Disconnect()
}
