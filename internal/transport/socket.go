package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/rbright/talkd/internal/daemon"
)

// ErrNotASocket is returned when path exists but is not a Unix socket.
var ErrNotASocket = errors.New("path exists and is not a socket")

// ListenUnix prepares path for listening: a stale socket left behind by a
// previous instance is removed; anything else already at path is rejected.
func ListenUnix(path string) (net.Listener, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// nothing to clean up
	case err != nil:
		return nil, fmt.Errorf("stat socket path %q: %w", path, err)
	default:
		if info.Mode()&os.ModeSocket == 0 {
			return nil, ErrNotASocket
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket %q: %w", path, err)
		}
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen unix %q: %w", path, err)
	}
	return listener, nil
}

// ServeSocket accepts one client connection at a time until ctx is
// cancelled or the listener is closed, decoding newline-delimited JSON
// commands onto commands and writing newline-terminated JSON responses
// read from responses. A line that fails to decode is logged and skipped;
// a response write failure is logged and ends the connection; the listener
// keeps accepting.
func ServeSocket(ctx context.Context, listener net.Listener, logger *slog.Logger, commands chan<- daemon.Command, responses <-chan daemon.Response) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept socket connection: %w", err)
		}

		serveConnection(ctx, conn, logger, commands, responses)
	}
}

// serveConnection runs the reader and writer sibling goroutines over one
// accepted connection and blocks until both finish. Once the writer stops,
// the connection is closed so a reader blocked on it returns.
func serveConnection(ctx context.Context, conn net.Conn, logger *slog.Logger, commands chan<- daemon.Command, responses <-chan daemon.Response) {
	defer conn.Close()

	connDone := make(chan struct{})
	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			cmd, err := DecodeCommand(line)
			if err != nil {
				logger.Warn("socket command decode failed", "error", err)
				continue
			}
			select {
			case commands <- cmd:
			case <-connDone:
				return
			}
		}
	}()

	go func() {
		defer close(connDone)
		writer := bufio.NewWriter(conn)
		for {
			select {
			case resp, ok := <-responses:
				if !ok {
					return
				}
				encoded, err := EncodeResponse(resp)
				if err != nil {
					logger.Warn("socket response encode failed", "error", err)
					continue
				}
				if _, err := writer.Write(append(encoded, '\n')); err != nil {
					logger.Warn("socket response write failed", "error", err)
					return
				}
				if err := writer.Flush(); err != nil {
					logger.Warn("socket response flush failed", "error", err)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-connDone
	_ = conn.Close()
	<-readerDone
}
