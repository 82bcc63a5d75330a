package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/refixai/refix/internal/core/protocol"
)

// maxLine bounds a single encoded message. Inspection payloads can be large.
const maxLine = 16 << 20

type message interface {
	Command() protocol.Command
}

// Stream exchanges messages as JSON lines: one encoded message per line on
// w, one per line read from r. Lines that fail to decode are logged and
// skipped.
type Stream[In, Out message] struct {
	w      io.Writer
	wmu    sync.Mutex
	out    chan In
	done   chan struct{}
	once   sync.Once
	closer io.Closer
	log    zerolog.Logger
}

// HostStream is the host side of a stream. It implements host.View.
type HostStream = Stream[protocol.HostMessage, protocol.WebviewMessage]

// WebviewStream is the webview side of a stream.
type WebviewStream = Stream[protocol.WebviewMessage, protocol.HostMessage]

// NewHostStream reads webview messages from r and writes host replies to w.
func NewHostStream(ctx context.Context, r io.Reader, w io.Writer, log zerolog.Logger) *HostStream {
	return newStream[protocol.HostMessage, protocol.WebviewMessage](ctx, r, w, protocol.DecodeHostMessage, log)
}

// NewWebviewStream reads host messages from r and writes webview requests
// to w.
func NewWebviewStream(ctx context.Context, r io.Reader, w io.Writer, log zerolog.Logger) *WebviewStream {
	return newStream[protocol.WebviewMessage, protocol.HostMessage](ctx, r, w, protocol.DecodeWebviewMessage, log)
}

func newStream[In, Out message](ctx context.Context, r io.Reader, w io.Writer, decode func([]byte) (In, error), log zerolog.Logger) *Stream[In, Out] {
	s := &Stream[In, Out]{
		w:    w,
		out:  make(chan In),
		done: make(chan struct{}),
		log:  log,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	go s.read(ctx, r, decode)
	return s
}

func (s *Stream[In, Out]) read(ctx context.Context, r io.Reader, decode func([]byte) (In, error)) {
	defer close(s.out)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := decode(line)
		if err != nil {
			s.log.Warn().Err(err).Msg("skip undecodable line")
			continue
		}
		select {
		case s.out <- msg:
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Debug().Err(err).Msg("stream read ended")
	}
}

// Post writes msg as one line.
func (s *Stream[In, Out]) Post(msg Out) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	s.wmu.Lock()
	defer s.wmu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", msg.Command(), err)
	}
	return nil
}

// Messages yields decoded messages until the reader hits EOF or the stream
// is closed.
func (s *Stream[In, Out]) Messages() <-chan In {
	return s.out
}

// Reveal is a no-op; a stream peer manages its own presentation.
func (s *Stream[In, Out]) Reveal() error {
	return nil
}

// Close stops delivery and closes the reader when it is closable.
func (s *Stream[In, Out]) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}
