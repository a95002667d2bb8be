package codec

import (
	"errors"
	"io"
	"sync"
)

// DefaultStreamBuffer is the number of chunks a stream may hold before the
// encoder blocks.
const DefaultStreamBuffer = 10

// ErrStreamClosed is returned by reads after the consumer closed a stream.
var ErrStreamClosed = errors.New("multipart: stream closed")

// MultipartStream encodes a form on a goroutine. The body is an
// io.ReadCloser; the encoder blocks while Buffer chunks are unread, and
// closing the body stops it.
type MultipartStream struct {
	Buffer int
}

// Encode starts the encoder and returns immediately. Failures after the
// encoder started surface through the body's reads and through StreamErr.
func (s MultipartStream) Encode(form *FormData) (Payload, error) {
	if form == nil {
		return Payload{}, errNilForm
	}
	return s.encode(form, NewBoundary()), nil
}

// StreamErr returns the error a streamed body's encoder finished with.
// It is nil while the encoder runs, after a clean finish, when the consumer
// closed the stream first, and for bodies that are not streams.
func StreamErr(body io.Reader) error {
	s, ok := body.(*streamBody)
	if !ok {
		return nil
	}
	return s.Err()
}

func (s MultipartStream) encode(form *FormData, boundary string) Payload {
	size := s.Buffer
	if size <= 0 {
		size = DefaultStreamBuffer
	}
	body := newStreamBody(size)
	go func() {
		body.finish(writeForm(streamWriter{body}, form, boundary))
	}()
	return Payload{ContentType: ContentType(boundary), Body: body, Length: -1}
}

type streamBody struct {
	chunks   chan []byte
	closed   chan struct{}
	finished chan struct{}
	once     sync.Once

	mu  sync.Mutex
	err error

	pending []byte
}

func newStreamBody(size int) *streamBody {
	return &streamBody{
		chunks:   make(chan []byte, size),
		closed:   make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (s *streamBody) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return 0, s.result()
			}
			s.pending = chunk
		case <-s.closed:
			return 0, ErrStreamClosed
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Close stops the encoder. It is safe to call more than once.
func (s *streamBody) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *streamBody) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.finished)
	close(s.chunks)
}

// Err returns the encoder's failure once it has finished.
func (s *streamBody) Err() error {
	select {
	case <-s.finished:
	default:
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if errors.Is(s.err, ErrStreamClosed) {
		return nil
	}
	return s.err
}

func (s *streamBody) result() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return io.EOF
}

type streamWriter struct {
	s *streamBody
}

func (w streamWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	select {
	case w.s.chunks <- chunk:
		return len(p), nil
	case <-w.s.closed:
		return 0, ErrStreamClosed
	}
}
