package stream

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session bundles the ambient state of one processing run: identity,
// logging, the handle registry and the shared cancellation token.
// Everything that used to be global lives here and is threaded through
// the streams a session creates.
type Session struct {
	id       uuid.UUID
	logger   *zap.Logger
	registry *Registry
	cancel   *Token

	leapSecond int8
	leapOnce   bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. Streams created by the session
// inherit it.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCancelToken shares one cancellation token across every stream
// the session creates.
func WithCancelToken(t *Token) SessionOption {
	return func(s *Session) { s.cancel = t }
}

// WithLeapSecond presets the leap-second override on created streams.
func WithLeapSecond(leap int8, once bool) SessionOption {
	return func(s *Session) {
		s.leapSecond = leap
		s.leapOnce = once
	}
}

// NewSession creates a session. Without options it logs nowhere and
// owns a fresh registry.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.New(),
		logger:     zap.NewNop(),
		registry:   NewRegistry(),
		leapSecond: LeapSecondNotSet,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the session identity.
func (s *Session) ID() uuid.UUID { return s.id }

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Registry returns the session's handle registry.
func (s *Session) Registry() *Registry { return s.registry }

// NewStream creates an empty stream carrying the session's logger,
// cancellation token and leap-second override, registered in the
// session registry.
func (s *Session) NewStream() (*Stream, Handle, error) {
	st := Open()
	s.adopt(st)

	h, err := s.registry.Register(st)
	if err != nil {
		return nil, 0, err
	}

	return st, h, nil
}

// Load loads a file into a stream carrying the session's ambient
// state, registered in the session registry.
func (s *Session) Load(path string, mode Mode) (*Stream, Handle, error) {
	st, err := Load(path, mode)
	if err != nil {
		return nil, 0, err
	}
	s.adopt(st)

	h, err := s.registry.Register(st)
	if err != nil {
		return nil, 0, err
	}

	return st, h, nil
}

// Close releases a handle issued by this session.
func (s *Session) Close(h Handle) error {
	return s.registry.Close(h)
}

func (s *Session) adopt(st *Stream) {
	st.SetLogger(s.logger.With(zap.String("session", s.id.String())))
	st.BindCancel(s.cancel)
	if s.leapSecond != LeapSecondNotSet {
		st.SetLeapSecond(s.leapSecond, s.leapOnce)
	}
}
