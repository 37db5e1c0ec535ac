// Package session owns the signed-in identity derived from the persisted
// credential.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go-oms/models"
	"go-oms/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EntryRoute is where sign-out sends the user.
const EntryRoute = "/login"

// ErrInvalidCredential is returned by SignIn for a token that cannot be decoded.
var ErrInvalidCredential = errors.New("invalid credential")

// Session is the decoded identity of the current actor.
type Session struct {
	ID           primitive.ObjectID
	Name         string
	Role         models.Role
	ProfileImage string
}

// Navigator moves the application to a route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Store holds the current session. It is the only writer of the session and the
// persisted credential; everyone else gets copies.
type Store struct {
	mu      sync.RWMutex
	tokens  TokenStore
	nav     Navigator
	logger  *zap.Logger
	token   string
	current *Session
}

// NewStore restores the session from the persisted credential. A credential that
// does not decode is cleared and the store starts signed out.
func NewStore(tokens TokenStore, nav Navigator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{tokens: tokens, nav: nav, logger: logger}

	token, err := tokens.Load()
	if err != nil {
		logger.Warn("could not read persisted credential", zap.Error(err))
		return s
	}
	if token == "" {
		return s
	}
	sess, err := Decode(token)
	if err != nil {
		logger.Debug("discarding undecodable credential", zap.Error(err))
		if err := tokens.Clear(); err != nil {
			logger.Warn("could not clear credential", zap.Error(err))
		}
		return s
	}
	s.token = token
	s.current = sess
	return s
}

// SetNavigator replaces the navigator. The UI installs itself once it exists.
func (s *Store) SetNavigator(nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

// Decode turns a credential into a Session without any network call.
func Decode(token string) (*Session, error) {
	claims, err := utils.DecodeClaims(token)
	if err != nil {
		return nil, err
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedToken, err)
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject id: %v", utils.ErrMalformedToken, err)
	}
	return &Session{
		ID:           id,
		Name:         claims.Name,
		Role:         role,
		ProfileImage: claims.ProfileImage,
	}, nil
}

// SignIn persists token and makes its identity current.
func (s *Store) SignIn(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		return Session{}, err
	}
	sess, err := Decode(token)
	if err != nil {
		if cerr := s.tokens.Clear(); cerr != nil {
			s.logger.Warn("could not clear credential", zap.Error(cerr))
		}
		s.token = ""
		s.current = nil
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	s.token = token
	s.current = sess
	s.logger.Info("signed in", zap.String("user_id", sess.ID.Hex()), zap.String("role", string(sess.Role)))
	return *sess, nil
}

// SignOut forgets the credential and the session and returns to the entry screen.
func (s *Store) SignOut() {
	s.mu.Lock()
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("could not clear credential", zap.Error(err))
	}
	s.token = ""
	s.current = nil
	nav := s.nav
	s.mu.Unlock()

	s.logger.Info("signed out")
	if nav != nil {
		nav.Navigate(EntryRoute)
	}
}

// Current returns a copy of the session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the raw credential for the transport, "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
