package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Narutostha/sanambar/internal/config"
	"github.com/Narutostha/sanambar/internal/model"
	"github.com/Narutostha/sanambar/internal/repository"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
	"github.com/Narutostha/sanambar/pkg/messaging"
)

// SessionChannel is the broker channel every session change flows
// through: sign-in, sign-out and refresh alike.
const SessionChannel = "auth.session_changes"

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service owns admin authentication: password login, DB-backed
// sessions, JWT token pairs and the session-change notification
// channel subscribers register against.
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         config.JWTConfig
	broker      messaging.Broker
	logger      zerolog.Logger
	instanceID  uuid.UUID

	mu          sync.Mutex
	subscribers map[int]func(model.SessionEvent)
	nextSubID   int
}

func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository,
	cfg config.JWTConfig, broker messaging.Broker, logger zerolog.Logger) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		broker:      broker,
		logger:      logger,
		instanceID:  uuid.New(),
		subscribers: make(map[int]func(model.SessionEvent)),
	}
}

// Login verifies credentials, opens a session row and returns a token
// pair. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", ErrInvalidCredentials)
	}

	session := &model.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.RefreshExpiryHours) * time.Hour),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperrors.Wrap("failed to create session", err)
	}

	tokens, err := s.issueTokens(ctx, user, session)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.SessionEvent{
		Type:      model.SessionSignedIn,
		SessionID: session.ID,
		UserID:    user.ID,
		At:        time.Now(),
		Origin:    s.instanceID,
	})

	return tokens, nil
}

// ParseAccessToken checks the access token signature and returns its
// claims. Whether the named session is still live is the gate's
// question, answered against the session store.
func (s *Service) ParseAccessToken(token string) (*model.TokenClaims, error) {
	claims, err := s.parseToken(token, s.cfg.Secret)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}
	return claims, nil
}

// CheckSession reports whether the named session is still live. Errors
// other than not-found bubble up so the gate can log them; the answer
// is still a definitive false.
func (s *Service) CheckSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return session.Live(time.Now()), nil
}

// Logout revokes the session and notifies subscribers. The caller
// treats logout as successful even if the notification never lands.
func (s *Service) Logout(ctx context.Context, claims *model.TokenClaims) error {
	if err := s.sessionRepo.Revoke(ctx, claims.SessionID); err != nil {
		return apperrors.Wrap("failed to revoke session", err)
	}

	s.publish(ctx, model.SessionEvent{
		Type:      model.SessionSignedOut,
		SessionID: claims.SessionID,
		UserID:    claims.UserID,
		At:        time.Now(),
		Origin:    s.instanceID,
	})

	return nil
}

// Refresh rotates the refresh token and issues a new pair against the
// same session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.parseToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	session, err := s.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, apperrors.Unauthorized("session not found", err)
	}
	if !session.Live(time.Now()) {
		return nil, apperrors.Unauthorized("session expired or revoked", nil)
	}
	if session.RefreshTokenHash != hashToken(refreshToken) {
		return nil, apperrors.Unauthorized("refresh token superseded", nil)
	}

	user, err := s.userRepo.Get(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.Wrap("failed to load user", err)
	}

	tokens, err := s.issueTokens(ctx, user, session)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.SessionEvent{
		Type:      model.SessionRefreshed,
		SessionID: session.ID,
		UserID:    user.ID,
		At:        time.Now(),
		Origin:    s.instanceID,
	})

	return tokens, nil
}

// Subscribe registers fn for every session-change event and returns the
// matching unsubscribe. Callers must invoke the returned func on
// teardown; a leaked subscription outlives its component.
func (s *Service) Subscribe(fn func(model.SessionEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// RunBridge forwards session events published by other instances into
// the local subscriber set. It blocks until ctx is cancelled and is a
// no-op without a broker.
func (s *Service) RunBridge(ctx context.Context) error {
	if s.broker == nil {
		<-ctx.Done()
		return nil
	}

	msgs, err := s.broker.Subscribe(ctx, SessionChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to session channel: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-msgs:
			if !ok {
				return nil
			}
			var event model.SessionEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				s.logger.Warn().Err(err).Msg("malformed session event")
				continue
			}
			if event.Origin == s.instanceID {
				continue
			}
			s.dispatch(event)
		}
	}
}

func (s *Service) issueTokens(ctx context.Context, user *model.User, session *model.Session) (*model.TokenResponse, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)

	accessToken, err := s.signToken(user, session, expiresAt, s.cfg.Secret)
	if err != nil {
		return nil, apperrors.Backend("failed to sign access token", err)
	}

	refreshToken, err := s.signToken(user, session, session.ExpiresAt, s.cfg.RefreshSecret)
	if err != nil {
		return nil, apperrors.Backend("failed to sign refresh token", err)
	}

	if err := s.sessionRepo.UpdateRefreshHash(ctx, session.ID, hashToken(refreshToken)); err != nil {
		return nil, apperrors.Wrap("failed to store refresh token", err)
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) signToken(user *model.User, session *model.Session, expiresAt time.Time, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"sid":   session.ID.String(),
		"email": user.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *Service) parseToken(raw, secret string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	email, _ := claims["email"].(string)

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid user id in token")
	}
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return nil, errors.New("invalid session id in token")
	}

	return &model.TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
		Email:     email,
	}, nil
}

// publish fans the event out locally and, best effort, to the broker
// for other instances. Notification failure never fails the operation
// that caused it.
func (s *Service) publish(ctx context.Context, event model.SessionEvent) {
	s.dispatch(event)

	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, SessionChannel, event); err != nil {
		s.logger.Warn().Err(err).
			Str("type", string(event.Type)).
			Msg("failed to broadcast session event")
	}
}

func (s *Service) dispatch(event model.SessionEvent) {
	s.mu.Lock()
	fns := make([]func(model.SessionEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
