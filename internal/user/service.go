package user

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caseopen-dev/kazino/internal/concurrency"
	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/repository"
)

// Service defines the interface for user account operations
type Service interface {
	// Login registers the nickname on first use and rotates the bearer
	// token on every call.
	Login(ctx context.Context, nickname string) (string, *domain.Snapshot, error)

	// Authenticate resolves a bearer token to a user, applying the lazy
	// daily counter reset.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	Me(ctx context.Context, userID string) (*domain.Snapshot, error)
	TopPlayers(ctx context.Context) ([]domain.LeaderboardRow, error)
}

const (
	tokenBytes = 24

	leaderboardLimit = 10

	cacheSize = 4096
	cacheTTL  = 5 * time.Minute
)

type service struct {
	repo            repository.User
	locks           *concurrency.LockManager
	tokens          *tokenCache
	startingBalance int64
}

// NewService creates a new user service
func NewService(repo repository.User, locks *concurrency.LockManager, startingBalance int64) Service {
	return &service{
		repo:            repo,
		locks:           locks,
		tokens:          newTokenCache(cacheSize, cacheTTL),
		startingBalance: startingBalance,
	}
}

func (s *service) Login(ctx context.Context, nickname string) (string, *domain.Snapshot, error) {
	log := logger.FromContext(ctx)

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", nil, domain.ErrNicknameRequired
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Serialize per nickname so concurrent first logins cannot race the
	// unique constraint.
	var u *domain.User
	err = s.locks.WithLock("login:"+nickname, func() error {
		existing, err := s.repo.GetUserByNickname(ctx, nickname)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if existing == nil {
			now := time.Now().UTC()
			u = &domain.User{
				ID:         uuid.NewString(),
				Nickname:   nickname,
				Token:      token,
				Balance:    s.startingBalance,
				DailyReset: TodayKey(now),
				Stats:      domain.Stats{MaxBalance: s.startingBalance},
				CreatedAt:  now,
			}
			if err := s.repo.CreateUser(ctx, u); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			log.Info("User registered", "nickname", nickname)
			return nil
		}

		s.tokens.Invalidate(existing.Token)
		existing.Token = token
		if err := s.repo.UpdateUser(ctx, *existing); err != nil {
			return fmt.Errorf("failed to rotate token: %w", err)
		}
		u = existing
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	u, err = s.maybeResetDaily(ctx, u)
	if err != nil {
		return "", nil, err
	}

	snap, err := Snapshot(ctx, s.repo, u)
	if err != nil {
		return "", nil, err
	}
	return token, snap, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	if userID, ok := s.tokens.Get(token); ok {
		u, err := s.repo.GetUserByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		// Token rotated since it was cached
		if u != nil && u.Token == token {
			return s.maybeResetDaily(ctx, u)
		}
		s.tokens.Invalidate(token)
	}

	u, err := s.repo.GetUserByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	s.tokens.Set(token, u.ID)
	return s.maybeResetDaily(ctx, u)
}

func (s *service) Me(ctx context.Context, userID string) (*domain.Snapshot, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return Snapshot(ctx, s.repo, u)
}

func (s *service) TopPlayers(ctx context.Context) ([]domain.LeaderboardRow, error) {
	return s.repo.TopPlayers(ctx, leaderboardLimit)
}

// maybeResetDaily zeroes the daily case counter when the UTC day rolled
// over since the user was last seen.
func (s *service) maybeResetDaily(ctx context.Context, u *domain.User) (*domain.User, error) {
	today := TodayKey(time.Now().UTC())
	if u.DailyReset == today {
		return u, nil
	}

	err := s.locks.WithLock(u.ID, func() error {
		fresh, err := s.repo.GetUserByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if fresh == nil || fresh.DailyReset == today {
			u = fresh
			return nil
		}
		fresh.Stats.DailyCases = 0
		fresh.DailyReset = today
		if err := s.repo.UpdateUser(ctx, *fresh); err != nil {
			return fmt.Errorf("failed to reset daily counter: %w", err)
		}
		u = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// TodayKey returns the UTC day key (YYYYMMDD) used for daily counter resets.
func TodayKey(now time.Time) int {
	y, m, d := now.UTC().Date()
	return y*10000 + int(m)*100 + d
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := crand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
