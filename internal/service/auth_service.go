package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/questforge/quest-board/internal/auth"
	"github.com/questforge/quest-board/internal/config"
	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/repository"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

const pgUniqueViolation = "23505"

// AuthService executes login and refresh flows for both principal roles.
// The adventurer and guild commander flows run over distinct account
// repositories and distinct secret domains; the shared helpers are always
// handed the role they operate for, so the flows cannot cross.
type AuthService struct {
	adventurers repository.AdventurerRepository
	commanders  repository.GuildCommanderRepository
	secrets     *auth.Secrets
	accessTTL   time.Duration
	refreshTTL  time.Duration
	logger      *zap.Logger
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	AdventurerRepo     repository.AdventurerRepository
	GuildCommanderRepo repository.GuildCommanderRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, secrets *auth.Secrets, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		adventurers: deps.AdventurerRepo,
		commanders:  deps.GuildCommanderRepo,
		secrets:     secrets,
		accessTTL:   cfg.AccessTokenTTL(),
		refreshTTL:  cfg.RefreshTokenTTL(),
		logger:      logger,
	}
}

// RegisterAdventurer creates an adventurer account and returns its id.
func (s *AuthService) RegisterAdventurer(ctx context.Context, username, password string) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, apperrors.NewHashingFailure(err)
	}
	id, err := s.adventurers.Register(ctx, username, hash)
	if err != nil {
		return 0, mapRegisterError(err)
	}
	return id, nil
}

// RegisterGuildCommander creates a guild commander account and returns its id.
func (s *AuthService) RegisterGuildCommander(ctx context.Context, username, password string) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, apperrors.NewHashingFailure(err)
	}
	id, err := s.commanders.Register(ctx, username, hash)
	if err != nil {
		return 0, mapRegisterError(err)
	}
	return id, nil
}

// LoginAdventurer authenticates an adventurer and issues a passport.
func (s *AuthService) LoginAdventurer(ctx context.Context, username, password string) (*domain.Passport, error) {
	return s.login(ctx, domain.RoleAdventurer, password, func() (int64, string, error) {
		adventurer, err := s.adventurers.FindByUsername(ctx, username)
		if err != nil {
			return 0, "", err
		}
		return adventurer.ID, adventurer.PasswordHash, nil
	})
}

// LoginGuildCommander authenticates a guild commander and issues a passport.
func (s *AuthService) LoginGuildCommander(ctx context.Context, username, password string) (*domain.Passport, error) {
	return s.login(ctx, domain.RoleGuildCommander, password, func() (int64, string, error) {
		commander, err := s.commanders.FindByUsername(ctx, username)
		if err != nil {
			return 0, "", err
		}
		return commander.ID, commander.PasswordHash, nil
	})
}

// RefreshAdventurer exchanges a valid adventurer refresh token for a new passport.
func (s *AuthService) RefreshAdventurer(ctx context.Context, refreshToken string) (*domain.Passport, error) {
	return s.refresh(domain.RoleAdventurer, refreshToken)
}

// RefreshGuildCommander exchanges a valid guild commander refresh token for a new passport.
func (s *AuthService) RefreshGuildCommander(ctx context.Context, refreshToken string) (*domain.Passport, error) {
	return s.refresh(domain.RoleGuildCommander, refreshToken)
}

// login runs the credential check and dual-token issuance for one role.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) login(ctx context.Context, role domain.Role, password string, find func() (int64, string, error)) (*domain.Passport, error) {
	principalID, storedHash, err := find()
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, storedHash)
	if err != nil {
		// A stored hash that cannot be parsed is a data integrity problem,
		// not a login failure.
		s.logger.Error("stored password hash is malformed",
			zap.String("role", string(role)),
			zap.Int64("principal_id", principalID),
			zap.Error(err))
		return nil, apperrors.NewHashingFailure(err)
	}
	if !ok {
		return nil, apperrors.NewInvalidCredentials()
	}

	now := time.Now()
	return s.issuePassport(role, principalID, now, now.Add(s.refreshTTL))
}

// refresh verifies the refresh token under the role's refresh secret and
// issues a fresh passport. The new refresh token keeps the verified token's
// expiry, so the session never outlives its original grant.
func (s *AuthService) refresh(role domain.Role, refreshToken string) (*domain.Passport, error) {
	pair, err := s.secrets.For(role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	claims, err := auth.ParseToken(pair.Refresh, role, refreshToken)
	if err != nil {
		s.logger.Debug("refresh token rejected",
			zap.String("role", string(role)),
			zap.Error(err))
		return nil, apperrors.NewInvalidToken()
	}

	principalID, err := claims.PrincipalID()
	if err != nil {
		return nil, apperrors.NewMalformedSubject(err)
	}

	return s.issuePassport(role, principalID, time.Now(), claims.ExpiresAt.Time)
}

func (s *AuthService) issuePassport(role domain.Role, principalID int64, now, refreshExpiry time.Time) (*domain.Passport, error) {
	pair, err := s.secrets.For(role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	accessToken, err := auth.GenerateToken(pair.Access,
		auth.NewClaims(principalID, role, now, now.Add(s.accessTTL)))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	refreshToken, err := auth.GenerateToken(pair.Refresh,
		auth.NewClaims(principalID, role, now, refreshExpiry))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &domain.Passport{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func mapRegisterError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperrors.NewConflict("username already taken", nil)
	}
	return err
}
