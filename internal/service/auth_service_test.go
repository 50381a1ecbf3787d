package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/questforge/quest-board/internal/auth"
	"github.com/questforge/quest-board/internal/config"
	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/service"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AdventurerSecrets: config.SecretPair{
			AccessSecret:  "adv-access",
			RefreshSecret: "adv-refresh",
		},
		GuildCommanderSecrets: config.SecretPair{
			AccessSecret:  "gc-access",
			RefreshSecret: "gc-refresh",
		},
		AccessTokenTTLHours:  24,
		RefreshTokenTTLHours: 168,
	}
}

type authFixture struct {
	svc         *service.AuthService
	secrets     *auth.Secrets
	adventurers *fakeAdventurerRepo
	commanders  *fakeCommanderRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := testAuthConfig()
	secrets := auth.NewSecrets(cfg)
	adventurers := newFakeAdventurerRepo()
	commanders := newFakeCommanderRepo()
	svc := service.NewAuthService(cfg, secrets, service.AuthDependencies{
		AdventurerRepo:     adventurers,
		GuildCommanderRepo: commanders,
	}, zap.NewNop())
	return &authFixture{svc: svc, secrets: secrets, adventurers: adventurers, commanders: commanders}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash, not the plaintext", func(t *testing.T) {
		fx := newAuthFixture(t)

		id, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		stored, err := fx.adventurers.FindByUsername(ctx, "lyra")
		require.NoError(t, err)
		assert.NotEqual(t, "swordfish", stored.PasswordHash)
		assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))

		ok, err := auth.VerifyPassword("swordfish", stored.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, err := fx.svc.RegisterGuildCommander(ctx, "thorne", "pw-one")
		require.NoError(t, err)
		_, err = fx.svc.RegisterGuildCommander(ctx, "thorne", "pw-two")
		assert.Equal(t, "CONFLICT", errorCode(t, err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield two distinct tokens", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		passport, err := fx.svc.LoginAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)
		assert.NotEmpty(t, passport.AccessToken)
		assert.NotEmpty(t, passport.RefreshToken)
		assert.NotEqual(t, passport.AccessToken, passport.RefreshToken)

		pair, err := fx.secrets.For(domain.RoleAdventurer)
		require.NoError(t, err)
		claims, err := auth.ParseToken(pair.Access, domain.RoleAdventurer, passport.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "1", claims.Subject)
		assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

		refreshClaims, err := auth.ParseToken(pair.Refresh, domain.RoleAdventurer, passport.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 168*time.Hour, refreshClaims.ExpiresAt.Sub(refreshClaims.IssuedAt.Time))
	})

	t.Run("wrong password and unknown username are indistinguishable", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		_, errWrongPassword := fx.svc.LoginAdventurer(ctx, "lyra", "tuna")
		_, errUnknownUser := fx.svc.LoginAdventurer(ctx, "nobody", "swordfish")

		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, errWrongPassword))
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, errUnknownUser))
		assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	})

	t.Run("malformed stored hash is a hashing failure", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.adventurers.byName["broken"] = &domain.Adventurer{
			ID:           9,
			Username:     "broken",
			PasswordHash: "not-a-phc-string",
		}

		_, err := fx.svc.LoginAdventurer(ctx, "broken", "whatever")
		assert.Equal(t, "HASHING_FAILURE", errorCode(t, err))
	})

	t.Run("adventurer access token is rejected under commander secrets", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		passport, err := fx.svc.LoginAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		gcPair, err := fx.secrets.For(domain.RoleGuildCommander)
		require.NoError(t, err)
		_, err = auth.ParseToken(gcPair.Access, domain.RoleGuildCommander, passport.AccessToken)
		assert.Error(t, err)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("new access token, refresh expiry preserved", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterGuildCommander(ctx, "thorne", "castle")
		require.NoError(t, err)

		passport, err := fx.svc.LoginGuildCommander(ctx, "thorne", "castle")
		require.NoError(t, err)

		pair, err := fx.secrets.For(domain.RoleGuildCommander)
		require.NoError(t, err)
		originalRefresh, err := auth.ParseToken(pair.Refresh, domain.RoleGuildCommander, passport.RefreshToken)
		require.NoError(t, err)

		renewed, err := fx.svc.RefreshGuildCommander(ctx, passport.RefreshToken)
		require.NoError(t, err)

		newAccess, err := auth.ParseToken(pair.Access, domain.RoleGuildCommander, renewed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, originalRefresh.Subject, newAccess.Subject)
		assert.Equal(t, 24*time.Hour, newAccess.ExpiresAt.Sub(newAccess.IssuedAt.Time))

		newRefresh, err := auth.ParseToken(pair.Refresh, domain.RoleGuildCommander, renewed.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, originalRefresh.ExpiresAt.Unix(), newRefresh.ExpiresAt.Unix())
	})

	t.Run("expired refresh token is invalid", func(t *testing.T) {
		fx := newAuthFixture(t)
		pair, err := fx.secrets.For(domain.RoleAdventurer)
		require.NoError(t, err)

		now := time.Now()
		expired, err := auth.GenerateToken(pair.Refresh,
			auth.NewClaims(1, domain.RoleAdventurer, now.Add(-2*time.Hour), now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = fx.svc.RefreshAdventurer(ctx, expired)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, err))
	})

	t.Run("tampered refresh token is invalid", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		passport, err := fx.svc.LoginAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		tampered := passport.RefreshToken[:len(passport.RefreshToken)-2] + "xx"
		_, err = fx.svc.RefreshAdventurer(ctx, tampered)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, err))
	})

	t.Run("refresh tokens do not cross roles", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		passport, err := fx.svc.LoginAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		_, err = fx.svc.RefreshGuildCommander(ctx, passport.RefreshToken)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, err))
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.svc.RegisterAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		passport, err := fx.svc.LoginAdventurer(ctx, "lyra", "swordfish")
		require.NoError(t, err)

		_, err = fx.svc.RefreshAdventurer(ctx, passport.AccessToken)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, err))
	})
}
