package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/quest-board/internal/api/dto"
	"github.com/questforge/quest-board/internal/auth"
	"github.com/questforge/quest-board/internal/config"
	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/service"
)

const passportCookieMaxAge = 14 * 24 * time.Hour

// AuthHandler exposes registration, login and refresh endpoints for both roles.
type AuthHandler struct {
	auth  *service.AuthService
	stage config.Stage
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, stage config.Stage) *AuthHandler {
	return &AuthHandler{auth: authService, stage: stage}
}

// AdventurerLogin handles POST /auth/adventurers/login.
func (h *AuthHandler) AdventurerLogin(c *fiber.Ctx) error {
	return h.login(c, h.auth.LoginAdventurer)
}

// GuildCommanderLogin handles POST /auth/guild-commanders/login.
func (h *AuthHandler) GuildCommanderLogin(c *fiber.Ctx) error {
	return h.login(c, h.auth.LoginGuildCommander)
}

// AdventurerRefresh handles POST /auth/adventurers/refresh.
func (h *AuthHandler) AdventurerRefresh(c *fiber.Ctx) error {
	return h.refresh(c, h.auth.RefreshAdventurer)
}

// GuildCommanderRefresh handles POST /auth/guild-commanders/refresh.
func (h *AuthHandler) GuildCommanderRefresh(c *fiber.Ctx) error {
	return h.refresh(c, h.auth.RefreshGuildCommander)
}

// AdventurerRegister handles POST /adventurers.
func (h *AuthHandler) AdventurerRegister(c *fiber.Ctx) error {
	return h.register(c, h.auth.RegisterAdventurer)
}

// GuildCommanderRegister handles POST /guild-commanders.
func (h *AuthHandler) GuildCommanderRegister(c *fiber.Ctx) error {
	return h.register(c, h.auth.RegisterGuildCommander)
}

func (h *AuthHandler) login(c *fiber.Ctx, login func(ctx context.Context, username, password string) (*domain.Passport, error)) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	passport, err := login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setPassportCookies(c, passport)
	return c.JSON(fiber.Map{"data": dto.PassportResponse{Passport: *passport}})
}

func (h *AuthHandler) refresh(c *fiber.Ctx, refresh func(ctx context.Context, refreshToken string) (*domain.Passport, error)) error {
	refreshToken := c.Cookies(auth.RefreshTokenCookie)
	if refreshToken == "" {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return fiber.NewError(http.StatusUnauthorized, "refresh token not found")
	}

	passport, err := refresh(c.Context(), refreshToken)
	if err != nil {
		return err
	}

	h.setPassportCookies(c, passport)
	return c.JSON(fiber.Map{"data": dto.PassportResponse{Passport: *passport}})
}

func (h *AuthHandler) register(c *fiber.Ctx, register func(ctx context.Context, username, password string) (int64, error)) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	id, err := register(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"id": id, "username": req.Username},
	})
}

func (h *AuthHandler) setPassportCookies(c *fiber.Ctx, passport *domain.Passport) {
	secure := h.stage == config.StageProduction

	c.Cookie(&fiber.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    passport.AccessToken,
		Path:     "/",
		MaxAge:   int(passportCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     auth.RefreshTokenCookie,
		Value:    passport.RefreshToken,
		Path:     "/",
		MaxAge:   int(passportCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
