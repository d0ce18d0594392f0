package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// AuthHandler handles the registration/activation/login/2FA and password
// reset endpoints.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Code        string `json:"code"        validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type registerResponse struct {
	Msg string `json:"msg"`
	UID string `json:"uid"`
}

type loginResponse struct {
	Msg       string `json:"msg"`
	TwoFactor bool   `json:"twoFactor"`
	UID       string `json:"uid"`
}

type pendingActivationResponse struct {
	Msg                 string `json:"msg"`
	PendingVerification bool   `json:"pendingVerification"`
}

type tokenResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token,omitempty"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

// Register creates a new, inactive account and emails an activation code.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	uid, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Msg: "user registered, check your email for the activation code",
		UID: uid,
	})
}

// Login checks credentials and, when the account is active, emails a fresh
// 2FA code. It never returns a session token directly.
//
// @Summary      First login step (credentials)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  pendingActivationResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	uid, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAccountInactive) {
			return c.JSON(http.StatusForbidden, pendingActivationResponse{
				Msg:                 "account inactive, verify your email with the activation code",
				PendingVerification: true,
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Msg:       "2FA required, code sent to your email",
		TwoFactor: true,
		UID:       uid,
	})
}

// VerifyAccount consumes the activation code sent at registration.
//
// @Summary      Activate an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Email and code"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/verify-account [post]
func (h *AuthHandler) VerifyAccount(c echo.Context) error {
	var req verifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.VerifyAccount(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	if result.AlreadyActive {
		return c.JSON(http.StatusOK, msgResponse{Msg: "account already active, proceed with login"})
	}

	return c.JSON(http.StatusOK, tokenResponse{Msg: "account activated, welcome", Token: result.Token})
}

// VerifyTwoFactor consumes a login 2FA code and issues the session token.
//
// @Summary      Second login step (2FA code)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Email and code"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/verify-2fa [post]
func (h *AuthHandler) VerifyTwoFactor(c echo.Context) error {
	var req verifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.VerifyTwoFactor(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Msg: "2FA verified, welcome", Token: token})
}

// RequestTwoFactor re-sends a 2FA code for an active account.
//
// @Summary      Re-send a 2FA code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  msgResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/request-2fa [post]
func (h *AuthHandler) RequestTwoFactor(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.RequestTwoFactor(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "new 2FA code sent to your email"})
}

// ForgotPassword issues a password-reset code by email.
//
// @Summary      Request a password-reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  msgResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "reset code sent to your email"})
}

// ResetPassword replaces the password given a valid, unexpired reset code.
//
// @Summary      Reset the password with an emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  msgResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "password reset, you can now log in"})
}
