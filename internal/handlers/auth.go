package handlers

import (
	"errors"
	"net/http"

	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in.
type authCredentials struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondAuthError writes validation and gateway rejections with their
// user-facing message; rejectCode applies to gateway rejections.
func (h *Handler) respondAuthError(c *gin.Context, rejectCode int, logKey, email string, err error) {
	var verr *service.ValidationError
	var authErr *service.AuthError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &authErr):
		if h.log != nil {
			h.log.Infow(logKey, "email", email, "err", err)
		}
		c.JSON(rejectCode, gin.H{"error": authErr.Message})
	default:
		h.logAndJSONError(c, http.StatusBadGateway, "authentication service unavailable", logKey, err, "email", email)
	}
}

// @Summary      Sign up
// @Description  Creates a viewer account. Responds 202 without a session when the gateway requires email confirmation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  service.AuthResult
// @Success      202   {object}  map[string]interface{}  "message, user"
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.SignUp(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, service.ErrEmailConfirmationRequired) {
		c.JSON(http.StatusAccepted, gin.H{
			"message":              err.Error(),
			"confirmEmailRequired": true,
			"user":                 res.User,
		})
		return
	}
	if err != nil {
		h.respondAuthError(c, http.StatusBadRequest, "auth_sign_up_failed", input.Email, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  service.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondAuthError(c, http.StatusUnauthorized, "auth_sign_in_failed", input.Email, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary      Sign out
// @Description  Always succeeds locally, even when the remote sign-out fails.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.AuthResult
// @Router       /auth/sign-out [post]
// @Security     BearerAuth
func (h *Handler) signOut(c *gin.Context) {
	token, _ := bearerToken(c)

	var uid string
	if token != "" {
		// An expired session still owns local state that must be dropped.
		if sub, err := h.services.TokenSubject(token); err == nil {
			uid = sub
		}
	}

	c.JSON(http.StatusOK, h.services.SignOut(c.Request.Context(), token, uid))
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user, role, roleFallback"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	res := resolution(c)
	c.JSON(http.StatusOK, gin.H{
		"user":         res.Identity,
		"role":         res.Role,
		"roleFallback": res.Fallback,
	})
}
