package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"weather_dashboard/internal/metrics"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys.
const (
	ctxRequestID  = "requestId"
	ctxUserID     = "userId"
	ctxToken      = "accessToken"
	ctxResolution = "session"
)

// Where unauthenticated and redirected requests are sent.
const (
	signInPath  = "/"
	landingPath = "/api/v1/dashboard"
)

const errSessionUnverified = "session could not be verified, try again shortly"

// accessTokenQuery carries the token for clients that cannot set headers,
// such as browser websockets.
const accessTokenQuery = "access_token"

// bearerToken extracts the access token. It returns a non-empty message when
// the request carries no usable token.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if tok := c.Query(accessTokenQuery); tok != "" {
			return tok, ""
		}
		return "", "missing Authorization header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid Authorization header format"
	}
	return strings.TrimSpace(parts[1]), ""
}

func unauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    msg,
		"redirect": signInPath,
	})
}

// sessionMiddleware resolves identity and role on every request.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, msg := bearerToken(c)
	if msg != "" {
		unauthenticated(c, msg)
		return
	}

	if _, err := h.services.ParseToken(token); err != nil {
		unauthenticated(c, "invalid or expired token")
		return
	}

	// An error means the gateway could not be asked, not that it rejected
	// the session.
	res, err := h.services.Resolve(c.Request.Context(), token)
	if err != nil {
		h.logAndJSONError(c, http.StatusServiceUnavailable, errSessionUnverified, "session_resolve_failed", err)
		c.Abort()
		return
	}
	if res.State != service.StateAuthorized {
		unauthenticated(c, "not signed in")
		return
	}

	// store in Gin context
	c.Set(ctxToken, token)
	c.Set(ctxUserID, res.Identity.ID)
	c.Set(ctxResolution, res)
	c.Next()
}

// requireRole gates a route group on role.
func (h *Handler) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		gated, decision := resolution(c).Gate(role)
		switch decision {
		case service.DecisionAllow:
			c.Next()
		case service.DecisionDeny:
			metrics.AccessDenied.WithLabelValues(role).Inc()
			h.recordAccessDenied(c, gated, role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "access denied",
				"message": fmt.Sprintf("This page requires the %s role.", role),
			})
		case service.DecisionRedirect:
			c.Redirect(http.StatusSeeOther, landingPath)
			c.Abort()
		default:
			unauthenticated(c, "not signed in")
		}
	}
}

func (h *Handler) recordAccessDenied(c *gin.Context, res service.Resolution, role string) {
	if h.services.ActivityLog == nil || res.Identity == nil {
		return
	}
	h.services.ActivityLog.Record(c.Request.Context(), models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.ActivityAccessDenied,
		UserID:      res.Identity.ID,
		Email:       res.Identity.Email,
		Description: "access denied to " + c.Request.URL.Path,
		Metadata: map[string]any{
			"required_role": role,
			"role":          res.Role,
			"role_fallback": res.Fallback,
		},
	})
}

func accessToken(c *gin.Context) string { return c.GetString(ctxToken) }
func userID(c *gin.Context) string      { return c.GetString(ctxUserID) }

func resolution(c *gin.Context) service.Resolution {
	v, _ := c.Get(ctxResolution)
	res, _ := v.(service.Resolution)
	return res
}
