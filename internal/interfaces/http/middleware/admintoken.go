package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/gorodok-inc/gorodok/internal/shared/logger"
	"github.com/gorodok-inc/gorodok/internal/shared/utils"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminTokenMiddleware gates admin endpoints behind the shared token. The
// configured token is either plain text or a bcrypt hash.
type AdminTokenMiddleware struct {
	token  string
	hashed bool
	logger logger.Interface
}

func NewAdminTokenMiddleware(token string, logger logger.Interface) *AdminTokenMiddleware {
	token = strings.TrimSpace(token)
	return &AdminTokenMiddleware{
		token:  token,
		hashed: strings.HasPrefix(token, "$2"),
		logger: logger,
	}
}

func (m *AdminTokenMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.token == "" {
			m.logger.Errorw("admin endpoint called but no admin token is configured", "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusInternalServerError, "admin token is not configured")
			c.Abort()
			return
		}

		presented := c.GetHeader(AdminTokenHeader)
		if presented == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing admin token")
			c.Abort()
			return
		}

		if !m.verify(presented) {
			m.logger.Warnw("invalid admin token", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid admin token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *AdminTokenMiddleware) verify(presented string) bool {
	if m.hashed {
		return bcrypt.CompareHashAndPassword([]byte(m.token), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(m.token), []byte(presented)) == 1
}
