package http

import (
	"crypto/sha256"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rn-academy/progress-hub/pkg/logger"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// requestID propagates or generates X-Request-ID and puts a request-scoped
// logger into the request context.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)

		ctx := logger.WithContext(c.Request.Context(), s.logger.WithRequestID(id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// accessLog logs every request after it completes.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Latency(time.Since(start)),
			logger.String("ip", c.ClientIP()),
			logger.String("request_id", c.GetString(ctxRequestID)),
		)
	}
}

// recovery converts panics into 500 responses.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error("panic recovered",
			logger.Any("error", err),
			logger.String("stack", string(debug.Stack())),
			logger.String("path", c.Request.URL.Path),
			logger.String("request_id", c.GetString(ctxRequestID)),
		)
		writeError(c, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	})
}

// cors adds CORS headers and answers preflight requests.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, o := range s.config.AllowedOrigins {
			if o == "*" || o == origin {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type, "+s.config.APIKeyHeader+", "+headerRequestID)
				c.Header("Access-Control-Max-Age", "86400")
				break
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// API KEY AUTH
// ══════════════════════════════════════════════════════════════════════════════

// maxRejectedKeys bounds the negative cache; it is cleared when full.
const maxRejectedKeys = 1024

// apiKeyAuth checks the key header against bcrypt hashes. Keys are remembered
// by digest after the first check, accepted or rejected, so a client retrying
// a bad key does not cost a bcrypt round per configured hash each time.
type apiKeyAuth struct {
	header string
	hashes [][]byte

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
	rejected map[[sha256.Size]byte]struct{}
}

func newAPIKeyAuth(header string, hashes []string) *apiKeyAuth {
	if header == "" {
		header = "X-API-Key"
	}
	a := &apiKeyAuth{
		header:   header,
		verified: make(map[[sha256.Size]byte]struct{}),
		rejected: make(map[[sha256.Size]byte]struct{}),
	}
	for _, h := range hashes {
		if h = strings.TrimSpace(h); h != "" {
			a.hashes = append(a.hashes, []byte(h))
		}
	}
	return a
}

// Enabled reports whether any key is configured.
func (a *apiKeyAuth) Enabled() bool {
	return len(a.hashes) > 0
}

func (a *apiKeyAuth) valid(key string) bool {
	if key == "" {
		return false
	}
	digest := sha256.Sum256([]byte(key))

	a.mu.RLock()
	_, ok := a.verified[digest]
	_, bad := a.rejected[digest]
	a.mu.RUnlock()
	if ok {
		return true
	}
	if bad {
		return false
	}

	for _, h := range a.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			a.mu.Lock()
			a.verified[digest] = struct{}{}
			a.mu.Unlock()
			return true
		}
	}

	a.mu.Lock()
	if len(a.rejected) >= maxRejectedKeys {
		clear(a.rejected)
	}
	a.rejected[digest] = struct{}{}
	a.mu.Unlock()
	return false
}

func (a *apiKeyAuth) rejectedKeys() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.rejected)
}

func (a *apiKeyAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}
		if !a.valid(c.GetHeader(a.header)) {
			writeError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
			c.Abort()
			return
		}
		c.Next()
	}
}

// HashAPIKey returns the bcrypt hash to put into configuration for key.
func HashAPIKey(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
