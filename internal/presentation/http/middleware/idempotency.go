package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the key store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// idempotencyScope keys stored responses by operator when authenticated, else by client IP
func idempotencyScope(c *gin.Context) string {
	if op := c.GetString(OperatorKey); op != "" {
		return "operator:" + op
	}
	return "ip:" + c.ClientIP()
}

// Idempotency replays the stored response when a POST, PUT or PATCH repeats an
// Idempotency-Key. The key is reserved before the handler runs, so a duplicate
// arriving mid-flight gets a 409 instead of running again. Only 2xx responses
// are kept; any other outcome releases the key so a failed sale can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		now := time.Now()
		ikey := &entity.IdempotencyKey{
			Key:       idempotencyKey,
			Scope:     idempotencyScope(c),
			Endpoint:  c.Request.Method + " " + c.FullPath(),
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}

		reserved, err := config.Repo.Reserve(c.Request.Context(), ikey)
		if err != nil {
			logx.Warn().Str("key", ikey.Key).Err(err).Msg("idempotency reservation failed")
			c.Next()
			return
		}
		if !reserved {
			replayOrReject(c, config.Repo, ikey)
			return
		}

		// stores outlive a cancelled client
		storeCtx := context.WithoutCancel(c.Request.Context())
		finished := false
		defer func() {
			if !finished {
				if err := config.Repo.Release(storeCtx, ikey.Key, ikey.Scope); err != nil {
					logx.Warn().Str("key", ikey.Key).Err(err).Msg("failed to release idempotency key")
				}
			}
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		finished = true
		if err := config.Repo.Complete(storeCtx, ikey); err != nil {
			logx.Error().Str("key", ikey.Key).Err(err).Msg("failed to store idempotent response, key stays in progress until expiry")
		}
	}
}

func replayOrReject(c *gin.Context, repo repository.IdempotencyRepository, ikey *entity.IdempotencyKey) {
	existing, err := repo.GetByKey(c.Request.Context(), ikey.Key, ikey.Scope)
	if err != nil {
		logx.Warn().Err(err).Str("key", ikey.Key).Msg("idempotency lookup failed")
	}
	if existing != nil && !existing.InProgress() {
		c.Header(IdempotencyReplayedHeader, "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
		c.Abort()
		return
	}
	response.Error(c, apperror.NewConflictError("A request with this Idempotency-Key is still in progress"))
	c.Abort()
}
