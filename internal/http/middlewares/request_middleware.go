package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orionjupiterai/finbrain-api/internal/actorctx"
)

const requestIDHeader = "X-Request-Id"

// RequestID propagates an incoming X-Request-Id or mints one, echoing it on
// the response so clients can quote it.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Set(string(CtxRequestID), id)

		ctx.Next()
	}
}

// RequestLogger writes one structured line per request on the default
// logger. The authenticated user shows up once auth has resolved the token.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		route := ctx.FullPath()
		if route == "" {
			route = ctx.Request.URL.Path // fallback (e.g. 404)
		}

		method := ctx.Request.Method

		ctx.Next()

		lat := time.Since(start)
		status := ctx.Writer.Status()

		reqID, _ := ctx.Get(string(CtxRequestID))

		logAttrs := []any{
			"method", method,
			"route", route,
			"status", status,
			"latency_ms", lat.Milliseconds(),
			"request_id", reqID,
		}

		if email, ok := actorctx.UserEmailFrom(ctx.Request.Context()); ok {
			logAttrs = append(logAttrs, "user", email)
		}

		slog.Default().InfoContext(ctx.Request.Context(), "http_request", logAttrs...)
	}
}
