package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/foodbridge/backend/pkg/token"
)

// Identity headers set for downstream handlers after a token passes
// verification. Inbound values are always stripped first so a client can
// never impersonate the middleware.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// TokenAuth verifies the bearer token on each request and forwards the
// caller's identity to the handler chain.
func TokenAuth(tokens *token.Service, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(HeaderUserID)
			ctx.Request.Header.Del(HeaderUserRole)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "no token provided, authorization denied")
				return
			}

			assertion, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn("token verification failed", zap.Error(err))
				switch err {
				case token.ErrExpired:
					unauthorized(ctx, "token expired")
				default:
					unauthorized(ctx, "invalid token")
				}
				return
			}

			ctx.Request.Header.Set(HeaderUserID, assertion.SubjectID)
			ctx.Request.Header.Set(HeaderUserRole, string(assertion.Role))

			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBodyString(`{"success":false,"code":"UNAUTHORIZED","message":"` + message + `"}`)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
