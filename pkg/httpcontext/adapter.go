// Package httpcontext bridges fasthttp's request context into a stdlib
// context.Context so repositories and use cases stay transport-agnostic.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/foodbridge/backend/pkg/logger"
)

// Key identifies request metadata stored in the derived context.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const requestIDHeader = "X-Request-ID"

// Adapter derives a deadline-bound context from an incoming request. The
// deadline bounds every repository read and write issued on behalf of the
// request, so a stalled database cannot pin a handler forever.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach returns a context carrying the request deadline, a request ID
// (echoed back in the response header), and caller metadata. The caller owns
// the cancel function.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	requestID := resolveRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, requestID)
	ctx.Response.Header.Set(requestIDHeader, requestID)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if agent := string(ctx.Request.Header.UserAgent()); agent != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, agent)
	}

	return stdCtx, cancel
}

func resolveRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := string(ctx.Request.Header.Peek(requestIDHeader)); strings.TrimSpace(header) != "" {
			return header
		}
	}
	return uuid.NewString()
}
