// Package httpx provides HTTP middleware and JSON response helpers.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	wrapped := handler
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		if middleware[idx] == nil {
			continue
		}
		wrapped = middleware[idx](wrapped)
	}
	return wrapped
}

// RequestID injects and echoes a request id, and stores it on the request context.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if requestID == "" {
				generated, err := id.NewID()
				if err != nil {
					generated = fmt.Sprintf("req-%d", time.Now().UnixNano())
				}
				requestID = generated
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), requestID)))
		})
	}
}

// AccessLog logs one line per request at debug level.
func AccessLog(logger *logging.Logger) Middleware {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(started),
				"request_id", requestctx.RequestIDFromContext(r.Context()),
			)
		})
	}
}

// RecoverPanic converts panics into HTTP 500 responses.
func RecoverPanic(logger *logging.Logger) Middleware {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("panic recovered",
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", r.Header.Get(RequestIDHeader),
						"panic", fmt.Sprint(recovered),
						"stack", strings.TrimSpace(string(debug.Stack())),
					)
					_ = WriteJSONError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// DecodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return apperrors.New(apperrors.CodeInvalidPayload, "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return apperrors.New(apperrors.CodeInvalidPayload, "request body is required")
		}
		return apperrors.Wrap(apperrors.CodeInvalidPayload, "invalid JSON body: "+err.Error(), err)
	}
	return nil
}

// DecodeOptionalJSON behaves like DecodeJSON but leaves dst untouched when
// the body is empty.
func DecodeOptionalJSON(r *http.Request, dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeInvalidPayload, "invalid JSON body: "+err.Error(), err)
	}
	return nil
}

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes a JSON error response with the given status code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]any{"error": message})
}

// WriteError maps err to a status code and writes {"error", "code"}.
// Internal errors hide their message.
func WriteError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	status := apperrors.HTTPStatus(err)
	code := apperrors.CodeOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}
	_ = WriteJSON(w, status, map[string]any{"error": message, "code": string(code)})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
