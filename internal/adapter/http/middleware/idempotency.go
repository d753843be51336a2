package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/propfolio/ledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	// processingMarker is what the store holds while the first request
	// with a key is still in flight.
	processingMarker = "processing"
)

// IdempotencyMiddleware replays stored responses for repeated mutating
// requests carrying the same Idempotency-Key header.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			if string(cachedResponse) == processingMarker {
				// First request with this key is still running.
				http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
				return
			}

			status, body := decodeStoredResponse(cachedResponse)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(status)
			w.Write(body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			stored := encodeStoredResponse(recorder.statusCode, recorder.body.Bytes())
			if err := m.store.Update(r.Context(), key, stored, m.ttl); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to store idempotent response")
			}
			return
		}

		// Failed requests release the claim so the client can retry.
		if err := m.store.Release(r.Context(), key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to release idempotency key")
		}
	})
}

// Stored responses carry the original status code on the first line so a
// replayed 201 does not come back as a 200.
func encodeStoredResponse(status int, body []byte) []byte {
	return append([]byte(strconv.Itoa(status)+"\n"), body...)
}

func decodeStoredResponse(stored []byte) (int, []byte) {
	if i := bytes.IndexByte(stored, '\n'); i > 0 {
		if status, err := strconv.Atoi(string(stored[:i])); err == nil {
			return status, stored[i+1:]
		}
	}

	return http.StatusOK, stored
}

type responseRecorder struct {
	http.ResponseWriter

	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
