package idempotency

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// HeaderKey is the request header clients set to make a POST replayable
const HeaderKey = "Idempotency-Key"

// HeaderReplayed marks a response served from the store
const HeaderReplayed = "Idempotent-Replayed"

const maxKeyLength = 255

type problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Middleware replays the stored response when an authenticated user repeats
// a POST with the same Idempotency-Key. Requests without the header, or
// without an authenticated user, pass through. Server errors are not stored
// so the client can retry them.
func Middleware(store *Store) echo.MiddlewareFunc {
	return middlewareWithHook(store, nil)
}

// middlewareWithHook runs afterLookup between the first store miss and the
// in-flight claim.
func middlewareWithHook(store *Store, afterLookup func(key string)) echo.MiddlewareFunc {
	var inFlight sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			header := req.Header.Get(HeaderKey)
			userID := middleware.GetUserID(c)
			if req.Method != http.MethodPost || header == "" || userID == uuid.Nil {
				return next(c)
			}
			if len(header) > maxKeyLength {
				return reject(c, http.StatusBadRequest, "Bad Request", "Idempotency-Key is too long")
			}

			key := userID.String() + ":" + header

			if rec, err := store.Get(key); err == nil {
				return replay(c, header, rec)
			}
			if afterLookup != nil {
				afterLookup(key)
			}

			if _, busy := inFlight.LoadOrStore(key, struct{}{}); busy {
				return reject(c, http.StatusConflict, "Request In Progress",
					"A request with this Idempotency-Key is still being processed")
			}
			defer inFlight.Delete(key)

			// A request holding the key may have finished and released it
			// after the lookup above.
			if rec, err := store.Get(key); err == nil {
				return replay(c, header, rec)
			}

			res := c.Response()
			capture := &captureWriter{ResponseWriter: res.Writer}
			res.Writer = capture
			err := next(c)
			res.Writer = capture.ResponseWriter

			if err != nil || res.Status >= http.StatusInternalServerError {
				return err
			}

			_, _, saveErr := store.Save(key, &Record{
				Method:      req.Method,
				Path:        req.URL.Path,
				Status:      res.Status,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        capture.body.Bytes(),
			})
			if saveErr != nil {
				log.Error().Err(saveErr).Str("key", header).Msg("Failed to store idempotent response")
			}
			return nil
		}
	}
}

func replay(c echo.Context, header string, rec *Record) error {
	req := c.Request()
	if rec.Method != req.Method || rec.Path != req.URL.Path {
		return reject(c, http.StatusUnprocessableEntity, "Idempotency Key Reused",
			"Idempotency-Key was already used for a different request")
	}
	log.Debug().Str("key", header).Str("path", rec.Path).Msg("Replaying idempotent response")
	c.Response().Header().Set(HeaderReplayed, "true")
	return c.Blob(rec.Status, rec.ContentType, rec.Body)
}

type captureWriter struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func reject(c echo.Context, status int, title, detail string) error {
	return c.JSON(status, problem{
		Type:     "https://committee.app/errors/idempotency",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}
