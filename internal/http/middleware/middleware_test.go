package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/correlationid"
)

func TestRecoverer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newRouter := func(exposeStack bool) chi.Router {
		r := chi.NewRouter()
		r.Use(middleware.Recoverer(logger, exposeStack))
		r.Get("/boom", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})
		return r
	}

	t.Run("hides stack", func(t *testing.T) {
		resp := httptest.NewRecorder()
		newRouter(false).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"code":"internalServerError","message":"internal server error"}`, resp.Body.String())
	})

	t.Run("exposes stack", func(t *testing.T) {
		resp := httptest.NewRecorder()
		newRouter(true).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Contains(t, resp.Body.String(), `"stack":"goroutine`)
	})
}

func TestCorrelationIDStoredInContext(t *testing.T) {
	var got string

	r := chi.NewRouter()
	r.Use(middleware.CorrelationID())
	r.Get("/", func(_ http.ResponseWriter, r *http.Request) {
		got, _ = correlationid.FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(correlationid.Header, "abc")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, "abc", got)
	assert.Equal(t, "abc", resp.Header().Get(correlationid.Header))
}

const testSpec = `
openapi: 3.0.3
info:
  title: test
  version: "1"
paths:
  /items:
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                qty:
                  type: integer
                  minimum: 1
      responses:
        "200":
          description: ok
`

func TestOpenAPIValidator(t *testing.T) {
	var rejected error
	validate, err := middleware.OpenAPIValidator([]byte(testSpec), func(w http.ResponseWriter, _ *http.Request, err error) {
		rejected = err
		w.WriteHeader(http.StatusBadRequest)
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(validate)
	r.Post("/items", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body) //nolint:errcheck
	})
	r.Get("/other", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	resp := post(`{"qty":2}`)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `{"qty":2}`, resp.Body.String())

	resp = post(`{"qty":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Error(t, rejected)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
