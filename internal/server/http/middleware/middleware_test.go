package middleware

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/Arvinajith/online-event-server/internal/pkg/auth"
)

type parserStub struct {
	userID int64
	err    error
}

func (s parserStub) ParseToken(string) (int64, error) {
	return s.userID, s.err
}

func authEngine(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", AuthRequired(parser), func(c *gin.Context) {
		id, _ := c.Get(UserIDContextKey)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return engine
}

func TestAuthRequired(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		engine := authEngine(parserStub{})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		engine := authEngine(parserStub{userID: 42})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		engine := authEngine(parserStub{err: pkgAuth.ErrInvalidToken})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("parser failure", func(t *testing.T) {
		engine := authEngine(parserStub{err: errors.New("boom")})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer token")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", recorder.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		engine := authEngine(parserStub{userID: 42})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "42") {
			t.Fatalf("expected user id in response, got %s", recorder.Body.String())
		}
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(RequestLogger(logger))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(httptest.NewRecorder(), req)

	logged := buf.String()
	if !strings.Contains(logged, `"path":"/ping"`) || !strings.Contains(logged, `"status":204`) {
		t.Fatalf("unexpected log output: %s", logged)
	}
}

func TestDecompressRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(DecompressRequest())
	engine.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	t.Run("gzip body", func(t *testing.T) {
		var compressed bytes.Buffer
		writer := gzip.NewWriter(&compressed)
		if _, err := writer.Write([]byte("hello")); err != nil {
			t.Fatalf("compress body: %v", err)
		}
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/echo", &compressed)
		req.Header.Set("Content-Encoding", "gzip")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK || recorder.Body.String() != "hello" {
			t.Fatalf("unexpected response: %d %q", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("plain body passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("plain"))
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		if recorder.Body.String() != "plain" {
			t.Fatalf("unexpected response: %q", recorder.Body.String())
		}
	})

	t.Run("corrupt gzip rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("not-gzip"))
		req.Header.Set("Content-Encoding", "gzip")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})
}
