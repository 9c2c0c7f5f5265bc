package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_MasksSecretQueryAndHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}, MaskQuery: []string{"sig"}}))
	r.GET("/lockme", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/lockme?s=topsecret&sig=abc&keep=1", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("X-Api-Key", "k")
	req.Header.Set(HeaderEventID, "abc123")
	req.Header.Set(RequestIDHeader, "rid-7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, leaked := range []string{"topsecret", "Bearer tok", `"k"`, "sig=abc"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("log leaked %q:\n%s", leaked, out)
		}
	}

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected handler log + access log, got %d:\n%s", len(lines), out)
	}
	inner, access := lines[0], lines[1]
	if inner["event_id"] != "abc123" || inner["request_id"] != "rid-7" {
		t.Fatalf("request-scoped logger fields missing: %v", inner)
	}
	if access["message"] != "http_request" || access["level"] != "info" {
		t.Fatalf("unexpected access log: %v", access)
	}
	if access["query"] != "s=[REDACTED]&sig=[REDACTED]&keep=1" {
		t.Fatalf("query = %v", access["query"])
	}
	if access["path"] != "/lockme" || access["status"] != float64(200) {
		t.Fatalf("unexpected access log: %v", access)
	}
}

func TestRedactingLogger_LevelsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusForbidden) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	r.GET("/err", func(c *gin.Context) {
		_ = c.Error(http.ErrAbortHandler)
		c.Status(http.StatusOK)
	})

	for _, p := range []string{"/bad", "/fail", "/err", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	lines := logLines(t, buf)
	want := []struct{ level, path string }{
		{"warn", "/bad"}, {"error", "/fail"}, {"error", "/err"}, {"warn", "/missing"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i]["level"] != w.level || lines[i]["path"] != w.path {
			t.Fatalf("line %d = %v, want %+v", i, lines[i], w)
		}
	}
}

func TestRedactQuery(t *testing.T) {
	mask := lowerSet([]string{"s"}, nil)
	cases := map[string]string{
		"":          "",
		"s=x":       "s=[REDACTED]",
		"S=x&a=1":   "S=[REDACTED]&a=1",
		"a=1&%73=x": "a=1&s=[REDACTED]",
		"flag&s":    "flag&s=[REDACTED]",
		"a=%zz&b=2": "a=%zz&b=2",
	}
	for in, want := range cases {
		if got := redactQuery(in, mask); got != want {
			t.Fatalf("redactQuery(%q) = %q, want %q", in, got, want)
		}
	}
}
