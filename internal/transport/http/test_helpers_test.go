package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/driftroom/driftroom-server/internal/config"
	"github.com/driftroom/driftroom-server/internal/core"
	"github.com/driftroom/driftroom-server/internal/session"
	"github.com/driftroom/driftroom-server/internal/verify"
)

// newTestRouter builds a router with an always-passing verifier, no rate
// limit, and no static assets.
func newTestRouter(t *testing.T) (*gin.Engine, *core.Service) {
	t.Helper()
	return newTestRouterWithVerifier(t, verify.Static(true))
}

func newTestRouterWithVerifier(t *testing.T, verifier verify.Verifier) (*gin.Engine, *core.Service) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	disabledLogger := zerolog.New(nil)

	cfg := config.Default()
	cfg.Mode = "test"
	cfg.SessionSecret = "test-secret"
	cfg.RateLimitPerMinute = 0
	cfg.StaticPath = ""

	svc := core.NewService(core.NewRegistry(), core.NewHub(8), 0)
	gate := session.NewMemoryGate(time.Hour)

	return NewRouter(svc, gate, verifier, &cfg, &disabledLogger), svc
}

// testClient plays one browser session against an in-process router,
// carrying the session cookie across requests.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*stdhttp.Cookie
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	t.Helper()
	return &testClient{t: t, router: router, cookies: make(map[string]*stdhttp.Cookie)}
}

func (tc *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range tc.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		tc.cookies[ck.Name] = ck
	}
	return w
}

func (tc *testClient) decode(w *httptest.ResponseRecorder, into any) {
	tc.t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		tc.t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
}

// verify passes the captcha gate for this session.
func (tc *testClient) verify() {
	tc.t.Helper()
	w := tc.do(stdhttp.MethodPost, "/api/verifyCaptcha", map[string]string{"token": "test-token"})
	if w.Code != stdhttp.StatusOK {
		tc.t.Fatalf("verifyCaptcha status = %d: %s", w.Code, w.Body.String())
	}
}

func (tc *testClient) createRoom() (string, string) {
	tc.t.Helper()
	w := tc.do(stdhttp.MethodPost, "/api/createRoom", nil)
	if w.Code != stdhttp.StatusOK {
		tc.t.Fatalf("createRoom status = %d: %s", w.Code, w.Body.String())
	}
	var resp CreateRoomResponse
	tc.decode(w, &resp)
	return resp.RoomKey, resp.Username
}

func (tc *testClient) joinRoom(key string) string {
	tc.t.Helper()
	w := tc.do(stdhttp.MethodPost, "/api/joinRoom", JoinRoomRequest{RoomKey: key})
	if w.Code != stdhttp.StatusOK {
		tc.t.Fatalf("joinRoom status = %d: %s", w.Code, w.Body.String())
	}
	var resp JoinRoomResponse
	tc.decode(w, &resp)
	return resp.Username
}
