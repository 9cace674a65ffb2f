package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/domain/skillgraph"
	"skill-upcycle/internal/session"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	goodToken = "good-token"
	anonID    = "3f1b2c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

var testSession = session.Session{ID: "sess-1", UserID: 7, UpstreamToken: "auth-token-7"}

type fakeAuth struct {
	mu         sync.Mutex
	lastLogin  usecase.LoginInput
	loggedOut  []session.Session
	loginError error
}

func (f *fakeAuth) Login(_ context.Context, in usecase.LoginInput) (usecase.AuthResult, error) {
	f.mu.Lock()
	f.lastLogin = in
	f.mu.Unlock()
	if f.loginError != nil {
		return usecase.AuthResult{}, f.loginError
	}
	return usecase.AuthResult{UserID: 7, SessionID: "sess-1", AccessToken: goodToken, RefreshToken: "refresh"}, nil
}

func (f *fakeAuth) Signup(_ context.Context, in analysis.Signup, _ string) (usecase.AuthResult, error) {
	if _, err := analysis.NewSignup(in); err != nil {
		return usecase.AuthResult{}, errors.Join(usecase.ErrInvalidInput, err)
	}
	return usecase.AuthResult{UserID: 8, AccessToken: goodToken}, nil
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (usecase.AuthResult, error) {
	if token != "refresh" {
		return usecase.AuthResult{}, usecase.ErrInvalidRefreshToken
	}
	return usecase.AuthResult{UserID: 7, AccessToken: goodToken, RefreshToken: "refresh-2"}, nil
}

func (f *fakeAuth) Logout(_ context.Context, sess session.Session) error {
	f.mu.Lock()
	f.loggedOut = append(f.loggedOut, sess)
	f.mu.Unlock()
	return nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (session.Session, error) {
	if token != goodToken {
		return session.Session{}, usecase.ErrUnauthorized
	}
	return testSession, nil
}

type fakeUpload struct {
	mu       sync.Mutex
	sess     *session.Session
	anonID   string
	fileName string
}

func (f *fakeUpload) Upload(_ context.Context, sess *session.Session, anon string, in usecase.UploadInput) (usecase.UploadResult, error) {
	f.mu.Lock()
	f.sess, f.anonID, f.fileName = sess, anon, in.FileName
	f.mu.Unlock()
	if err := usecase.ValidateResume(in.FileName, in.Content, 1<<20); err != nil {
		return usecase.UploadResult{}, err
	}
	if sess == nil {
		return usecase.UploadResult{Status: usecase.UploadPartial, Message: usecase.PartialResultMessage}, nil
	}
	r := sampleResume(1)
	return usecase.UploadResult{Status: usecase.UploadCompleted, Analysis: &r}, nil
}

func (f *fakeUpload) ClaimPending(context.Context, session.Session, string) (bool, error) {
	return false, nil
}

type fakeDashboard struct {
	err error
}

func (f *fakeDashboard) GetDashboard(_ context.Context, sess session.Session, target int64) (usecase.Dashboard, error) {
	if f.err != nil {
		return usecase.Dashboard{}, f.err
	}
	d := usecase.Build(analysis.User{ID: target, Name: "Ana Souza"}, []analysis.Resume{sampleResume(1)})
	d.Source = usecase.SourceRemote
	return d, nil
}

func (f *fakeDashboard) GetAnalysis(_ context.Context, _ session.Session, id int64) (analysis.Resume, error) {
	switch id {
	case 1:
		return sampleResume(1), nil
	case 2:
		return analysis.Resume{ID: 2}, nil
	default:
		return analysis.Resume{}, usecase.ErrAnalysisNotFound
	}
}

func (f *fakeDashboard) Graph(ctx context.Context, sess session.Session, id int64) (skillgraph.Layout, error) {
	r, err := f.GetAnalysis(ctx, sess, id)
	if err != nil {
		return skillgraph.Layout{}, err
	}
	if len(r.Skills) == 0 {
		return skillgraph.Layout{}, usecase.ErrEmptyGraph
	}
	return skillgraph.ComputeLayout(r.Skills, r.Routes), nil
}

func (f *fakeDashboard) UpdateProfile(_ context.Context, sess session.Session, in usecase.ProfileInput) (analysis.User, error) {
	if in.Email == "" {
		return analysis.User{}, usecase.ErrInvalidInput
	}
	return analysis.User{ID: sess.UserID, Name: in.Name, Email: in.Email}, nil
}

type fakeReport struct{}

func (fakeReport) ReportHTML(_ context.Context, _ session.Session, id int64) ([]byte, error) {
	return []byte(fmt.Sprintf("<html><body>%d</body></html>", id)), nil
}

func (fakeReport) ReportPDF(_ context.Context, _ session.Session, id int64) ([]byte, error) {
	if id == 3 {
		return nil, usecase.ErrReportDisabled
	}
	return []byte("%PDF-1.4 test"), nil
}

func sampleResume(id int64) analysis.Resume {
	return analysis.Resume{
		ID:             id,
		Kind:           analysis.KindResume,
		LongevityScore: 6.5,
		Skills: []analysis.Skill{
			{Name: "COBOL", Risk: 0.9},
			{Name: "Go", Risk: 0.1},
		},
		Routes: []analysis.TransitionRoute{
			{OriginSkill: "COBOL", TargetCompetency: "Cloud Engineering", MicroSkill: "Docker"},
		},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

type testDeps struct {
	auth      *fakeAuth
	upload    *fakeUpload
	dashboard *fakeDashboard
}

func newTestApp(t *testing.T) (*fiber.App, *testDeps) {
	t.Helper()

	deps := &testDeps{auth: &fakeAuth{}, upload: &fakeUpload{}, dashboard: &fakeDashboard{}}
	logger := log.New(io.Discard, "", 0)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	Register(app.Group("/api/v1"), Deps{
		Auth:           deps.auth,
		Upload:         deps.upload,
		Dashboard:      deps.dashboard,
		Report:         fakeReport{},
		Anonymous:      middleware.NewAnonymousMiddleware("anon_sid", false, time.Hour),
		UploadMaxBytes: 1 << 20,
		Logger:         logger,
	})
	return app, deps
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()
	return resp, body
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, body)
	}
	return env
}

func authed(req *http.Request) *http.Request {
	return withToken(req, goodToken)
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestLoginForwardsAnonymousID(t *testing.T) {
	app, deps := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "anon_sid", Value: anonID})

	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if deps.auth.lastLogin.AnonID != anonID {
		t.Fatalf("anon id not forwarded: %q", deps.auth.lastLogin.AnonID)
	}

	var res usecase.AuthResult
	if err := json.Unmarshal(decode(t, body).Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if res.AccessToken != goodToken || res.UserID != 7 {
		t.Fatalf("unexpected auth result: %+v", res)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, deps := newTestApp(t)
	deps.auth.loginError = usecase.ErrInvalidCredentials

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if env := decode(t, body); env.Message != "Invalid email or password" {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestSignupValidationReason(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"x","gender":"Z"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if !strings.Contains(string(decode(t, body).Data), "gender") {
		t.Fatalf("expected gender reason in %s", body)
	}
}

func TestRefreshUsesBearerToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer refresh")
	if resp, body := do(t, app, req); resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer stale")
	if resp, _ := do(t, app, req); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogoutRequiresSession(t *testing.T) {
	app, deps := newTestApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if len(deps.auth.loggedOut) != 1 || deps.auth.loggedOut[0].ID != testSession.ID {
		t.Fatalf("logout not forwarded: %+v", deps.auth.loggedOut)
	}
}

func TestPublicRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/personality/questions", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("questions status=%d body=%s", resp.StatusCode, body)
	}
	var p struct {
		Questions      []string `json:"questions"`
		DefaultAnswers []int    `json:"default_answers"`
	}
	if err := json.Unmarshal(decode(t, body).Data, &p); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(p.Questions) != 10 || len(p.DefaultAnswers) != 10 {
		t.Fatalf("unexpected questionnaire: %d questions, %d answers", len(p.Questions), len(p.DefaultAnswers))
	}

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/help/faq", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("faq status=%d body=%s", resp.StatusCode, body)
	}
}

func multipartUpload(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnonymousUploadIsPartial(t *testing.T) {
	app, deps := newTestApp(t)

	resp, body := do(t, app, multipartUpload(t, "arquivo", "cv.pdf", []byte("%PDF-1.4 resume")))
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if env := decode(t, body); env.Message != usecase.PartialResultMessage {
		t.Fatalf("message=%q", env.Message)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "anon_sid" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected anon_sid cookie to be issued")
	}
	if deps.upload.sess != nil || deps.upload.anonID != cookie.Value {
		t.Fatalf("upload not anonymous: sess=%v anon=%q cookie=%q", deps.upload.sess, deps.upload.anonID, cookie.Value)
	}
	if deps.upload.fileName != "cv.pdf" {
		t.Fatalf("file name=%q", deps.upload.fileName)
	}
}

func TestAuthenticatedUploadCompletes(t *testing.T) {
	app, deps := newTestApp(t)

	resp, body := do(t, app, authed(multipartUpload(t, "arquivo", "cv.pdf", []byte("%PDF-1.4 resume"))))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if deps.upload.sess == nil || deps.upload.sess.UserID != testSession.UserID {
		t.Fatalf("expected session to reach the usecase")
	}
}

func TestUploadRejections(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"missing field", multipartUpload(t, "file", "cv.pdf", []byte("%PDF-1.4")), http.StatusBadRequest},
		{"not a pdf", multipartUpload(t, "arquivo", "cv.docx", []byte("PK")), http.StatusUnsupportedMediaType},
		{"too large", multipartUpload(t, "arquivo", "cv.pdf", append([]byte("%PDF-"), make([]byte, 1<<20)...)), http.StatusRequestEntityTooLarge},
		{"bad token", withToken(multipartUpload(t, "arquivo", "cv.pdf", []byte("%PDF-1.4")), "expired"), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, app, tc.req)
			if resp.StatusCode != tc.status {
				t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, tc.status, body)
			}
		})
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	var d usecase.Dashboard
	if err := json.Unmarshal(decode(t, body).Data, &d); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if d.Greeting != "Olá, Ana!" || d.User.ID != testSession.UserID {
		t.Fatalf("unexpected dashboard: greeting=%q user=%d", d.Greeting, d.User.ID)
	}
}

func TestUserDashboardAndProfile(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/42/dashboard", nil)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/abc/dashboard", nil)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", resp.StatusCode)
	}

	req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{"name":"Ana","email":"ana@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, body = do(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status=%d body=%s", resp.StatusCode, body)
	}
}

func TestUpstreamFailureHidesDetail(t *testing.T) {
	app, deps := newTestApp(t)
	deps.dashboard.err = fmt.Errorf("%w: dial tcp 10.0.0.3:8080: refused", usecase.ErrUpstreamUnavailable)

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if strings.Contains(string(body), "10.0.0.3") {
		t.Fatalf("upstream detail leaked: %s", body)
	}
}

func TestOtherUserDashboardForbidden(t *testing.T) {
	app, deps := newTestApp(t)
	deps.dashboard.err = usecase.ErrForbidden

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/2/dashboard", nil)))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if env := decode(t, body); env.Message != "Forbidden" {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestAnalysisNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/99", nil)))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGraphFormats(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/1/graph?highlight=COBOL", nil)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("json status=%d body=%s", resp.StatusCode, body)
	}
	var g struct {
		Nodes []struct {
			ID       string `json:"id"`
			Color    string `json:"color"`
			Tooltip  string `json:"tooltip"`
			Selected bool   `json:"selected"`
		} `json:"nodes"`
		Legend []skillgraph.LegendEntry `json:"legend"`
	}
	if err := json.Unmarshal(decode(t, body).Data, &g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(g.Legend) != len(skillgraph.Legend) {
		t.Fatalf("legend missing")
	}
	var found bool
	for _, n := range g.Nodes {
		if n.ID == "COBOL" {
			found = true
			if !n.Selected || n.Tooltip != "Risco: 90%" || n.Color != skillgraph.ColorHighRisk {
				t.Fatalf("unexpected COBOL node: %+v", n)
			}
		}
	}
	if !found {
		t.Fatalf("COBOL node missing")
	}

	resp, body = do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/1/graph?format=svg", nil)))
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("svg status=%d type=%q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.Contains(body, []byte("<svg")) {
		t.Fatalf("svg body missing root element")
	}

	resp, body = do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/1/graph?format=png", nil)))
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("png status=%d type=%q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Fatalf("png magic missing")
	}

	resp, _ = do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/1/graph?format=gif", nil)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", resp.StatusCode)
	}

	resp, body = do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/2/graph", nil)))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty graph status=%d", resp.StatusCode)
	}
	if env := decode(t, body); env.Message != skillgraph.EmptyStateMessage {
		t.Fatalf("empty graph message=%q", env.Message)
	}
}

func TestReportPDF(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/1/report.pdf", nil)))
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("status=%d type=%q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "analise-1.pdf") {
		t.Fatalf("content disposition=%q", resp.Header.Get("Content-Disposition"))
	}

	resp, _ = do(t, app, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/3/report.pdf", nil)))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when printing is disabled, got %d", resp.StatusCode)
	}
}
