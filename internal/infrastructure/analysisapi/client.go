// Package analysisapi is the typed client of the remote career-analysis
// backend. Every response is checked against the shape the dashboard needs;
// anything else fails with ErrMalformedResponse.
package analysisapi

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
	"strconv"
	"strings"
	"time"

	"skill-upcycle/internal/config"
	"skill-upcycle/internal/domain/analysis"
)

type Client interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Signup(ctx context.Context, s analysis.Signup) (LoginResult, error)
	AnalyzeResume(ctx context.Context, token, fileName string, content []byte) (analysis.Resume, error)
	ListAnalyses(ctx context.Context, token string, userID int64) ([]analysis.Resume, error)
	GetUser(ctx context.Context, userID int64) (analysis.User, error)
	UpdateUser(ctx context.Context, u analysis.User) error
}

type LoginResult struct {
	UserID int64
	Token  string
}

const (
	resumeField  = "arquivo"
	maxBodyBytes = 8 << 20
)

type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewClient(cfg config.AnalysisAPIConfig, logger *log.Logger) Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, logger)
}

func NewClientWithHTTP(baseURL string, hc *http.Client, logger *log.Logger) Client {
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  hc,
		logger:  logger,
	}
}

// UserIDFromToken reads the user id the backend embeds as the second
// dash-separated segment of its tokens.
func UserIDFromToken(token string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) < 2 {
		return 0, malformed("token", "no user id segment")
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, malformed("token", "invalid user id segment %q", parts[1])
	}
	return id, nil
}

func (c *httpClient) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/usuarios/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return LoginResult{}, malformed("token", "missing")
	}
	id, err := UserIDFromToken(out.Token)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: id, Token: out.Token}, nil
}

func (c *httpClient) Signup(ctx context.Context, s analysis.Signup) (LoginResult, error) {
	body := signupRequest{
		Name:      s.Name,
		Email:     s.Email,
		Password:  s.Password,
		BirthDate: s.BirthDate,
		Gender:    s.Gender,
		Ethnicity: s.Ethnicity,
		Answers:   s.Answers,
	}
	var out signupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/mbti/cadastro-e-analise", "", body, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusConflict {
			return LoginResult{}, ErrEmailTaken
		}
		return LoginResult{}, err
	}

	var id int64
	for _, candidate := range []*int64{out.UsuarioID, out.ID, out.UserID} {
		if candidate != nil && *candidate > 0 {
			id = *candidate
			break
		}
	}
	if id == 0 {
		return LoginResult{}, malformed("usuarioId", "missing")
	}
	token := strings.TrimSpace(out.Token)
	if token == "" {
		token = fmt.Sprintf("auth-token-%d", id)
	}
	return LoginResult{UserID: id, Token: token}, nil
}

func (c *httpClient) AnalyzeResume(ctx context.Context, token, fileName string, content []byte) (analysis.Resume, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(resumeField, fileName)
	if err != nil {
		return analysis.Resume{}, err
	}
	if _, err := part.Write(content); err != nil {
		return analysis.Resume{}, err
	}
	if err := mw.Close(); err != nil {
		return analysis.Resume{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/curriculos/analisar", token, &buf)
	if err != nil {
		return analysis.Resume{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out analysisPayload
	if err := c.do(req, &out); err != nil {
		return analysis.Resume{}, err
	}
	return out.toDomain("analise")
}

func (c *httpClient) ListAnalyses(ctx context.Context, token string, userID int64) ([]analysis.Resume, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/api/analises/usuario/%d", userID)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}

	var items []analysisPayload
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed("analises", "expected array")
	}
	out := make([]analysis.Resume, 0, len(items))
	for i, item := range items {
		r, err := item.toDomain(fmt.Sprintf("analises[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *httpClient) GetUser(ctx context.Context, userID int64) (analysis.User, error) {
	var out userPayload
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/usuarios/%d", userID), "", nil, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return analysis.User{}, ErrNotFound
		}
		return analysis.User{}, err
	}
	return out.toDomain()
}

func (c *httpClient) UpdateUser(ctx context.Context, u analysis.User) error {
	id := u.ID
	body := userPayload{ID: &id, Name: u.Name, Email: u.Email, BirthDate: u.BirthDate}
	return c.doJSON(ctx, http.MethodPut, "/usuarios", "", body, nil)
}

func (c *httpClient) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *httpClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analysis backend %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ErrorMessage(resp.StatusCode, b)
		c.logger.Printf("[AnalysisAPI] request failed method=%s path=%s status=%d message=%q", req.Method, req.URL.Path, resp.StatusCode, msg)
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return malformed(req.URL.Path, "empty body")
	}
	if err := json.Unmarshal(b, out); err != nil {
		return malformed(req.URL.Path, "invalid json: %v", err)
	}
	return nil
}

var _ Client = (*httpClient)(nil)
