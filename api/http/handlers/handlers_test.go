package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/hackrx/llm-atlas/api/http"
	"github.com/hackrx/llm-atlas/api/http/handlers"
	"github.com/hackrx/llm-atlas/pkg/health"
	"github.com/hackrx/llm-atlas/pkg/ingest"
	"github.com/hackrx/llm-atlas/pkg/security/bearer"
)

const testToken = "test-token"

type fakeQuery struct {
	answers []string
	err     error
	gotURL  string
	gotQs   []string
}

func (f *fakeQuery) Run(ctx context.Context, documentURL string, questions []string) ([]string, error) {
	f.gotURL = documentURL
	f.gotQs = questions
	return f.answers, f.err
}

func newApp(q *fakeQuery) *fiber.App {
	app := fiber.New()
	healthHandler := handlers.NewHealthHandler(health.NewService())
	runHandler := handlers.NewRunHandler(q)
	httpapi.Register(app, healthHandler, runHandler, bearer.NewAuthMiddleware(testToken))
	return app
}

func TestHealthExactBody(t *testing.T) {
	app := newApp(&fakeQuery{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy","service":"LLM System with MongoDB Atlas"}`, string(body))
}

func TestRootServiceInfo(t *testing.T) {
	app := newApp(&fakeQuery{})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "3.1.0", out["version"])
	assert.Equal(t, "/docs", out["docs"])
	assert.Equal(t, "/health", out["health"])
	assert.Contains(t, out["message"], "LLM System with MongoDB Atlas")
}

func TestReadyWithoutCheckers(t *testing.T) {
	app := newApp(&fakeQuery{})

	resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func postRun(t *testing.T, app *fiber.App, body, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/hackrx/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestRunRequiresToken(t *testing.T) {
	app := newApp(&fakeQuery{answers: []string{"a"}})

	status, _ := postRun(t, app, `{"documents":"https://example.com/d.pdf","questions":["q"]}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = postRun(t, app, `{"documents":"https://example.com/d.pdf","questions":["q"]}`, "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRunValidation(t *testing.T) {
	q := &fakeQuery{answers: []string{"a"}}
	app := newApp(q)

	status, _ := postRun(t, app, `not json`, testToken)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postRun(t, app, `{"questions":["q"]}`, testToken)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postRun(t, app, `{"documents":"https://example.com/d.pdf","questions":[]}`, testToken)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postRun(t, app, `{"documents":"https://example.com/d.pdf","questions":["  "]}`, testToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRunSuccess(t *testing.T) {
	q := &fakeQuery{answers: []string{"first answer", "second answer"}}
	app := newApp(q)

	status, body := postRun(t, app,
		`{"documents":"https://example.com/d.pdf","questions":["q1","q2"]}`, testToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"answers":["first answer","second answer"]}`, body)
	assert.Equal(t, "https://example.com/d.pdf", q.gotURL)
	assert.Equal(t, []string{"q1", "q2"}, q.gotQs)
}

func TestRunBadDocumentIsClientError(t *testing.T) {
	q := &fakeQuery{err: fmt.Errorf("%w: http 404", ingest.ErrBadDocument)}
	app := newApp(q)

	status, body := postRun(t, app,
		`{"documents":"https://example.com/missing.pdf","questions":["q"]}`, testToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "document could not be processed")
}

func TestRunInternalError(t *testing.T) {
	q := &fakeQuery{err: errors.New("llm request: quota exceeded")}
	app := newApp(q)

	status, _ := postRun(t, app,
		`{"documents":"https://example.com/d.pdf","questions":["q"]}`, testToken)
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
