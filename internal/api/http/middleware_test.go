package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace/internal/api/http"
	"github.com/spec-kit/marketplace/internal/observability"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

func newMetricsApp(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()

	metrics := observability.NewMetrics("test")
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	return app, metrics
}

func scrape(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRequestMetrics_RecordMappedErrorStatus(t *testing.T) {
	app, _ := newMetricsApp(t)
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewUnauthorized("missing credentials")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/denied", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// the request counter must carry the status the client saw, and a 401
	// counts as a gate rejection
	body := scrape(t, app)
	assert.Contains(t, body,
		`marketplace_http_requests_total{method="GET",path="/denied",service="test",status="401"} 1`)
	assert.NotContains(t, body, `path="/denied",service="test",status="200"`)
	assert.Contains(t, body,
		`marketplace_auth_rejected_total{service="test",status="401"} 1`)
}

func TestRequestMetrics_RecordSuccessStatus(t *testing.T) {
	app, _ := newMetricsApp(t)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := scrape(t, app)
	assert.Contains(t, body,
		`marketplace_http_requests_total{method="GET",path="/ok",service="test",status="200"} 1`)
	assert.NotContains(t, body, "marketplace_auth_rejected_total")
}

func TestErrorEnvelope_DomainErrorShape(t *testing.T) {
	app, _ := newMetricsApp(t)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("widget", nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"code":"NOT_FOUND"`)
	assert.Contains(t, string(body), `"message":"widget not found"`)
}
