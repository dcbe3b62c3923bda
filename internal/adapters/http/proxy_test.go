package http_test

import (
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "berth/internal/adapters/http"
	"berth/internal/core/domain"
)

func newProxyApp(svc *fakeService) *fiber.App {
	p := httpapi.NewProxyHandler(svc, testSpec())
	app := fiber.New()
	app.All("/*", p.ProxyRequest)
	return app
}

func TestProxyContainerNotRunning(t *testing.T) {
	svc := &fakeService{observed: domain.ObservedState{Exists: true, Running: false}}
	app := newProxyApp(svc)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProxyStatusQueryFailure(t *testing.T) {
	svc := &fakeService{statusErr: errors.New("daemon unreachable")}
	app := newProxyApp(svc)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
