package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "berth/internal/adapters/http"
	"berth/internal/core/domain"
	"berth/internal/core/reconciler"
)

type fakeService struct {
	running      domain.RunningContainer
	observed     domain.ObservedState
	logs         string
	reconcileErr error
	statusErr    error
	logsErr      error

	gotDesired domain.DesiredState
}

func (f *fakeService) Reconcile(_ context.Context, desired domain.DesiredState) (domain.RunningContainer, error) {
	f.gotDesired = desired
	if f.reconcileErr != nil {
		return domain.RunningContainer{}, f.reconcileErr
	}
	return f.running, nil
}

func (f *fakeService) Status(_ context.Context, _ domain.DesiredState) (domain.ObservedState, error) {
	if f.statusErr != nil {
		return domain.ObservedState{}, f.statusErr
	}
	return f.observed, nil
}

func (f *fakeService) Logs(_ context.Context, _ domain.DesiredState) (io.ReadCloser, error) {
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return io.NopCloser(strings.NewReader(f.logs)), nil
}

func testSpec() domain.DesiredState {
	return domain.DesiredState{
		Image:         "boxing_flask",
		HostPort:      5002,
		ContainerPort: 5002,
		Name:          "boxing_flask",
	}
}

func newApp(svc *fakeService) *fiber.App {
	h := httpapi.NewHandler(svc, testSpec())
	app := fiber.New()
	v1 := app.Group("/api").Group("/v1")
	v1.Post("/reconcile", h.Reconcile)
	v1.Get("/status", h.Status)
	v1.Get("/logs", h.Logs)
	return app
}

func TestReconcileEndpoint(t *testing.T) {
	svc := &fakeService{
		running: domain.RunningContainer{ID: "abc123", Name: "boxing_flask_container"},
	}
	app := newApp(svc)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodPost, "/api/v1/reconcile", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var got domain.RunningContainer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, testSpec(), svc.gotDesired)
}

func TestReconcileEndpointBodyOverridesSpec(t *testing.T) {
	svc := &fakeService{}
	app := newApp(svc)

	body := strings.NewReader(`{"image":"other_app","host_port":8080,"container_port":80,"name":"other_app"}`)
	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/reconcile", body)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "other_app", svc.gotDesired.Image)
	assert.Equal(t, uint16(8080), svc.gotDesired.HostPort)
}

func TestReconcileEndpointFailureKinds(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{fmt.Errorf("%w: port taken", reconciler.ErrRun), fiber.StatusBadGateway, "run"},
		{fmt.Errorf("%w: cannot stop", reconciler.ErrStop), fiber.StatusBadGateway, "stop"},
		{fmt.Errorf("%w: image is required", reconciler.ErrInvalidSpec), fiber.StatusBadRequest, "invalid_spec"},
	}
	for _, tt := range tests {
		svc := &fakeService{reconcileErr: tt.err}
		app := newApp(svc)

		resp, err := app.Test(httptest.NewRequest(nethttp.MethodPost, "/api/v1/reconcile", nil))
		require.NoError(t, err)

		assert.Equal(t, tt.wantStatus, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, tt.wantKind, body["kind"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	svc := &fakeService{
		observed: domain.ObservedState{Exists: true, Running: true, ID: "abc123"},
	}
	app := newApp(svc)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/status", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got domain.ObservedState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Running)
}

func TestLogsEndpointMissingContainer(t *testing.T) {
	svc := &fakeService{
		logsErr: fmt.Errorf("%w: boxing_flask_container", reconciler.ErrNotFound),
	}
	app := newApp(svc)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/logs", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body["kind"])
}

func TestLogsEndpoint(t *testing.T) {
	svc := &fakeService{logs: "hello from flask\n"}
	app := newApp(svc)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/logs", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello from flask\n", string(data))
}
