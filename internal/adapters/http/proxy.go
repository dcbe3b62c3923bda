package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"berth/internal/core/domain"
)

// ProxyHandler forwards non-API requests to the reconciled container's
// published host port, so the deployed app can be previewed through the
// same server.
type ProxyHandler struct {
	service ReconcileService
	desired domain.DesiredState
}

// NewProxyHandler creates a new proxy handler.
func NewProxyHandler(service ReconcileService, desired domain.DesiredState) *ProxyHandler {
	return &ProxyHandler{service: service, desired: desired}
}

// ProxyRequest routes the request to the container when it is running.
func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	observed, err := h.service.Status(c.Context(), h.desired)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to query container state")
	}
	if !observed.Running {
		return c.Status(fiber.StatusNotFound).SendString(
			fmt.Sprintf("container '%s' not running", h.desired.ContainerName()))
	}

	remote, err := url.Parse(fmt.Sprintf("http://127.0.0.1:%d", h.desired.HostPort))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("invalid target URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(remote)

	// Rewrite the Host header so the app behind the port sees a host it
	// expects instead of the preview server's.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = remote.Host
		req.URL.Host = remote.Host
		req.URL.Scheme = remote.Scheme
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(fmt.Sprintf("proxy: target=%s error=%v", remote.Host, err)))
	}

	return adaptor.HTTPHandler(proxy)(c)
}
