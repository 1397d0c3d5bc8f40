// Package server is the HTTP query shell: run a query, see the rows and the
// pair plot of their typed columns, rendered in the browser by vega-embed.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/spektr-org/pairplot/config"
	"github.com/spektr-org/pairplot/logger"
)

// NewServer builds the echo instance with middleware and routes.
func NewServer(controller *PlotController, serverConf config.ServerConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Renderer = NewTemplateRenderer()

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("16M"))

	if serverConf.RateLimit > 0 {
		burst := serverConf.RateBurst
		if burst <= 0 {
			burst = int(3 * serverConf.RateLimit)
		}
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/healthz"
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(serverConf.RateLimit),
					Burst:     burst,
					ExpiresIn: 3 * time.Minute,
				},
			),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return NewUserVisibleError(http.StatusForbidden, "Forbidden")
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return NewUserVisibleError(http.StatusTooManyRequests, "Too Many Requests")
			},
		}))
	}

	log := logger.Named("http")
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogError:     true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				logger.FieldMethod, v.Method,
				logger.FieldPath, v.URI,
				logger.FieldStatus, v.Status,
				logger.FieldRequestID, v.RequestID,
				logger.FieldDurationMS, v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP,
			}
			if v.Error == nil {
				log.Infow("request", fields...)
			} else {
				log.Warnw("request failed", append(fields, logger.FieldError, v.Error.Error())...)
			}
			return nil
		},
	}))

	e.GET("/", controller.GetHome)
	e.GET("/healthz", controller.GetHealth)
	e.POST("/api/query", controller.PostQuery)
	e.POST("/api/plot", controller.PostPlot)
	e.GET("/api/plots/:id", controller.GetPlot)

	return e
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, controller *PlotController, serverConf config.ServerConfig) error {
	e := NewServer(controller, serverConf)
	addr := serverConf.Address()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("pairplot server listening", logger.FieldAddress, "http://"+addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Infow("shutting down server")
	return e.Shutdown(shutdownCtx)
}

// errorHandler answers API routes with {"error": message} and pages with
// the rendered error template.
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprintf("%v", he.Message)
		}
	}

	var ue *UserVisibleError
	if errors.As(err, &ue) {
		code = ue.HttpCode
		msg = ue.Message
	}

	if code >= http.StatusInternalServerError {
		logger.Named("http").Errorw("internal error", logger.FieldError, fmt.Sprintf("%+v", err))
	}

	if c.Response().Committed {
		return
	}

	var respErr error
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		respErr = c.JSON(code, map[string]string{"error": msg})
	} else {
		respErr = c.Render(code, "error", msg)
	}
	if respErr != nil {
		c.Logger().Error(respErr)
	}
}
