// Package webserver hosts the HTTP API. Routes register through the
// package-level helpers so that each handler package can declare its own
// endpoints without importing the server struct.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/internal/app"
)

const appCtxKey = "voltdesk_appctx"

var server *WebServer

// WebServer wraps echo with a public group and a JWT-protected admin group.
type WebServer struct {
	appctx app.AppContext
	root   *echo.Echo
	pub    *echo.Group
	api    *echo.Group
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the global server instance. Must run before any route
// registration.
func Init(appctx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-Session-ID"},
	}))
	e.Use(zapLogger)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appCtxKey, appctx)
			return next(c)
		}
	})

	pub := e.Group("/api/v1")
	api := e.Group("/api/v1/admin")
	api.Use(echojwt.WithConfig(JwtConfig(appctx.Config().Web.JwtSecret)))

	server = &WebServer{appctx: appctx, root: e, pub: pub, api: api}
	return server
}

// JwtConfig builds the middleware configuration guarding the admin group.
// Claims parse into RegisteredClaims so handlers can read the subject.
func JwtConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwt.RegisteredClaims)
		},
	}
}

// zapLogger logs each request with the global zap logger.
func zapLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req := c.Request()
		res := c.Response()
		zap.L().Info("http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", res.Status),
			zap.String("remote_ip", c.RealIP()),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	}
}

// Start runs the server until the context is cancelled.
func (s *WebServer) Start(ctx context.Context) error {
	cfg := s.appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	errch := make(chan error, 1)
	go func() {
		zap.L().Info("web server listening", zap.String("addr", addr))
		errch <- s.root.Start(addr)
	}()

	select {
	case err := <-errch:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.root.Shutdown(shutdownCtx)
	}
}

// Instance returns the global server, for tests that need the raw echo.
func Instance() *WebServer {
	return server
}

// Echo exposes the underlying echo instance.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// AppCtx extracts the application context injected per request.
func AppCtx(c echo.Context) app.AppContext {
	return c.Get(appCtxKey).(app.AppContext)
}

// PubGET registers an unauthenticated GET route.
func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

// PubPOST registers an unauthenticated POST route.
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// PubPUT registers an unauthenticated PUT route.
func PubPUT(path string, h echo.HandlerFunc) {
	server.pub.PUT(path, h)
}

// PubDELETE registers an unauthenticated DELETE route.
func PubDELETE(path string, h echo.HandlerFunc) {
	server.pub.DELETE(path, h)
}

// ApiGET registers a JWT-protected GET route under /api/v1/admin.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers a JWT-protected POST route under /api/v1/admin.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers a JWT-protected PUT route under /api/v1/admin.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers a JWT-protected DELETE route under /api/v1/admin.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
