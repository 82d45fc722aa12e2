package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/obrasuite/obrasuite/internal/app"
	"go.uber.org/zap"
)

var server *WebServer

// WebServer wraps the echo instance and the application context handed to
// the API handlers.
type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
	api    *echo.Group
}

// Init builds the global web server. Routes registered through ApiGET and
// friends mount under /api behind the bearer-token middleware.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(appCtx.Config().Web.Secret),
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/auth/token"
		},
	}))

	server = &WebServer{appCtx: appCtx, root: e, api: api}
	server.registerAuthRoutes()
	return server
}

// Listen starts serving on the configured address, blocking.
func Listen() error {
	cfg := server.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	return server.root.Start(addr)
}

// AppCtx exposes the application context to handlers.
func AppCtx() app.AppContext {
	return server.appCtx
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// registerAuthRoutes issues API tokens. Operator identity checks live in
// an external service; this endpoint only exchanges the shared web secret
// for a signed token so every other route can require one.
func (s *WebServer) registerAuthRoutes() {
	s.api.POST("/auth/token", func(c echo.Context) error {
		var req struct {
			Secret string `json:"secret" form:"secret"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "invalid request"})
		}
		if req.Secret != s.appCtx.Config().Web.Secret {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{"error": "invalid secret"})
		}

		claims := jwt.RegisteredClaims{
			ID:        random.String(16),
			Issuer:    s.appCtx.Config().System.Appid,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(s.appCtx.Config().Web.Secret))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": "token signing failed"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"token": signed})
	})
}
