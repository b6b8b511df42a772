package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jira_gateway/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// MCPPath is where the streamable HTTP transport is mounted.
const MCPPath = "/mcp"

const shutdownTimeout = 10 * time.Second

// NewEngine mounts the MCP server on a gin engine together with a health
// check. The transport is stateless so any instance, including a Lambda,
// can answer any request.
func NewEngine(s *server.MCPServer, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogMiddleware(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "name": ServerName, "version": ServerVersion})
	})

	streamable := server.NewStreamableHTTPServer(s, server.WithStateLess(true))
	r.Any(MCPPath, gin.WrapH(streamable))

	return r
}

// ServeHTTP listens on addr until ctx is cancelled, then drains in-flight
// requests.
func ServeHTTP(ctx context.Context, addr string, engine http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP transport listening", zap.String("addr", addr), zap.String("path", MCPPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down HTTP transport")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
