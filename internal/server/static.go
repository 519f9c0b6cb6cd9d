package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the built dashboard front end. Unknown non-API paths
// fall back to index.html so client-side routes such as /hr/employees load.
func (s *Server) mountStatic() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	if s.opts.StaticDir == "" {
		s.logger.Warn("static directory not configured; API only mode")
		return
	}

	info, err := os.Stat(s.opts.StaticDir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", "path", s.opts.StaticDir, "error", err)
		return
	}

	indexPath := filepath.Join(s.opts.StaticDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		s.logger.Warn("index.html not found", "path", indexPath, "error", err)
	} else {
		s.engine.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})
		s.engine.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
				c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
				return
			}
			c.File(indexPath)
		})
	}

	assetsDir := filepath.Join(s.opts.StaticDir, "assets")
	if _, err := os.Stat(assetsDir); err == nil {
		assets := s.engine.Group("/assets", func(c *gin.Context) {
			c.Header("Cache-Control", "public, max-age=31536000, immutable")
			c.Next()
		})
		assets.StaticFS("/", gin.Dir(assetsDir, false))
	}

	for _, name := range []string{"favicon.ico", "logo.png"} {
		path := filepath.Join(s.opts.StaticDir, name)
		if _, err := os.Stat(path); err == nil {
			s.engine.StaticFile("/"+name, path)
		}
	}
}
