// Package devserver serves a generated wasm bundle directory over local
// HTTP. It is deliberately not a general purpose server: static files from
// one directory, no TLS, no routing beyond that.
package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/runwasm-dev/runwasm/internal/exit"
	"github.com/runwasm-dev/runwasm/internal/msg"
	"github.com/runwasm-dev/runwasm/internal/page"
	"golang.org/x/sync/errgroup"
)

// Config describes one serving session. The directory is read-only once
// generation has finished, so requests need no coordination.
type Config struct {
	Host string
	Port int // 0 picks a free ephemeral port
	Dir  string
}

// BindError means the listener could not be created, most commonly because
// the port is already taken.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cannot listen on %s (is the port already in use?): %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

func (e *BindError) ExitCode() int { return exit.Bind }

// contentTypes pins the types the browser needs to boot the bundle. The
// wasm type in particular must be exact or streaming instantiation fails.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".wasm": "application/wasm",
}

// Handler builds the router for a bundle directory.
func Handler(dir string) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/*filepath", func(c *gin.Context) {
		rel := strings.TrimPrefix(c.Param("filepath"), "/")
		if rel == "" {
			rel = page.IndexName
		}
		rel = path.Clean(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			c.Status(http.StatusNotFound)
			return
		}
		if ct, ok := contentTypes[path.Ext(rel)]; ok {
			c.Header("Content-Type", ct)
		}

		// http.ServeContent instead of ServeFile: ServeFile redirects any
		// path ending in /index.html, which would bounce the boot document
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			c.Status(http.StatusNotFound)
			return
		}
		http.ServeContent(c.Writer, c.Request, rel, info.ModTime(), f)
	})
	return r
}

// Run binds the listener, prints the reachable URL and serves until ctx is
// cancelled, then shuts down gracefully. It blocks for the whole session.
func Run(ctx context.Context, cfg Config) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}

	port := ln.Addr().(*net.TCPAddr).Port
	msg.Info("serving %s on http://%s", cfg.Dir, net.JoinHostPort(cfg.Host, strconv.Itoa(port)))

	srv := &http.Server{Handler: Handler(cfg.Dir)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
