// Package api serves worksheet previews and the run archive over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/tenfacts/internal/platform/id"
	"github.com/louisbranch/tenfacts/internal/platform/logging"
	"github.com/louisbranch/tenfacts/internal/platform/requestctx"
	"github.com/louisbranch/tenfacts/internal/platform/timeouts"
	"github.com/louisbranch/tenfacts/internal/render/latex"
	"github.com/louisbranch/tenfacts/internal/render/pdf"
	"github.com/louisbranch/tenfacts/internal/sheet"
	"github.com/louisbranch/tenfacts/internal/storage"
)

// Options configures the HTTP server.
type Options struct {
	// Archive backs /runs; nil answers those routes with 404.
	Archive  storage.RunStore
	Bundle   *catalog.Bundle
	Locale   string
	FontPath string
	Logger   *logging.Logger
}

// Server wraps the gin router.
type Server struct {
	router *gin.Engine
	opts   Options
}

// New wires the routes.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(opts.Logger))
	if opts.Bundle == nil {
		opts.Bundle = catalog.Default()
	}

	s := &Server{router: router, opts: opts}
	router.GET("/healthz", s.health)
	router.GET("/pages/:number", s.page)
	router.GET("/pages/:number/tex", s.pageTeX)
	router.GET("/pages/:number/pdf", s.pagePDF)
	router.GET("/runs", s.listRuns)
	router.GET("/runs/:id", s.getRun)
	return s
}

// Handler exposes the router for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.serveListener(ctx, listener)
}

func (s *Server) serveListener(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()
	s.opts.Logger.Info("http server listening", "addr", listener.Addr().String())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	s.opts.Logger.Info("http server stopped")
	return nil
}

type pageResponse struct {
	Number    int        `json:"number"`
	Seed      int64      `json:"seed"`
	Count     int        `json:"count"`
	View      string     `json:"view"`
	ZeroCount int        `json:"zero_count"`
	Rows      [][]string `json:"rows"`
}

type runResponse struct {
	ID           string            `json:"id"`
	Mode         string            `json:"mode"`
	Start        int               `json:"start"`
	Pages        int               `json:"pages"`
	Count        int               `json:"count"`
	Seed         int64             `json:"seed"`
	Date         string            `json:"date,omitempty"`
	Locale       string            `json:"locale"`
	Format       string            `json:"format"`
	QuestionFile string            `json:"question_file"`
	AnswerFile   string            `json:"answer_file"`
	CreatedAt    time.Time         `json:"created_at"`
	PageRecords  []runPageResponse `json:"page_records,omitempty"`
}

type runPageResponse struct {
	Number int      `json:"number"`
	Seed   int64    `json:"seed"`
	Keys   []string `json:"keys"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) page(c *gin.Context) {
	page, view, ok := s.buildPage(c)
	if !ok {
		return
	}
	grouping := page.Questions
	if view == sheet.ViewAnswer {
		grouping = page.Answers
	}
	c.JSON(http.StatusOK, pageResponse{
		Number:    page.Number,
		Seed:      page.Seed,
		Count:     page.Total,
		View:      view.String(),
		ZeroCount: page.Set.ZeroCount(),
		Rows:      sheet.TextRows(grouping),
	})
}

func (s *Server) pageTeX(c *gin.Context) {
	page, view, ok := s.buildPage(c)
	if !ok {
		return
	}
	doc, err := latex.Document([]sheet.Page{page}, latex.Options{
		View:   view,
		Header: latex.HeaderNumber,
		Locale: s.locale(c),
		Bundle: s.opts.Bundle,
	})
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.CodeRenderFailed, "render tex", err))
		return
	}
	c.Data(http.StatusOK, "application/x-tex; charset=utf-8", []byte(doc))
}

func (s *Server) pagePDF(c *gin.Context) {
	page, view, ok := s.buildPage(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := pdf.Render(&buf, []sheet.Page{page}, pdf.Options{
		View:     view,
		Header:   pdf.HeaderNumber,
		Locale:   s.locale(c),
		FontPath: s.opts.FontPath,
		Bundle:   s.opts.Bundle,
	}); err != nil {
		writeError(c, apperrors.Wrap(apperrors.CodeRenderFailed, "render pdf", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="page%d_%s.pdf"`, page.Number, view))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) listRuns(c *gin.Context) {
	if s.opts.Archive == nil {
		writeError(c, apperrors.New(apperrors.CodeNotFound, "run archive is disabled"))
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(c, apperrors.WithMetadata(apperrors.CodeInvalidInput, "limit must be a non-negative integer", map[string]string{"limit": raw}))
			return
		}
		limit = v
	}
	runs, err := s.opts.Archive.ListRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.CodeStorageFailed, "list runs", err))
		return
	}
	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunResponse(run))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (s *Server) getRun(c *gin.Context) {
	if s.opts.Archive == nil {
		writeError(c, apperrors.New(apperrors.CodeNotFound, "run archive is disabled"))
		return
	}
	run, err := s.opts.Archive.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			err = apperrors.Wrap(apperrors.CodeStorageFailed, "get run", err)
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run))
}

func (s *Server) buildPage(c *gin.Context) (sheet.Page, sheet.View, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		writeError(c, apperrors.WithMetadata(apperrors.CodeInvalidInput, "page number must be an integer", map[string]string{"number": c.Param("number")}))
		return sheet.Page{}, 0, false
	}
	count := sheet.DefaultCount
	if raw := c.Query("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			writeError(c, apperrors.WithMetadata(apperrors.CodeInvalidInput, "count must be an integer", map[string]string{"count": raw}))
			return sheet.Page{}, 0, false
		}
	}
	if err := sheet.CheckRequestCount(count); err != nil {
		writeError(c, err)
		return sheet.Page{}, 0, false
	}
	view := sheet.ViewQuestion
	if raw := c.Query("view"); raw != "" {
		v, ok := sheet.ParseView(raw)
		if !ok {
			writeError(c, apperrors.WithMetadata(apperrors.CodeInvalidInput, "view must be question or answer", map[string]string{"view": raw}))
			return sheet.Page{}, 0, false
		}
		view = v
	}
	page, err := sheet.BuildPage(number, int64(number), count)
	if err != nil {
		writeError(c, err)
		return sheet.Page{}, 0, false
	}
	return page, view, true
}

func (s *Server) locale(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query("locale")); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.opts.Locale); v != "" {
		return v
	}
	return catalog.BaseLocale
}

func toRunResponse(run storage.Run) runResponse {
	resp := runResponse{
		ID:           run.ID,
		Mode:         string(run.Mode),
		Start:        run.Start,
		Pages:        run.Pages,
		Count:        run.Count,
		Seed:         run.Seed,
		Date:         run.Date,
		Locale:       run.Locale,
		Format:       run.Format,
		QuestionFile: run.QuestionFile,
		AnswerFile:   run.AnswerFile,
		CreatedAt:    run.CreatedAt,
	}
	for _, page := range run.PageRecords {
		resp.PageRecords = append(resp.PageRecords, runPageResponse{Number: page.Number, Seed: page.Seed, Keys: page.Keys})
	}
	return resp
}

func writeError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	body := gin.H{"code": string(code), "error": err.Error()}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) && len(domainErr.Metadata) > 0 {
		body["metadata"] = domainErr.Metadata
	}
	c.AbortWithStatusJSON(code.HTTPStatus(), body)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, err := requestctx.Resolve(c.GetHeader(requestctx.Header), id.NewID)
		if err != nil {
			writeError(c, apperrors.Wrap(apperrors.CodeUnknown, "assign request id", err))
			return
		}
		c.Header(requestctx.Header, rid)
		c.Request = c.Request.WithContext(requestctx.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"request_id", requestctx.RequestIDFromContext(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
