// Package gin exposes extraction runs over HTTP using the Gin framework.
package gin

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/scrape"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// statusClientClosed is reported when the caller went away mid-run.
const statusClientClosed = 499

// Server serves the HTTP API.
type Server struct {
	runner  pars.Runner
	runs    pars.RunService
	metrics *scrape.Metrics
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRunService enables the run history endpoints.
func WithRunService(runs pars.RunService) Option {
	return func(s *Server) {
		s.runs = runs
	}
}

// WithMetrics serves the Prometheus registry at /metrics.
func WithMetrics(m *scrape.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request logger. Requests are not logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a Server that executes runs with runner.
func NewServer(runner pars.Runner, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the Gin engine with all routes.
//
//	POST /v1/runs      start a run and wait for its result (SSE when requested)
//	GET  /v1/runs      list stored runs
//	GET  /v1/runs/:id  fetch a stored run with its results
//	GET  /healthz      liveness probe
//	GET  /metrics      Prometheus metrics
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.logRequests())

	r.GET("/healthz", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	v1.POST("/runs", s.createRun)
	if s.runs != nil {
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id", s.getRun)
	}
	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createRunRequest is the body of POST /v1/runs.
type createRunRequest struct {
	URL  string    `json:"url" binding:"required"`
	Mode pars.Mode `json:"mode" binding:"required"`
}

// runResponse is the JSON form of a finished run.
type runResponse struct {
	ID         string            `json:"id,omitempty"`
	URL        string            `json:"url"`
	Mode       pars.Mode         `json:"mode"`
	State      pars.RunState     `json:"state"`
	Strategy   pars.Strategy     `json:"strategy,omitempty"`
	Title      string            `json:"title,omitempty"`
	DurationMs int64             `json:"durationMs"`
	Progress   pars.Progress     `json:"progress"`
	Results    []pars.RecordView `json:"results"`
	Error      *errorResponse    `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newRunResponse(res *pars.RunResult) runResponse {
	resp := runResponse{
		ID:         res.ID,
		URL:        res.URL,
		Mode:       res.Mode,
		State:      res.State,
		DurationMs: res.Duration.Milliseconds(),
		Progress:   res.Progress,
		Results:    pars.Views(res.Records),
	}
	if res.Outcome != nil && res.Outcome.Succeeded {
		resp.Strategy = res.Outcome.Strategy
		resp.Title = res.Outcome.Title
	}
	if res.Err != nil {
		resp.Error = newErrorResponse(res.Err)
	}
	return resp
}

func newErrorResponse(err error) *errorResponse {
	return &errorResponse{Code: pars.ErrorCode(err), Message: pars.ErrorMessage(err)}
}

func (s *Server) createRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorResponse{Code: pars.EINVALID, Message: err.Error()}})
		return
	}

	if c.GetHeader("Accept") == "text/event-stream" {
		s.streamRun(c, req)
		return
	}

	res, err := s.runner.Run(c.Request.Context(), req.URL, req.Mode, nil)
	if err != nil {
		s.respondError(c, err)
		return
	}
	status := http.StatusOK
	if res.Err != nil {
		status = errorStatus(res.Err)
	}
	c.JSON(status, newRunResponse(res))
}

// streamRun sends run events as server-sent events followed by a final
// "result" event.
func (s *Server) streamRun(c *gin.Context, req createRunRequest) {
	events := make(chan pars.Event, 64)
	done := make(chan struct{})
	var (
		res *pars.RunResult
		err error
	)
	go func() {
		defer close(done)
		defer close(events)
		res, err = s.runner.Run(c.Request.Context(), req.URL, req.Mode, func(e pars.Event) {
			events <- e
		})
	}()

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		e, ok := <-events
		if !ok {
			return false
		}
		switch e.Kind {
		case pars.EventLog:
			c.SSEvent(string(e.Kind), e.Line)
		default:
			c.SSEvent(string(e.Kind), e.Progress)
		}
		return true
	})
	// Stream returns early when the client disconnects.
	for range events {
	}
	<-done

	if err != nil {
		c.SSEvent("error", newErrorResponse(err))
		return
	}
	c.SSEvent("result", newRunResponse(res))
}

func (s *Server) listRuns(c *gin.Context) {
	var filter pars.RunFilter
	if v := c.Query("mode"); v != "" {
		mode := pars.Mode(v)
		filter.Mode = &mode
	}
	if v := c.Query("status"); v != "" {
		status := pars.RunStatus(v)
		filter.Status = &status
	}
	if v := c.Query("url"); v != "" {
		filter.URL = &v
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		s.respondError(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		s.respondError(c, err)
		return
	}

	runs, err := s.runs.FindRuns(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if runs == nil {
		runs = []*pars.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	run, err := s.runs.FindRunByID(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	results, err := s.runs.FindResults(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "results": results})
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": newErrorResponse(err)})
}

// errorStatus maps an error code to an HTTP status.
func errorStatus(err error) int {
	var e *pars.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case pars.EINVALID:
		return http.StatusBadRequest
	case pars.ENOTFOUND:
		return http.StatusNotFound
	case pars.ECONFLICT:
		return http.StatusConflict
	case pars.EEXHAUSTED:
		return http.StatusBadGateway
	case pars.ECANCELED:
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, pars.Errorf(pars.EINVALID, "%s must be a non-negative integer", key)
	}
	return n, nil
}
