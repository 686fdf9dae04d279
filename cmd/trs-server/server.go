package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	trs "github.com/njchilds90/gotrs"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
	validateTimeout = 30 * time.Second
)

type server struct {
	svc     *trs.Service
	log     *slog.Logger
	metrics *metrics
	limiter *rate.Limiter
	flight  singleflight.Group
}

type exprRequest struct {
	Expr     string `json:"expr" binding:"required"`
	Implicit bool   `json:"implicit"`
}

type validateRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Lines string `json:"lines"`
}

type evalRequest struct {
	Expr string             `json:"expr" binding:"required"`
	Env  map[string]float64 `json:"env"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// newRouter builds the HTTP routes. A nil limiter disables rate limiting.
func newRouter(svc *trs.Service, log *slog.Logger, reg *prometheus.Registry, limiter *rate.Limiter) *gin.Engine {
	s := &server{svc: svc, log: log, metrics: newMetrics(reg), limiter: limiter}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.observe())

	r.GET("/health", s.health)
	r.GET("/schema", s.schema)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/", s.rateLimit())
	api.POST("/possibilities", s.possibilities)
	api.POST("/hint", s.hint)
	api.POST("/step", s.step)
	api.POST("/answer", s.answer)
	api.POST("/validate", s.validate)
	api.POST("/eval", s.eval)
	api.POST("/tool", s.tool)
	return r
}

func (s *server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}

func (s *server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(route, status).Inc()
		s.metrics.latency.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.Info("request",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration", elapsed)
	}
}

func (s *server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.fail(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func (s *server) fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: c.GetString("request_id")})
}

// bind decodes the body into req; it answers 400 and returns false on
// failure.
func (s *server) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *server) schema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(trs.ToolSpec()))
}

func (s *server) possibilities(c *gin.Context) {
	var req exprRequest
	if !s.bind(c, &req) {
		return
	}
	ps, err := s.svc.Possibilities(req.Expr)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"possibilities": ps})
}

func (s *server) hint(c *gin.Context) {
	var req exprRequest
	if !s.bind(c, &req) {
		return
	}
	hint, err := s.svc.Hint(req.Expr)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"hint": hint})
}

func (s *server) step(c *gin.Context) {
	var req exprRequest
	if !s.bind(c, &req) {
		return
	}
	st, ok, err := s.svc.Step(req.Expr)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"done": true, "result": req.Expr})
		return
	}
	s.metrics.steps.Inc()
	c.JSON(http.StatusOK, gin.H{"done": false, "step": st, "result": st.Result})
}

func (s *server) answer(c *gin.Context) {
	var req exprRequest
	if !s.bind(c, &req) {
		return
	}
	final, steps, err := s.svc.Answer(req.Expr, req.Implicit)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.metrics.steps.Add(float64(len(steps)))
	c.JSON(http.StatusOK, gin.H{"result": final, "steps": steps})
}

func (s *server) validate(c *gin.Context) {
	var req validateRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Lines == "" && (req.From == "" || req.To == "") {
		s.fail(c, http.StatusBadRequest, "either lines or both from and to are required")
		return
	}
	// Identical concurrent requests share one search. It runs detached from
	// the request that started it and is bounded by validateTimeout.
	key := req.From + "\x00" + req.To + "\x00" + req.Lines
	base := context.WithoutCancel(c.Request.Context())
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(base, validateTimeout)
		defer cancel()
		return s.runValidation(ctx, req)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			s.fail(c, http.StatusUnprocessableEntity, r.Err.Error())
			return
		}
		c.JSON(http.StatusOK, r.Val)
	case <-c.Request.Context().Done():
		s.fail(c, http.StatusRequestTimeout, "request cancelled")
	}
}

func (s *server) runValidation(ctx context.Context, req validateRequest) (interface{}, error) {
	if req.Lines != "" {
		n, err := s.svc.ValidateLines(ctx, req.Lines)
		return gin.H{"validated": n}, err
	}
	res, err := s.svc.Validate(ctx, req.From, req.To)
	if err == nil {
		s.metrics.validations.WithLabelValues(outcome(res)).Inc()
	}
	return res, err
}

func outcome(v trs.ValidationView) string {
	switch {
	case v.Valid:
		return "valid"
	case v.Exhausted:
		return "exhausted"
	}
	return "invalid"
}

func (s *server) eval(c *gin.Context) {
	var req evalRequest
	if !s.bind(c, &req) {
		return
	}
	v, err := s.svc.Eval(req.Expr, req.Env)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": v})
}

func (s *server) tool(c *gin.Context) {
	var req trs.ToolRequest
	if !s.bind(c, &req) {
		return
	}
	resp := s.svc.HandleToolCall(c.Request.Context(), req)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}
