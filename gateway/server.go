package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/0glabs/0g-namespace/common/api"
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/0glabs/0g-namespace/namespace/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server fronts one namespace over HTTP. Mutations, and the snapshot taken
// after each of them, run under a single exclusive lock.
type Server struct {
	mu sync.Mutex

	tree    *namespace.Tree
	store   snapshot.Store
	metrics *Metrics
	logger  *logrus.Logger
}

type Option func(*Server)

// WithSnapshotStore saves the namespace to store after every mutation.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(s *Server) { s.store = store }
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

func NewServer(tree *namespace.Tree, opts ...Option) *Server {
	s := &Server{
		tree:   tree,
		logger: tree.Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.metrics.Entities.Set(float64(tree.Count(tree.Root())))

	return s
}

// Serve runs the gateway on endpoint until ctx is done.
func (s *Server) Serve(ctx context.Context, endpoint string) error {
	return api.Serve(ctx, endpoint, s.Routes)
}

// MustServe runs the gateway and exits on failure.
func (s *Server) MustServe(ctx context.Context, endpoint string) {
	if err := s.Serve(ctx, endpoint); err != http.ErrServerClosed {
		s.logger.WithError(err).Fatal("Failed to serve API")
	}
}

// Handler returns the HTTP handler of the gateway.
func (s *Server) Handler() http.Handler {
	return api.NewRouter(s.Routes)
}

func (s *Server) Routes(router *gin.Engine) {
	router.Use(s.observe)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	nsApi := router.Group("/ns")
	nsApi.GET("/stat", s.wrap(s.stat))
	nsApi.GET("/list", s.wrap(s.list))
	nsApi.GET("/content", s.wrap(s.readContent))
	nsApi.GET("/find", s.wrap(s.find))

	nsApi.POST("/folder", s.wrap(s.mutation(s.createFolder)))
	nsApi.POST("/file", s.wrap(s.mutation(s.createFile)))
	nsApi.PUT("/content", s.wrap(s.mutation(s.writeContent)))
	nsApi.DELETE("/node", s.wrap(s.mutation(s.deleteNode)))
	nsApi.POST("/rename", s.wrap(s.mutation(s.rename)))
	nsApi.POST("/move", s.wrap(s.mutation(s.move)))
	nsApi.POST("/copy", s.wrap(s.mutation(s.copy)))
}

func (s *Server) wrap(controller api.Controller) gin.HandlerFunc {
	return api.Wrap(controller, businessError)
}

func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.metrics.RequestDuration.
		WithLabelValues(c.Request.Method, c.FullPath()).
		Observe(time.Since(start).Seconds())
}

// mutation serializes a mutating controller and persists the namespace when
// it succeeds.
func (s *Server) mutation(controller api.Controller) api.Controller {
	return func(c *gin.Context) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		result, err := controller(c)
		if err != nil {
			return nil, err
		}

		s.metrics.Entities.Set(float64(s.tree.Count(s.tree.Root())))

		if s.store != nil {
			if err := snapshot.Save(s.store, s.tree); err != nil {
				s.metrics.SnapshotFailures.Inc()
				s.logger.WithError(err).Error("Failed to save namespace snapshot")
				return nil, err
			}
		}

		return result, nil
	}
}

// record counts an operation by the kind of its outcome.
func (s *Server) record(op string, err error) error {
	result := "ok"
	if err != nil {
		if kind := namespace.KindOf(err); kind != "" {
			result = string(kind)
		} else {
			result = "error"
		}
	}

	s.metrics.Operations.WithLabelValues(op, result).Inc()
	return err
}
