// Package service exposes the filter engine over HTTP: compile-checking
// filters, evaluating them against JSON-supplied field values, and reporting
// engine status and metrics.
package service

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/paulbellamy/ratecounter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/cache"
	"go.uber.org/zap"
)

const defaultCacheSize = 256

type Config struct {
	Scheme    *sieve.Scheme
	Logger    *zap.Logger
	CacheSize int
	Version   string
}

type Core struct {
	conf     Config
	scheme   *sieve.Scheme
	cache    *cache.Cache
	logger   *zap.Logger
	registry *prometheus.Registry
	router   *mux.Router
	handler  http.Handler
	rate     *ratecounter.RateCounter
	evals    atomic.Int64

	evalsTotal   prometheus.Counter
	matchesTotal prometheus.Counter
}

func NewCore(conf Config) (*Core, error) {
	if conf.Logger == nil {
		conf.Logger = zap.NewNop()
	}
	if conf.CacheSize == 0 {
		conf.CacheSize = defaultCacheSize
	}
	if conf.Version == "" {
		conf.Version = "unknown"
	}
	filters, err := cache.New(conf.Scheme, conf.CacheSize)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	evalsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sieve_evaluations_total",
		Help: "Number of filter evaluations performed.",
	})
	matchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sieve_matches_total",
		Help: "Number of filter evaluations that matched.",
	})
	registry.MustRegister(evalsTotal, matchesTotal)

	c := &Core{
		conf:         conf,
		scheme:       conf.Scheme,
		cache:        filters,
		logger:       conf.Logger.Named("core"),
		registry:     registry,
		rate:         ratecounter.NewRateCounter(time.Second),
		evalsTotal:   evalsTotal,
		matchesTotal: matchesTotal,
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(conf.Logger))
	router.Use(panicCatchMiddleware(conf.Logger))
	router.Handle("/compile", c.handle(handleCompile)).Methods("POST")
	router.Handle("/eval", c.handle(handleEval)).Methods("POST")
	router.Handle("/status", c.handle(handleStatus)).Methods("GET")
	router.Handle("/version", c.handle(handleVersion)).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	c.router = router
	c.handler = cors.Default().Handler(router)
	return c, nil
}

func (c *Core) handle(f func(*Core, http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f(c, w, r)
	})
}

func (c *Core) Scheme() *sieve.Scheme { return c.scheme }

func (c *Core) Registry() *prometheus.Registry { return c.registry }

func (c *Core) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.handler.ServeHTTP(w, r)
}

func (c *Core) requestLogger(r *http.Request) *zap.Logger {
	return c.logger.With(zap.String("request_id", requestID(r.Context())))
}
