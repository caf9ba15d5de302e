package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/programtracker/internal/config"
	"github.com/2beens/programtracker/internal/db"
	"github.com/2beens/programtracker/internal/middleware"
	"github.com/2beens/programtracker/internal/preferences"
	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/progress"
	"github.com/2beens/programtracker/internal/telemetry/metrics"
	"github.com/2beens/programtracker/internal/telemetry/tracing"
	"github.com/2beens/programtracker/internal/tracker"
	trackermcp "github.com/2beens/programtracker/internal/tracker/mcp"
	"github.com/2beens/programtracker/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config         *config.Config
	catalog        *program.Catalog
	trackerService *tracker.Service

	// progress store backends, only one is set
	dbPool      *pgxpool.Pool
	sqliteStore *progress.SQLiteStore

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

type versionResponse struct {
	Version   string `json:"version"`
	ProgramID string `json:"programId"`
	Program   string `json:"programVersion"`
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	catalog, err := program.LoadFiles(cfg.ProgramPath, cfg.ExercisesPath)
	if err != nil {
		return nil, fmt.Errorf("load program catalog: %w", err)
	}
	resolver := program.NewResolver(catalog, cfg.ResolverCacheSizeBytes)

	s := &Server{
		config:      cfg,
		catalog:     catalog,
		versionInfo: params.VersionInfo,
	}

	var store progress.Store
	var collectors []prometheus.Collector
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		s.sqliteStore, err = progress.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("new sqlite store: %w", err)
		}
		store = s.sqliteStore
	default:
		dbParams := db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		}
		if cfg.RunMigrations {
			if err := db.RunMigrations(db.ConnString(dbParams) + "?sslmode=disable"); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		s.dbPool, err = db.NewDBPool(ctx, dbParams)
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := s.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		store = progress.NewPsqlStore(s.dbPool)
	}

	collectors = append(collectors, resolverCacheCollectors(resolver)...)
	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("backend", "tracker", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.RedisHost != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else {
		log.Warnln("redis not configured, view mode preferences and rate limiting disabled")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	s.otelShutdown, err = tracing.HoneycombSetup(params.HoneycombTracingEnabled, "program-tracker", s.redisClient)
	if err != nil {
		return nil, err
	}

	serviceParams := tracker.ServiceParams{
		Catalog:             catalog,
		Resolver:            resolver,
		Store:               store,
		MetricsManager:      s.metricsManager,
		SaveAttempts:        cfg.SaveRetryAttempts,
		SaveInitialInterval: cfg.SaveRetryInitialInterval(),
		SessionIdleTimeout:  cfg.SessionIdleTimeout(),
	}
	if s.redisClient != nil {
		serviceParams.Preferences = preferences.NewStore(s.redisClient, preferences.DefaultTTL)
	}
	s.trackerService = tracker.NewService(serviceParams)

	log.Infof("serving program [%s] v%s with %s progress store",
		catalog.Program.ID, catalog.Program.Version, cfg.StoreDriver)

	return s, nil
}

func resolverCacheCollectors(resolver *program.Resolver) []prometheus.Collector {
	return []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "backend",
			Subsystem: "tracker",
			Name:      "resolver_cache_hits_total",
			Help:      "Workout resolutions served from the resolver cache.",
		}, func() float64 {
			hits, _ := resolver.CacheStats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "backend",
			Subsystem: "tracker",
			Name:      "resolver_cache_misses_total",
			Help:      "Workout resolutions that missed the resolver cache.",
		}, func() float64 {
			_, misses := resolver.CacheStats()
			return float64(misses)
		}),
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("tracker-router"))

	var limit mux.MiddlewareFunc
	if s.redisClient != nil && s.config.RateLimitPerMinute > 0 {
		limit = middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"tracker",
			s.config.RateLimitPerMinute,
			s.metricsManager,
		)
	}

	trackerHandler := tracker.NewHandler(s.trackerService)
	trackerHandler.SetupRoutes(r, limit)

	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	// MCP over streamable HTTP, same tools as cmd/tracker_mcp
	mcpServer := trackermcp.NewServer(s.trackerService, s.versionInfo)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(strings.Split(s.config.AllowedOrigin, ",")...))
	r.Use(middleware.LimitAndDrainBody(middleware.DefaultMaxBodyBytes))

	return r
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, versionResponse{
		Version:   s.versionInfo,
		ProgramID: s.catalog.Program.ID,
		Program:   s.catalog.Program.Version,
	}, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	if s.config.PrometheusMetricsPort != "" {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
			s.promRegistry,
			promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		))
		metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
		s.metricsHttpServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsRouter,
		}

		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// GracefulShutdown stops taking requests, then lets the tracker flush the
// saves in flight before the stores are closed.
func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.trackerService.Close()
	log.Debugln("tracker sessions flushed")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	if s.sqliteStore != nil {
		if err := s.sqliteStore.Close(); err != nil {
			log.Errorf("failed to close sqlite store: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}
