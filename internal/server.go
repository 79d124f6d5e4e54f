package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/users"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
)

const (
	serviceName          = "workoutlog-backend"
	sessionsScanInterval = 8 * time.Hour
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	authService    *auth.Service
	sessionChecker *auth.SessionChecker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	DBUser                  string
	DBPassword              string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.DBUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName, rdb)
	if err != nil {
		dbPool.Close()
		return nil, multierr.Append(err, rdb.Close())
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		authService: auth.NewAuthService(cfg.SessionTTL.Duration, rdb),
		sessionChecker: auth.NewSessionChecker(
			cfg.SessionTTL.Duration,
			rdb,
			cfg.SessionCacheSizeBytes,
			cfg.SessionCacheTTLSeconds,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

type routerParams struct {
	UsersHandler          *users.Handler
	WorkoutsHandler       *workouts.Handler
	SessionChecker        auth.Checker
	RateLimiter           middleware.RequestRateLimiter
	MetricsManager        *metrics.Manager
	AllowedOrigins        []string
	SignInRateLimitPerMin int
	VersionInfo           string
}

func newRouter(params routerParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, params.VersionInfo)
	}).Methods("GET").Name("version")

	// sign up and sign in are public, rate limit them to slow down credential guessing
	signRateLimit := middleware.RateLimit(
		params.RateLimiter,
		"signin",
		params.SignInRateLimitPerMin,
		params.MetricsManager,
	)
	r.Handle("/user/signup", signRateLimit(http.HandlerFunc(params.UsersHandler.HandleSignUp))).
		Methods("POST", "OPTIONS").Name("signup")
	r.Handle("/user/signin", signRateLimit(http.HandlerFunc(params.UsersHandler.HandleSignIn))).
		Methods("POST", "OPTIONS").Name("signin")
	r.HandleFunc("/user/signout", params.UsersHandler.HandleSignOut).Methods("POST", "OPTIONS").Name("signout")

	r.HandleFunc("/user/workout", params.WorkoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("add-workout")
	r.HandleFunc("/user/workout", params.WorkoutsHandler.HandleGetByDate).Methods("GET").Name("get-workouts")
	r.HandleFunc("/user/dashboard", params.WorkoutsHandler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard")

	authMiddleware := middleware.NewAuthMiddlewareHandler(params.SessionChecker)

	r.Use(middleware.PanicRecovery(params.MetricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(params.MetricsManager))
	r.Use(middleware.Cors(params.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) routerSetup() *mux.Router {
	cfg := s.config

	workoutsService := workouts.NewService(
		workouts.NewRepo(s.dbPool),
		workouts.NewServiceParams{
			Validator: workouts.NewValidator(cfg.MaxWorkoutNameLength, cfg.MaxCategoryNameLength, cfg.Location()),
			Estimator: workouts.NewCalorieEstimator(cfg.CalorieIntensity, cfg.DefaultCalorieIntensity),
			// limits are small enough for int on every platform we run on
			MaxTextBytes: int(cfg.MaxWorkoutTextBytes),
		},
	)

	return newRouter(routerParams{
		UsersHandler: users.NewHandler(
			users.NewRepo(s.dbPool),
			s.authService,
			s.sessionChecker,
			s.metricsManager,
		),
		WorkoutsHandler:       workouts.NewHandler(workoutsService, s.metricsManager),
		SessionChecker:        s.sessionChecker,
		RateLimiter:           redis_rate.NewLimiter(s.redisClient),
		MetricsManager:        s.metricsManager,
		AllowedOrigins:        cfg.AllowedOrigins,
		SignInRateLimitPerMin: cfg.SignInRateLimitPerMin,
		VersionInfo:           s.versionInfo,
	})
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.cleanSessionsPeriodically(ctx, sessionsScanInterval)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// cleanSessionsPeriodically drops expired sessions from the tokens set until ctx is done.
func (s *Server) cleanSessionsPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.authService.ScanAndClean(ctx, time.Now())
			log.Debugf("sessions cleanup removed [%d] sessions", removed)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

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

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
