package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/mfdias/rotina/internal/config"
	"github.com/mfdias/rotina/internal/habits"
	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/journal"
	"github.com/mfdias/rotina/internal/habits/ledger"
	"github.com/mfdias/rotina/internal/habits/settings"
	"github.com/mfdias/rotina/internal/middleware"
	"github.com/mfdias/rotina/internal/reminders"
	"github.com/mfdias/rotina/internal/sheets"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	apiSecret         string
	versionInfo       string

	config        *config.Config
	habitsService *habits.Service
	summaryWriter *habits.SummaryWriter
	scheduler     *reminders.Scheduler

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config          *config.Config
	CredentialsJSON []byte
	ApiSecret       string
	VersionInfo     string
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	location, err := time.LoadLocation(params.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", params.Config.Timezone, err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("rotina", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	sheetsClient, err := sheets.NewClient(ctx, params.CredentialsJSON, params.Config.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("new sheets client: %w", err)
	}

	cat := catalog.New()
	habitsService := habits.NewService(
		cat,
		ledger.New(sheetsClient, cat, params.Config.DailyLogSheet, metricsManager),
		settings.New(sheetsClient, params.Config.ConfigSheet, metricsManager),
		journal.New(sheetsClient, params.Config.MealsLogSheet, metricsManager),
		location,
		metricsManager,
	)

	summaryWriter := habits.NewSummaryWriter(
		sheetsClient,
		cat,
		habits.SummaryWriterParams{
			DailyLogSheet:  params.Config.DailyLogSheet,
			WeeklySheet:    params.Config.WeeklySummarySheet,
			MonthlySheet:   params.Config.MonthlySummarySheet,
			DashboardSheet: params.Config.DashboardSheet,
		},
		metricsManager,
	)

	s := &Server{
		config:        params.Config,
		apiSecret:     params.ApiSecret,
		versionInfo:   params.VersionInfo,
		habitsService: habitsService,
		summaryWriter: summaryWriter,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}

	if params.Config.RemindersEnabled {
		s.scheduler, err = reminders.NewScheduler(
			reminders.Jobs(habitsService, summaryWriter),
			location,
			reminders.LogNotifier{},
			metricsManager,
		)
		if err != nil {
			return nil, fmt.Errorf("new reminders scheduler: %w", err)
		}
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("rotina-router"))

	habitsHandler := habits.NewHandler(s.habitsService, s.summaryWriter)
	habitsHandler.SetupRoutes(r.PathPrefix("/habits").Subrouter())

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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
			log.Fatalf("rotina service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	if s.scheduler != nil {
		go func() {
			log.Info(" > reminders scheduler started")
			s.scheduler.Run(ctx)
		}()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
