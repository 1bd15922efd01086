package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/rm-hull/affine-warp/internal"
	"github.com/rm-hull/affine-warp/internal/routes"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

type ServerConfig struct {
	Port     int
	Debug    bool
	Batch    internal.BatchConfig
	Interval time.Duration
}

func ApiServer(cfg ServerConfig) {
	internal.ShowVersion()
	internal.EnvironmentVars()

	var sched gocron.Scheduler
	if cfg.Batch.InboxDir != "" {
		var err error
		sched, err = internal.NewScheduler(cfg.Batch, cfg.Interval)
		if err != nil {
			log.Fatal(err)
		}
	}

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if cfg.Debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	v1 := r.Group("/v1")
	routes.NewWarpHandler(cfg.Batch.WarpWorkers).Register(v1)
	if cfg.Batch.OutDir != "" {
		r.Static("/v1/outputs", cfg.Batch.OutDir)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting HTTP API Server on port %d...", cfg.Port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP API Server failed to start on port %d: %v", cfg.Port, err)
	}

	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			log.Fatalf("failed to shutdown scheduler: %v", err)
		}
	}
}
