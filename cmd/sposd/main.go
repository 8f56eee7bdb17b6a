package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisstore "github.com/gin-contrib/sessions/redis"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rwth-i11/spos/internal/audit"
	"github.com/rwth-i11/spos/internal/httpapi"
	"github.com/rwth-i11/spos/internal/httpapi/snapshot"
	"github.com/rwth-i11/spos/internal/iosim"
	"github.com/rwth-i11/spos/internal/rediscli"
	"github.com/rwth-i11/spos/internal/spos"
	"github.com/rwth-i11/spos/internal/spos/idle"
	"github.com/rwth-i11/spos/internal/spos/platform"
	"github.com/rwth-i11/spos/internal/spos/strategy"
)

func main() {
	httpAddr := flag.String("http-addr", ":8080", "diagnostics API listen address")
	redisAddr := flag.String("redis-addr", "localhost:6379", "redis address for audit trail and sessions")
	tick := flag.Duration("tick", 100*time.Millisecond, "scheduler tick period")
	initialStrategy := flag.String("strategy", "even", "initial scheduling strategy")
	flag.Parse()

	log := buildLogger()
	defer log.Sync()
	log = log.Named("main")

	plat := platform.NewSoftware(platform.MemSize(spos.NMax, spos.StackSizeProc))
	fatal := spos.FatalSinkFunc(func(err error, pid spos.ProcessID) {
		log.Fatal("fatal scheduler condition", zap.Error(err), zap.Int("pid", int(pid)))
	})

	input := iosim.NewInput()
	output := iosim.NewOutput()

	kernel := spos.NewKernel(plat, fatal, input, nil, log)

	s, ok := parseStrategy(*initialStrategy)
	if !ok {
		log.Fatal("unknown strategy", zap.String("strategy", *initialStrategy))
	}
	kernel.SetSchedulingStrategy(s)

	// No externally supplied autostart list in this deployment: boot
	// straight to idle (spec.md §4.2 with an empty autostart_head).
	kernel.InitScheduler(nil, idle.New(output, spos.DefaultOutputDelay))
	kernel.StartScheduler()

	redisClient := rediscli.New(*redisAddr, 0, log)
	defer redisClient.Close()
	trail := audit.NewTrail(redisClient, log)

	store, err := redisstore.NewStore(10, "tcp", *redisAddr, "", []byte("spos-session-secret"))
	if err != nil {
		log.Fatal("session store init failed", zap.Error(err))
	}

	cache := snapshot.New(log, kernel, snapshot.Options{TTL: 150 * time.Millisecond})

	creds := httpapi.AdminCredentials{
		Username: envOrDefault("SPOSD_ADMIN_USER", "admin"),
		Password: envOrDefault("SPOSD_ADMIN_PASSWORD", "admin"),
	}
	if creds.Password == "admin" {
		log.Warn("using default admin password; set SPOSD_ADMIN_PASSWORD in production")
	}

	router := httpapi.NewRouter(log, kernel, input, cache, trail, store, creds)
	srv := &http.Server{Addr: *httpAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*tick)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ticker.C:
				kernel.Tick()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		log.Info("diagnostics API listening", zap.String("addr", *httpAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func buildLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return zap.Must(cfg.Build())
}

func parseStrategy(name string) (strategy.Strategy, bool) {
	switch name {
	case "even":
		return strategy.Even, true
	case "random":
		return strategy.Random, true
	case "round-robin", "roundrobin":
		return strategy.RoundRobin, true
	case "inactive-aging", "inactiveaging":
		return strategy.InactiveAging, true
	case "run-to-completion", "runtocompletion":
		return strategy.RunToCompletion, true
	default:
		return 0, false
	}
}
