package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/clinic-backend/internal/config"
	"github.com/Spok95/clinic-backend/internal/domain/facilities"
	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/domain/patients"
	"github.com/Spok95/clinic-backend/internal/domain/stock"
	"github.com/Spok95/clinic-backend/internal/domain/usage"
	"github.com/Spok95/clinic-backend/internal/domain/visits"
	"github.com/Spok95/clinic-backend/internal/infra/db"
	httpx "github.com/Spok95/clinic-backend/internal/infra/http"
	"github.com/Spok95/clinic-backend/internal/infra/logger"
	"github.com/Spok95/clinic-backend/internal/infra/scheduler"
	"github.com/Spok95/clinic-backend/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	store := db.NewStore(pool)
	ledger := stock.NewLedger(store.Stock())
	allocator := usage.NewAllocator(store.Usage(), ledger)

	medsRepo := medications.NewRepo(pool)
	patientsRepo := patients.NewRepo(pool)
	facilitiesRepo := facilities.NewRepo(pool)
	visitsRepo := visits.NewRepo(pool)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, httpx.Deps{
		Ledger:      ledger,
		Allocator:   allocator,
		Visits:      visitsRepo,
		Medications: medsRepo,
		Patients:    patientsRepo,
		Facilities:  facilitiesRepo,
		BatchSize:   cfg.Report.BatchSize,
		Log:         log,
	})
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	var sched *scheduler.Scheduler
	if cfg.Telegram.Token != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		log.Info("telegram authorized", "account", bot.Self.UserName)

		notifier := notify.New(bot, cfg.Telegram.AdminChatID, visitsRepo, cfg.App.BaseURL, log)

		loc, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			log.Error("bad timezone", "tz", cfg.App.Timezone, "err", err)
			return
		}

		sched = scheduler.New(loc, log)
		jobs := []struct {
			spec, name string
			fn         func(ctx context.Context) error
		}{
			{cfg.Schedule.CallList, "call-list", func(ctx context.Context) error {
				return notifier.SendCallList(ctx, time.Now().In(loc))
			}},
			{cfg.Schedule.MissingAppendix, "missing-appendix", notifier.SendMissingAppendix},
			{cfg.Schedule.DailyReport, "daily-report", func(ctx context.Context) error {
				return notifier.SendDailyReport(ctx, time.Now().In(loc), cfg.Report.BatchSize)
			}},
		}
		for _, j := range jobs {
			if err := sched.Add(j.spec, j.name, j.fn); err != nil {
				log.Error("schedule failed", "job", j.name, "err", err)
				return
			}
		}
		sched.Start()
		log.Info("scheduler started")
	} else {
		log.Warn("telegram token is empty, notifications disabled")
	}

	<-ctx.Done()
	if sched != nil {
		sched.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
