package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler запускает ежедневные задачи (обзвон, напоминания, ведомость)
// по cron-расписанию в таймзоне клиники.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(loc *time.Location, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log,
	}
}

// Add регистрирует задачу; ошибка задачи логируется и не роняет процесс.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		s.log.Info("scheduled job started", "job", name)
		if err := job(ctx); err != nil {
			s.log.Error("scheduled job failed", "job", name, "err", err)
			return
		}
		s.log.Info("scheduled job finished", "job", name)
	})
	return err
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
