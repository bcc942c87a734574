package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/clinic-backend/internal/domain/visits"
	"github.com/Spok95/clinic-backend/internal/report"
)

// через сколько дней повторять контрольный звонок
const callInterval = 5

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type VisitSource interface {
	PatientsForCall(ctx context.Context, day time.Time) ([]visits.Visit, error)
	BumpCallDate(ctx context.Context, id int64, days int) error
	MissingAppendix21(ctx context.Context) ([]visits.Visit, error)
	ListForDailyReport(ctx context.Context, date time.Time) ([]visits.ReportVisit, error)
}

// Notifier шлёт в админский чат списки на обзвон, напоминания о
// недостающих документах и файлы дневной ведомости.
type Notifier struct {
	bot     Sender
	chatID  int64
	visits  VisitSource
	baseURL string
	log     *slog.Logger
}

func New(bot Sender, chatID int64, src VisitSource, baseURL string, log *slog.Logger) *Notifier {
	return &Notifier{
		bot:     bot,
		chatID:  chatID,
		visits:  src,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

func (n *Notifier) visitURL(id int64) string {
	return fmt.Sprintf("%s/visit/%d", n.baseURL, id)
}

// CallListMessage — текст напоминания об обзвоне одного визита.
func (n *Notifier) CallListMessage(v visits.Visit) string {
	return fmt.Sprintf(
		"📝 *Пацієнти для обзвону*\n\n"+
			"👤 *Пацієнт*: %s\n"+
			"📞 *Телефон*: %s\n"+
			"🏥 *Лікарня*: %s\n"+
			"🔗 [Оновити дані візиту](%s)",
		v.PatientName, v.PatientPhone, v.FacilityName, n.visitURL(v.ID),
	)
}

// SendCallList рассылает визиты с контрольным звонком на сегодня
// и переносит дату следующего звонка.
func (n *Notifier) SendCallList(ctx context.Context, day time.Time) error {
	vs, err := n.visits.PatientsForCall(ctx, day)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		n.log.Info("call list is empty", "day", day.Format("2006-01-02"))
		return nil
	}

	for _, v := range vs {
		msg := tgbotapi.NewMessage(n.chatID, n.CallListMessage(v))
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := n.bot.Send(msg); err != nil {
			return fmt.Errorf("send call list: %w", err)
		}
		if err := n.visits.BumpCallDate(ctx, v.ID, callInterval); err != nil {
			return err
		}
	}
	n.log.Info("call list sent", "visits", len(vs))
	return nil
}

// MissingAppendixMessage — сводный список боевых ранений без приложения 21.
func (n *Notifier) MissingAppendixMessage(vs []visits.Visit) string {
	b := &strings.Builder{}
	b.WriteString("❗ Список візитів із бойовою травмою без додатку 21:\n\n")
	for _, v := range vs {
		fmt.Fprintf(b, "- Пацієнт: %s (ID=%d)\n", v.PatientName, v.ID)
		fmt.Fprintf(b, "[Перейти до візиту](%s)\n\n", n.visitURL(v.ID))
	}
	return b.String()
}

// SendMissingAppendix шлёт напоминание, если есть визиты без приложения 21.
func (n *Notifier) SendMissingAppendix(ctx context.Context) error {
	vs, err := n.visits.MissingAppendix21(ctx)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		n.log.Info("no visits missing appendix 21")
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, n.MissingAppendixMessage(vs))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send missing appendix list: %w", err)
	}
	n.log.Info("missing appendix list sent", "visits", len(vs))
	return nil
}

// SendDailyReport строит ведомость на дату и шлёт файлы по группам.
func (n *Notifier) SendDailyReport(ctx context.Context, date time.Time, batchSize int) error {
	vs, err := n.visits.ListForDailyReport(ctx, date)
	if err != nil {
		return err
	}

	batches, err := report.ProjectDay(vs, date, batchSize)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		n.log.Info("daily report is empty", "date", date.Format("2006-01-02"))
		return nil
	}

	for _, b := range batches {
		data, err := report.RenderDaily(b, date)
		if err != nil {
			return err
		}
		doc := tgbotapi.NewDocument(n.chatID, tgbotapi.FileBytes{
			Name:  report.DailyFileName(b),
			Bytes: data,
		})
		doc.Caption = fmt.Sprintf("Відомість № %s", b.Number)
		if _, err := n.bot.Send(doc); err != nil {
			return fmt.Errorf("send daily report: %w", err)
		}
	}
	n.log.Info("daily report sent", "date", date.Format("2006-01-02"), "batches", len(batches))
	return nil
}
