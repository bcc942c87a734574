package notify_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/clinic-backend/internal/domain/visits"
	"github.com/Spok95/clinic-backend/internal/notify"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

type fakeVisits struct {
	forCall  []visits.Visit
	missing  []visits.Visit
	report   []visits.ReportVisit
	bumped   []int64
	bumpDays int
}

func (f *fakeVisits) PatientsForCall(context.Context, time.Time) ([]visits.Visit, error) {
	return f.forCall, nil
}

func (f *fakeVisits) BumpCallDate(_ context.Context, id int64, days int) error {
	f.bumped = append(f.bumped, id)
	f.bumpDays = days
	return nil
}

func (f *fakeVisits) MissingAppendix21(context.Context) ([]visits.Visit, error) {
	return f.missing, nil
}

func (f *fakeVisits) ListForDailyReport(context.Context, time.Time) ([]visits.ReportVisit, error) {
	return f.report, nil
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newNotifier(bot *fakeBot, src *fakeVisits) *notify.Notifier {
	return notify.New(bot, 42, src, "https://clinic.example.com/", slog.Default())
}

func TestSendCallList(t *testing.T) {
	bot := &fakeBot{}
	src := &fakeVisits{forCall: []visits.Visit{
		{ID: 7, PatientName: "Сидоров Андрій Іванович", PatientPhone: "+380501112233", FacilityName: "Госпіталь №1"},
	}}
	n := newNotifier(bot, src)

	require.NoError(t, n.SendCallList(context.Background(), date("2024-12-17")))

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "Пацієнти для обзвону")
	assert.Contains(t, msg.Text, "Сидоров Андрій Іванович")
	assert.Contains(t, msg.Text, "+380501112233")
	assert.Contains(t, msg.Text, "Госпіталь №1")
	assert.Contains(t, msg.Text, "https://clinic.example.com/visit/7")

	// после отправки звонок переносится на 5 дней
	assert.Equal(t, []int64{7}, src.bumped)
	assert.Equal(t, 5, src.bumpDays)
}

func TestSendCallList_Empty(t *testing.T) {
	bot := &fakeBot{}
	n := newNotifier(bot, &fakeVisits{})

	require.NoError(t, n.SendCallList(context.Background(), date("2024-12-17")))
	assert.Empty(t, bot.sent)
}

func TestSendMissingAppendix(t *testing.T) {
	bot := &fakeBot{}
	src := &fakeVisits{missing: []visits.Visit{
		{ID: 3, PatientName: "Мельник Андрій Павлович"},
		{ID: 9, PatientName: "Поліщук Антон Михайлович"},
	}}
	n := newNotifier(bot, src)

	require.NoError(t, n.SendMissingAppendix(context.Background()))

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "без додатку 21")
	assert.Contains(t, msg.Text, "Мельник Андрій Павлович (ID=3)")
	assert.Contains(t, msg.Text, "https://clinic.example.com/visit/9")
}

func TestSendDailyReport(t *testing.T) {
	bot := &fakeBot{}
	src := &fakeVisits{report: []visits.ReportVisit{
		{
			VisitID:     1,
			PatientID:   1,
			PatientName: "Сидоров Андрій Іванович",
			StartDate:   date("2024-12-13"),
			EndDate:     date("2024-12-17"),
			Medications: []visits.ReportMedication{
				{ShortName: "Шприци", Unit: "шт.", TotalQuantity: 10},
			},
		},
	}}
	n := newNotifier(bot, src)

	require.NoError(t, n.SendDailyReport(context.Background(), date("2024-12-15"), 21))

	require.Len(t, bot.sent, 1)
	doc, ok := bot.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "Відомість № 0_20241215", doc.Caption)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "daily_report_0_20241215.xlsx", file.Name)
	assert.NotEmpty(t, file.Bytes)
}

func TestSendDailyReport_Empty(t *testing.T) {
	bot := &fakeBot{}
	n := newNotifier(bot, &fakeVisits{})

	require.NoError(t, n.SendDailyReport(context.Background(), date("2024-12-15"), 21))
	assert.Empty(t, bot.sent)
}
