package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"spivaDashboard/internal/finance"
	"spivaDashboard/internal/openai"
	"spivaDashboard/internal/view"
)

type Handlers struct {
	api         *tgbotapi.BotAPI
	loader      *view.Loader
	renderer    *finance.Renderer
	commentator *openai.Commentator
	log         zerolog.Logger
}

func NewHandlers(api *tgbotapi.BotAPI, loader *view.Loader, renderer *finance.Renderer, commentator *openai.Commentator, log zerolog.Logger) *Handlers {
	return &Handlers{
		api:         api,
		loader:      loader,
		renderer:    renderer,
		commentator: commentator,
		log:         log,
	}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	cmd, ok := ParseCommand(m.Text)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	switch cmd.Name {
	case "spiva":
		h.handleSpiva(ctx, m.Chat.ID, cmd.Period)
	case "trend":
		h.handleTrend(ctx, m.Chat.ID)
	case "export":
		h.handleExport(ctx, m.Chat.ID, cmd.Table, cmd.Filter)
	case "insight":
		h.handleInsight(ctx, m.Chat.ID, cmd.Period)
	case "fees":
		h.reply(m.Chat.ID, FeesText(finance.DefaultFeeComparison()))
	case "help":
		h.reply(m.Chat.ID, helpText)
	}
}

func (h *Handlers) handleSpiva(ctx context.Context, chatID int64, period string) {
	snap := h.loader.Load(ctx)
	s, ok := h.loader.Summary(period)
	if !ok {
		h.reply(chatID, "No data for "+period+". "+PeriodsHint(snap.Matrix))
		return
	}
	bar, _ := h.loader.Bar(period)
	img, err := h.renderer.BarPNG(bar, "S&P 500 vs Large-Cap Benchmarks")
	if err != nil {
		h.log.Error().Err(err).Str("period", period).Msg("Bar chart failed")
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "spiva_" + finance.Slug(period) + ".png", Bytes: img})
	photo.Caption = SummaryCaption(s)
	h.send(photo)
}

func (h *Handlers) handleTrend(ctx context.Context, chatID int64) {
	h.loader.Load(ctx)
	img, err := h.renderer.TrendPNG(h.loader.Trend(), "S&P 500 vs Large-Cap Trend")
	if err != nil {
		h.log.Error().Err(err).Msg("Trend chart failed")
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "spiva_trend.png", Bytes: img})
	photo.Caption = "Underperformance by period"
	h.send(photo)
}

func (h *Handlers) handleExport(ctx context.Context, chatID int64, table, filter string) {
	t, ok := view.LookupTable(table)
	if !ok {
		h.reply(chatID, "Unknown table "+table+", use comparison or detail")
		return
	}
	h.loader.Load(ctx)
	exp, err := h.loader.Export(t, filter, "")
	if err != nil {
		h.log.Error().Err(err).Str("table", t.Name).Msg("Export failed")
		h.reply(chatID, "Export failed: "+err.Error())
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: exp.FileName, Bytes: exp.Data})
	doc.Caption = t.Title
	h.send(doc)
}

func (h *Handlers) handleInsight(ctx context.Context, chatID int64, period string) {
	if h.commentator == nil {
		h.reply(chatID, "Commentary is not configured.")
		return
	}
	snap := h.loader.Load(ctx)
	s, ok := h.loader.Summary(period)
	if !ok {
		h.reply(chatID, "No data for "+period+". "+PeriodsHint(snap.Matrix))
		return
	}
	out, err := h.commentator.Comment(ctx, s)
	if err != nil {
		h.log.Warn().Err(err).Msg("Commentary failed")
		h.reply(chatID, "Commentary failed: "+err.Error())
		return
	}
	h.reply(chatID, out)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.log.Warn().Err(err).Msg("Send failed")
	}
}
