// Package notification provides implementations for various notification services
package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger"
	"github.com/raykavin/solscout/pkg/scanner"
	tb "gopkg.in/tucnak/telebot.v2"
)

const (
	pollingTimeout = 10 * time.Second

	lastAlertsShown = 5
)

// StatusSource exposes scan progress for the /status command
type StatusSource interface {
	Status() scanner.Status
}

// Telegram implements the core.NotifierWithStart interface
type Telegram struct {
	settings    *core.Settings
	storage     core.AlertStorage
	status      StatusSource
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
	log         logger.Logger
}

// Option is a function that configures a telegram instance
type Option func(telegram *Telegram)

// SetStatusSource wires the scanner so /status can report progress.
// The scanner is built after the notifier, hence a setter instead of an option.
func (t *Telegram) SetStatusSource(source StatusSource) {
	t.status = source
}

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(storage core.AlertStorage, settings *core.Settings, log logger.Logger, options ...Option) (
	*Telegram,
	error,
) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: pollingTimeout}
	chatMiddleware := newAuthMiddleware(poller, settings, log)

	client, err := initializeBotClient(settings, chatMiddleware)
	if err != nil {
		return nil, err
	}

	setupKeyboard(menu)
	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &Telegram{
		storage:     storage,
		client:      client,
		settings:    settings,
		defaultMenu: menu,
		log:         log,
	}

	for _, option := range options {
		option(bot)
	}

	registerHandlers(client, bot)

	return bot, nil
}

// initializeBotClient creates and configures the Telegram bot client
func initializeBotClient(settings *core.Settings, middleware *tb.MiddlewarePoller) (*tb.Bot, error) {
	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    middleware,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return client, nil
}

// newAuthMiddleware creates a middleware restricting commands to the alert chat
func newAuthMiddleware(poller *tb.LongPoller, settings *core.Settings, log logger.Logger) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Chat == nil {
			log.Error("message or chat is nil ", u)
			return false
		}

		if u.Message.Chat.ID == settings.Telegram.ChatID {
			return true
		}

		log.Error("unauthorized chat ", u.Message.Chat.ID)
		return false
	})
}

// setupKeyboard configures the reply keyboard layout
func setupKeyboard(menu *tb.ReplyMarkup) {
	var (
		statusBtn   = menu.Text("/status")
		lastBtn     = menu.Text("/last")
		settingsBtn = menu.Text("/settings")
		testBtn     = menu.Text("/test")
	)

	menu.Reply(
		menu.Row(statusBtn, lastBtn),
		menu.Row(settingsBtn, testBtn),
	)
}

// setupCommands configures available bot commands
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/help", Description: "Display help instructions"},
		{Text: "/status", Description: "Scan loop status and counters"},
		{Text: "/last", Description: "Most recent coin alerts"},
		{Text: "/settings", Description: "Current alert thresholds"},
		{Text: "/test", Description: "Send a test message"},
	})
}

// registerHandlers registers all command handlers
func registerHandlers(client *tb.Bot, bot *Telegram) {
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/status", bot.StatusHandle)
	client.Handle("/last", bot.LastHandle)
	client.Handle("/settings", bot.SettingsHandle)
	client.Handle("/test", bot.TestHandle)
}

// Start begins the Telegram bot and announces itself in the alert chat
func (t *Telegram) Start() {
	go t.client.Start()
	t.sendMessageWithOptions("Solana Scout Bot is running!", t.defaultMenu)
}

// Notification methods
// -------------------

// Notify sends a message to the alert chat
func (t *Telegram) Notify(text string) {
	if err := t.send(text); err != nil {
		t.log.WithError(err).Error("failed to send notification")
	}
}

// send delivers a message to the alert chat and reports failures
func (t *Telegram) send(text string, options ...any) error {
	_, err := t.client.Send(&tb.Chat{ID: t.settings.Telegram.ChatID}, text, options...)
	return err
}

// sendMessageWithOptions sends a message to the alert chat with additional options
func (t *Telegram) sendMessageWithOptions(text string, options ...any) {
	if err := t.send(text, options...); err != nil {
		t.log.WithError(err).Error("failed to send notification with options")
	}
}

// sendMessage replies to a specific chat
func (t *Telegram) sendMessage(to *tb.Chat, text string, options ...any) {
	_, err := t.client.Send(to, text, options...)
	if err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}

// Event handlers
// -------------

// OnAlert announces a newly detected coin in the alert chat
func (t *Telegram) OnAlert(alert core.Alert) error {
	return t.send(FormatAlertMessage(alert))
}

// OnError notifies the alert chat about errors
func (t *Telegram) OnError(err error) {
	var sb strings.Builder
	sb.WriteString("🛑 ERROR\n")
	sb.WriteString("-----\n")
	sb.WriteString(err.Error())

	t.Notify(sb.String())
}

// Info implements core.Identifier for the status API
func (t *Telegram) Info() (core.BotInfo, error) {
	chatID := strconv.FormatInt(t.settings.Telegram.ChatID, 10)

	chat, err := t.client.ChatByID(chatID)
	if err != nil {
		return core.BotInfo{}, fmt.Errorf("failed to get chat info: %w", err)
	}

	return core.BotInfo{
		Name:     t.client.Me.FirstName,
		Username: t.client.Me.Username,
		ChatID:   chatID,
		ChatType: string(chat.Type),
		ChatName: chat.Title,
	}, nil
}

// Command handlers
// ---------------

// HelpHandle displays available commands
func (t *Telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		t.log.WithError(err).Error("failed to get commands")
		t.OnError(err)
		return
	}

	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", command.Text, command.Description))
	}

	t.sendMessage(m.Chat, strings.Join(lines, "\n"))
}

// StatusHandle reports the scan loop progress
func (t *Telegram) StatusHandle(m *tb.Message) {
	if t.status == nil {
		t.sendMessage(m.Chat, "Status unavailable.")
		return
	}

	status := t.status.Status()
	if status.StartedAt.IsZero() {
		t.sendMessage(m.Chat, "Scan loop has not started yet.")
		return
	}

	lastScan := "never"
	if !status.LastScan.IsZero() {
		lastScan = status.LastScan.Format(time.RFC3339)
	}

	message := fmt.Sprintf(
		"*STATUS*\nUptime: `%s`\nLast scan: `%s`\nScans: `%d`\nAlerts sent: `%d`",
		time.Since(status.StartedAt).Round(time.Second),
		lastScan,
		status.ScanCount,
		status.AlertCount,
	)
	t.sendMessage(m.Chat, message)
}

// LastHandle shows the most recent alerts
func (t *Telegram) LastHandle(m *tb.Message) {
	alerts, err := t.storage.Alerts(context.Background())
	if err != nil {
		t.log.WithError(err).Error("failed to load alerts")
		t.OnError(err)
		return
	}

	if len(alerts) == 0 {
		t.sendMessage(m.Chat, "No coins alerted yet.")
		return
	}

	if len(alerts) > lastAlertsShown {
		alerts = alerts[len(alerts)-lastAlertsShown:]
	}

	var sb strings.Builder
	sb.WriteString("*LAST ALERTS*\n")
	for i := len(alerts) - 1; i >= 0; i-- {
		alert := alerts[i]
		fmt.Fprintf(&sb, "%s (%s) - $%s - %s\n",
			alert.CoinName,
			alert.Symbol,
			FormatAmount(alert.VolumeUSD),
			alert.AlertedAt.Format("Jan 02 15:04"),
		)
	}

	t.sendMessage(m.Chat, sb.String())
}

// SettingsHandle shows the active alert thresholds
func (t *Telegram) SettingsHandle(m *tb.Message) {
	message := fmt.Sprintf(
		"*SETTINGS*\nChain: `%s`\nScan interval: `%s`\nMax pair age: `%s`\nMin volume: `$%s`",
		t.settings.ChainID,
		t.settings.ScanInterval,
		t.settings.MaxPairAge,
		FormatAmount(t.settings.MinVolumeUSD),
	)
	t.sendMessage(m.Chat, message)
}

// TestHandle sends a test message to confirm delivery works
func (t *Telegram) TestHandle(m *tb.Message) {
	t.sendMessage(m.Chat, "Test message from bot")
}
