// Package solscout wires the screener, storage, notifier and status API
// into a bot that announces fresh high-volume coins on Telegram.
package solscout

import (
	"context"
	"errors"
	"fmt"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger"
	"github.com/raykavin/solscout/pkg/notification"
	"github.com/raykavin/solscout/pkg/scanner"
	"github.com/raykavin/solscout/pkg/screener"
	"github.com/raykavin/solscout/pkg/server"
	"github.com/raykavin/solscout/pkg/storage"
)

const defaultDatabase = "solscout.db"

// Scout represents the main scout bot
type Scout struct {
	settings *core.Settings
	screener core.Screener
	storage  core.AlertStorage
	notifier core.Notifier
	telegram *notification.Telegram
	scanner  *scanner.Scanner
	server   *server.Server
	log      logger.Logger
}

// NewScout creates a new Scout instance with the provided settings and dependencies
func NewScout(settings *core.Settings, options ...Option) (*Scout, error) {
	scout := &Scout{
		settings: settings,
		log:      DefaultLog,
	}

	// Apply custom options
	for _, option := range options {
		option(scout)
	}

	if err := initializeStorage(scout); err != nil {
		return nil, err
	}

	if scout.screener == nil {
		scout.screener = screener.NewClient(scout.log)
	}

	if err := initializeNotifications(scout, settings); err != nil {
		return nil, err
	}

	scout.scanner = scanner.New(*settings, scout.screener, scout.storage, scout.notifier, scout.log)

	if scout.telegram != nil {
		scout.telegram.SetStatusSource(scout.scanner)
	}

	if settings.HTTPPort > 0 && scout.server == nil {
		scout.server = server.New(settings.HTTPPort, settings, scout.storage, scout.log,
			server.WithNotifier(scout.notifier),
			server.WithStatusSource(scout.scanner),
		)
	}

	return scout, nil
}

// initializeStorage sets up the bot's alert storage
func initializeStorage(scout *Scout) error {
	var err error
	if scout.storage == nil {
		scout.storage, err = storage.FromFile(defaultDatabase)
		if err != nil {
			return err
		}
	}
	return nil
}

// initializeNotifications sets up the notification channels. The primary
// channel (Telegram, a custom notifier, or the log fallback) governs alert
// persistence; mail is a best-effort secondary channel layered on top.
func initializeNotifications(scout *Scout, settings *core.Settings) error {
	if scout.notifier == nil {
		if settings.Telegram.Enabled {
			telegram, err := notification.NewTelegram(scout.storage, settings, scout.log)
			if err != nil {
				return fmt.Errorf("failed to initialize telegram: %w", err)
			}

			scout.telegram = telegram
			scout.notifier = telegram
		} else {
			scout.notifier = logNotifier{log: scout.log}
		}
	}

	if settings.Mail.Enabled {
		mail := notification.NewMail(notification.MailParams{
			SMTPServerAddress: settings.Mail.SMTPHost,
			SMTPServerPort:    settings.Mail.SMTPPort,
			To:                settings.Mail.To,
			From:              settings.Mail.From,
			Password:          settings.Mail.Password,
		})
		scout.notifier = newFanoutNotifier(scout.notifier, mail, scout.log)
	}

	return nil
}

// Scanner returns the scan engine, mainly for status inspection
func (s *Scout) Scanner() *scanner.Scanner {
	return s.scanner
}

// Storage returns the alert storage
func (s *Scout) Storage() core.AlertStorage {
	return s.storage
}

// CheckOnce performs a single scan pass and returns its error, the
// equivalent of one scheduled run.
func (s *Scout) CheckOnce(ctx context.Context) error {
	return s.scanner.Scan(ctx)
}

// Run starts the notifier, the status API and the scan loop, blocking
// until the context is canceled.
func (s *Scout) Run(ctx context.Context) error {
	if s.telegram != nil {
		s.telegram.Start()
	}

	if s.server != nil {
		go func() {
			if err := s.server.Start(ctx); err != nil {
				s.log.WithError(err).Error("status API stopped")
			}
		}()
	}

	err := s.scanner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the alert storage
func (s *Scout) Close() error {
	return s.storage.Close()
}

// fanoutNotifier mirrors notifications to a secondary channel. Only the
// primary channel's delivery result is returned, so a mail outage never
// blocks an alert from being recorded.
type fanoutNotifier struct {
	primary   core.Notifier
	secondary core.Notifier
	log       logger.Logger
}

func newFanoutNotifier(primary, secondary core.Notifier, log logger.Logger) fanoutNotifier {
	return fanoutNotifier{primary: primary, secondary: secondary, log: log}
}

func (n fanoutNotifier) Notify(text string) {
	n.primary.Notify(text)
	n.secondary.Notify(text)
}

func (n fanoutNotifier) OnAlert(alert core.Alert) error {
	if err := n.secondary.OnAlert(alert); err != nil {
		n.log.WithError(err).Error("secondary alert channel failed")
	}
	return n.primary.OnAlert(alert)
}

func (n fanoutNotifier) OnError(err error) {
	n.primary.OnError(err)
	n.secondary.OnError(err)
}

// logNotifier is the fallback channel when Telegram is disabled
type logNotifier struct {
	log logger.Logger
}

func (n logNotifier) Notify(text string) {
	n.log.Info(text)
}

func (n logNotifier) OnAlert(alert core.Alert) error {
	n.log.Info(notification.FormatAlertMessage(alert))
	return nil
}

func (n logNotifier) OnError(err error) {
	n.log.WithError(err).Error("notifier error")
}
