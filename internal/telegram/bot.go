// Package telegram is the chat surface: risk checks on demand, evacuation
// advice, contacts and tips, plus watch list alerts to configured chats.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"floodalert/internal/geo"
	contacttypes "floodalert/internal/modules/contacts/types"
	riskservice "floodalert/internal/modules/risk/service"
	risktypes "floodalert/internal/modules/risk/types"
	"floodalert/internal/modules/tips"
	watchtypes "floodalert/internal/modules/watch/types"
)

const (
	replyBusy    = "Already checking..."
	replyWorking = "Checking flood risk for your location..."
	replyUnknown = "Unknown command. Use /help to see available commands."
	replyUsage   = "Send your location, or use /check <lat> <lon>."
	helpText     = "Available commands:\n" +
		"/check <lat> <lon> - Check flood risk at a position\n" +
		"/evacuate <lat> <lon> - Check whether you should evacuate\n" +
		"/contacts - Emergency phone numbers\n" +
		"/tips - What to do before, during and after a flood\n" +
		"/help - Show this help message\n\n" +
		"You can also share your location to run a check."
)

// RiskService is the part of the risk pipeline the bot uses.
type RiskService interface {
	riskservice.Assessor
	Evacuation(ctx context.Context, p geo.Provider) risktypes.EvacuationStatus
}

type ContactsService interface {
	Load(ctx context.Context) contacttypes.State
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	risk     RiskService
	contacts ContactsService
	sessions *riskservice.Sessions
	alerts   []int64
	logger   *slog.Logger

	wg sync.WaitGroup
}

func New(token string, risk RiskService, contacts ContactsService, alertChats []int64, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	b := newBot(api, risk, contacts, alertChats, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, risk RiskService, contacts ContactsService, alertChats []int64, logger *slog.Logger) *Bot {
	return &Bot{
		sender:   s,
		risk:     risk,
		contacts: contacts,
		sessions: riskservice.NewSessions(risk),
		alerts:   alertChats,
		logger:   logger,
	}
}

// Run long-polls for updates until ctx is done, then drops pending checks.
func (b *Bot) Run(ctx context.Context) {
	defer b.close()
	if b.api == nil {
		<-ctx.Done()
		return
	}
	b.logger.Info("telegram bot authorized", "user", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) close() {
	b.sessions.Close()
	b.wg.Wait()
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	b.logger.Debug("telegram message", "chat_id", chatID, "text", m.Text, "location", m.Location != nil)

	switch {
	case m.Location != nil:
		b.startCheck(chatID, geo.Fixed(risktypes.Coordinate{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}))
	case m.IsCommand():
		b.handleCommand(ctx, chatID, m.Command(), m.CommandArguments())
	default:
		b.reply(chatID, replyUnknown)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start":
		b.reply(chatID, "Welcome to Flood Alert! Share your location or use /check <lat> <lon> to check flood risk. /help lists all commands.")
	case "help":
		b.reply(chatID, helpText)
	case "check":
		c, err := parseArgs(args)
		if err != nil {
			b.reply(chatID, err.Error())
			return
		}
		b.startCheck(chatID, geo.Fixed(c))
	case "evacuate":
		c, err := parseArgs(args)
		if err != nil {
			b.reply(chatID, err.Error())
			return
		}
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.reply(chatID, FormatEvacuation(b.risk.Evacuation(ctx, geo.Fixed(c))))
		}()
	case "contacts":
		b.reply(chatID, FormatContacts(b.contacts.Load(ctx)))
	case "tips":
		b.reply(chatID, tips.Text(tips.All()))
	default:
		b.reply(chatID, replyUnknown)
	}
}

func (b *Bot) startCheck(chatID int64, p geo.Provider) {
	checker, err := b.sessions.Get("telegram:" + strconv.FormatInt(chatID, 10))
	if err != nil {
		b.logger.Warn("telegram check refused", "chat_id", chatID, "error", err)
		return
	}
	// The result waits for the acknowledgement so the chat sees them in order.
	acked := make(chan struct{})
	err = checker.Start(p, func(a risktypes.RiskAssessment) {
		<-acked
		b.reply(chatID, FormatAssessment(a))
	})
	switch {
	case errors.Is(err, riskservice.ErrCheckInFlight):
		b.reply(chatID, replyBusy)
	case err != nil:
		b.logger.Warn("telegram check refused", "chat_id", chatID, "error", err)
	default:
		b.reply(chatID, replyWorking)
		close(acked)
	}
}

// NotifyChange sends watch list changes to the alert chats. First
// assessments are only sent when they already warrant attention.
func (b *Bot) NotifyChange(_ context.Context, c watchtypes.Change) {
	if c.First() && !c.Alerting() {
		return
	}
	text := FormatChange(c)
	for _, id := range b.alerts {
		b.reply(id, text)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("telegram send failed", "chat_id", chatID, "error", err)
	}
}

func parseArgs(args string) (risktypes.Coordinate, error) {
	fields := strings.Fields(strings.ReplaceAll(args, ",", " "))
	if len(fields) != 2 {
		return risktypes.Coordinate{}, errors.New(replyUsage)
	}
	c, err := geo.Parse(fields[0], fields[1])
	if err != nil {
		return risktypes.Coordinate{}, fmt.Errorf("%v. %s", err, replyUsage)
	}
	return c, nil
}
