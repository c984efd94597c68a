package bot

import (
	"context"
	"log"
	"runtime"
	"time"

	"trackbot/internal/checkin"
	"trackbot/internal/config"
	"trackbot/internal/store"
	"trackbot/internal/track"
)

// interpreter converts a free-text reply into a validated activity.
type interpreter interface {
	Interpret(ctx context.Context, text string) (track.Activity, error)
}

// Bot is the check-in controller: a single-threaded loop over inbound chat
// events and scheduler ticks. All mutable state lives in b.state and is
// persisted through b.states after every mutation.
type Bot struct {
	cfg       *config.Config
	store     store.Store
	states    *checkin.FileStore
	schedule  checkin.Schedule
	interp    interpreter
	transport Transport
	loc       *time.Location
	state     checkin.State
	now       func() time.Time
}

func New(cfg *config.Config, st store.Store, states *checkin.FileStore, transport Transport, interp interpreter) *Bot {
	return &Bot{
		cfg:       cfg,
		store:     st,
		states:    states,
		transport: transport,
		interp:    interp,
		schedule: checkin.Schedule{
			DayStartHour: cfg.Checkin.DayStartHour,
			DayEndHour:   cfg.Checkin.DayEndHour,
			Interval:     cfg.PollInterval(),
			TTL:          cfg.TTL(),
		},
		loc: cfg.Location(),
		now: time.Now,
	}
}

// Run recovers persisted state and processes events until ctx is cancelled.
// One event is handled to completion before the next; a failing event is
// logged and never stops the loop.
func (b *Bot) Run(ctx context.Context) error {
	st, err := b.states.Load()
	if err != nil {
		return err
	}
	b.state = st

	delay := checkin.NextTickDelay(b.now().In(b.loc), b.schedule.Interval)
	log.Printf("Bot is running; first check-in tick in %s", delay.Round(time.Second))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-b.transport.Events():
			if !ok {
				return nil
			}
			b.handleEvent(ctx, ev)
		case <-timer.C:
			b.handleTick(ctx)
			timer.Reset(checkin.NextTickDelay(b.now().In(b.loc), b.schedule.Interval))
		}
	}
}

func (b *Bot) handleEvent(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			log.Printf("Panic handling event in channel %s:\nError: %v\nStack Trace:\n%s", ev.ChatID, r, buf[:n])
			b.send(ev.ChatID, "An internal error occurred")
		}
	}()

	switch ev.Command {
	case "":
		b.handleText(ctx, ev)
	case "start":
		b.handleStart(ev)
	case "checkin":
		b.handleCheckin(ev)
	case "list":
		b.handleList(ctx, ev)
	case "delete":
		b.handleDelete(ctx, ev)
	case "help":
		b.handleHelp(ev)
	default:
		log.Printf("Unknown command: %s", ev.Command)
		b.send(ev.ChatID, "Unknown command. Try !help.")
	}
}

// handleTick applies TTL expiry, then decides whether a prompt is due. An
// expired prompt is abandoned silently; no message is sent for it.
func (b *Bot) handleTick(ctx context.Context) {
	now := b.now().In(b.loc)

	if b.schedule.Expired(now, b.state) {
		log.Println("Check-in prompt expired unanswered; freeing the slot")
		b.state.LastPromptAt = nil
		b.state.PendingText = ""
		b.saveState()
	}

	if b.chatID() == "" {
		log.Println("No chat registered yet; send !start to register")
		return
	}
	if !b.schedule.IsDue(now, b.state) {
		return
	}
	b.sendPrompt(now)
}

// sendPrompt issues the check-in prompt and records it. The state write comes
// after the send so a failed send does not block the next attempt.
func (b *Bot) sendPrompt(now time.Time) bool {
	if err := b.transport.Send(b.chatID(), b.cfg.Checkin.Prompt); err != nil {
		log.Printf("Error sending check-in prompt: %v", err)
		return false
	}
	t := now
	b.state.LastPromptAt = &t
	b.saveState()
	return true
}

// chatID is the live conversation: a configured channel pin wins over the
// registered one.
func (b *Bot) chatID() string {
	if b.cfg.Discord.ChannelID != "" {
		return b.cfg.Discord.ChannelID
	}
	return b.state.ChatID
}

func (b *Bot) send(chatID, text string) {
	if err := b.transport.Send(chatID, text); err != nil {
		log.Printf("Error sending message to channel %s: %v", chatID, err)
	}
}

func (b *Bot) saveState() {
	if err := b.states.Save(b.state); err != nil {
		log.Printf("Error saving check-in state: %v", err)
	}
}
