package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"trackbot/internal/checkin"
	"trackbot/internal/llm"
	"trackbot/internal/store"
)

func (b *Bot) handleStart(ev Event) {
	if !b.allowedChannel(ev.ChatID) {
		b.send(ev.ChatID, "This bot is configured for a different channel.")
		return
	}
	if err := b.states.Register(&b.state, ev.ChatID); err != nil {
		if errors.Is(err, checkin.ErrAlreadyRegistered) {
			b.send(ev.ChatID, "Check-ins are already registered to another channel.")
			return
		}
		log.Printf("Error registering channel %s: %v", ev.ChatID, err)
		b.send(ev.ChatID, "Registration failed. Check logs for details.")
		return
	}
	b.send(ev.ChatID, "Check-ins are active. I'll ping you during daytime hours. "+
		"You can also send !checkin to prompt now.")
}

// handleCheckin is the manual trigger: it skips the daytime window and the
// interval, but still refuses to stack a prompt on an unexpired open one.
func (b *Bot) handleCheckin(ev Event) {
	if !b.allowedChannel(ev.ChatID) {
		b.send(ev.ChatID, "This bot is configured for a different channel.")
		return
	}
	if b.chatID() == "" {
		if err := b.states.Register(&b.state, ev.ChatID); err != nil {
			log.Printf("Error registering channel %s: %v", ev.ChatID, err)
			b.send(ev.ChatID, "No chat is registered yet. Send !start first.")
			return
		}
	}

	now := b.now().In(b.loc)
	if !b.schedule.SlotFree(now, b.state) {
		b.send(ev.ChatID, "A check-in is already waiting for your reply.")
		return
	}
	b.sendPrompt(now)
}

func (b *Bot) handleList(ctx context.Context, ev Event) {
	if !b.allowedChannel(ev.ChatID) {
		b.send(ev.ChatID, "This bot is configured for a different channel.")
		return
	}
	limit := 10
	if len(ev.Args) > 0 {
		n, err := strconv.Atoi(ev.Args[0])
		if err != nil {
			b.send(ev.ChatID, "Usage: !list [number_of_events]")
			return
		}
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	activities, err := b.store.List(ctx, limit, store.SortByEvent)
	if err != nil {
		log.Printf("Error listing activities: %v", err)
		b.send(ev.ChatID, "Listing failed. Check logs for details.")
		return
	}
	b.send(ev.ChatID, truncateMessage(formatActivityList(activities)))
}

func (b *Bot) handleDelete(ctx context.Context, ev Event) {
	if !b.allowedChannel(ev.ChatID) {
		b.send(ev.ChatID, "This bot is configured for a different channel.")
		return
	}
	if len(ev.Args) == 0 {
		b.send(ev.ChatID, "Usage: !delete <event_id>")
		return
	}
	id, err := strconv.ParseInt(ev.Args[0], 10, 64)
	if err != nil || id <= 0 {
		b.send(ev.ChatID, "Usage: !delete <event_id>")
		return
	}

	activity, err := b.store.Get(ctx, id)
	if err != nil {
		log.Printf("Error fetching activity %d: %v", id, err)
		b.send(ev.ChatID, "Couldn't load that event. Check logs for details.")
		return
	}
	if activity == nil {
		b.send(ev.ChatID, fmt.Sprintf("No activity found with ID %d.", id))
		return
	}

	b.state.PendingDeleteID = id
	b.saveState()
	b.send(ev.ChatID, formatDeletePrompt(*activity))
}

func (b *Bot) handleHelp(ev Event) {
	b.send(ev.ChatID, "Commands:\n"+
		"!start - register this channel for check-ins\n"+
		"!checkin - prompt now\n"+
		"!list [n] - show recent activities\n"+
		"!delete <id> - delete an activity (asks for confirmation)\n"+
		"While a check-in is open, just describe what you did: duration, quadrant (Q1-4), tags.")
}

// handleText processes free text: a delete confirmation when one is pending,
// a reply attempt while a prompt is open, otherwise a short acknowledgment.
func (b *Bot) handleText(ctx context.Context, ev Event) {
	if strings.TrimSpace(ev.Text) == "" {
		return
	}
	chatID := b.chatID()
	if chatID == "" || ev.ChatID != chatID {
		return
	}
	now := b.now().In(b.loc)

	if b.state.PendingDeleteID != 0 {
		b.handleDeleteConfirmation(ctx, ev)
		return
	}
	if b.state.LastPromptAt == nil || now.Sub(*b.state.LastPromptAt) >= b.schedule.TTL {
		b.send(ev.ChatID, "No check-in is waiting for a reply. Send !checkin to log an activity now.")
		return
	}
	b.processReply(ctx, ev, now)
}

// processReply runs the pipeline in the recovery-safe order: interpret,
// persist the record, persist the state, confirm. A crash between the two
// persists re-offers the open prompt on restart; a duplicated record is the
// accepted cost.
func (b *Bot) processReply(ctx context.Context, ev Event, now time.Time) {
	text := ev.Text
	if b.state.PendingText != "" {
		text = fmt.Sprintf("Original check-in: %s\nClarification: %s", b.state.PendingText, ev.Text)
	}

	cctx, cancel := context.WithTimeout(ctx, b.cfg.CompletionTimeout())
	defer cancel()
	activity, err := b.interp.Interpret(cctx, text)
	if err != nil {
		b.handleInterpretError(ev, err)
		return
	}

	id, err := b.store.Add(ctx, activity)
	if err != nil {
		log.Printf("Error storing activity: %v", err)
		b.send(ev.ChatID, "I parsed it, but logging failed. Check logs for details.")
		return
	}

	b.state.LastPromptAt = nil
	t := now
	b.state.LastReplyAt = &t
	b.state.PendingText = ""
	b.saveState()

	b.send(ev.ChatID, formatLogged(id, activity))
}

// handleInterpretError surfaces the failure and leaves the prompt open. No
// partial record ever reaches the store.
func (b *Bot) handleInterpretError(ev Event, err error) {
	switch {
	case errors.Is(err, llm.ErrIncompleteReply):
		if b.state.PendingText != "" {
			b.state.PendingText += "\nClarification: " + ev.Text
		} else {
			b.state.PendingText = ev.Text
		}
		b.saveState()
		b.send(ev.ChatID, "I couldn't make a full entry out of that. "+
			"Please add what you did, how long, and a quadrant (Q1-4).")
	case errors.Is(err, llm.ErrUpstream):
		log.Printf("Completion service failed: %v", err)
		b.send(ev.ChatID, "The parsing service is unavailable right now. Please resend in a bit.")
	default:
		// Validation errors are user-correctable; surface them verbatim.
		b.send(ev.ChatID, "Couldn't log that: "+err.Error())
	}
}

func (b *Bot) handleDeleteConfirmation(ctx context.Context, ev Event) {
	id := b.state.PendingDeleteID
	switch strings.ToLower(strings.TrimSpace(ev.Text)) {
	case "y", "yes":
		deleted, err := b.store.Remove(ctx, id)
		if err != nil {
			log.Printf("Error deleting activity %d: %v", id, err)
			b.send(ev.ChatID, "Delete failed. Check logs for details.")
			return
		}
		b.state.PendingDeleteID = 0
		b.saveState()
		if deleted {
			log.Printf("Deleted event ID %d", id)
			b.send(ev.ChatID, fmt.Sprintf("Deleted event ID %d.", id))
		} else {
			b.send(ev.ChatID, fmt.Sprintf("Event ID %d was not found.", id))
		}
	case "n", "no":
		b.state.PendingDeleteID = 0
		b.saveState()
		b.send(ev.ChatID, "Delete cancelled.")
	default:
		activity, err := b.store.Get(ctx, id)
		if err != nil {
			log.Printf("Error fetching activity %d: %v", id, err)
			b.send(ev.ChatID, "Couldn't load that event. Check logs for details.")
			return
		}
		if activity == nil {
			b.state.PendingDeleteID = 0
			b.saveState()
			b.send(ev.ChatID, fmt.Sprintf("Event ID %d was not found.", id))
			return
		}
		b.send(ev.ChatID, "Please reply yes or no. "+formatDeletePrompt(*activity))
	}
}

// allowedChannel applies the optional config pin.
func (b *Bot) allowedChannel(chatID string) bool {
	return b.cfg.Discord.ChannelID == "" || chatID == b.cfg.Discord.ChannelID
}
