package bot

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordTransport adapts a Discord session to the Transport interface.
// Messages are plain channel messages; commands use the "!" prefix.
type DiscordTransport struct {
	session *discordgo.Session
	events  chan Event
}

func NewDiscordTransport(token string) (*DiscordTransport, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	t := &DiscordTransport{
		session: session,
		events:  make(chan Event, 16),
	}
	session.AddHandler(t.handleMessageCreate)
	return t, nil
}

// Open connects the session. Keeps retrying until successful, like a service
// coming up before its network is ready.
func (t *DiscordTransport) Open() error {
	for {
		log.Println("Testing Discord API connection...")
		if _, err := t.session.User("@me"); err != nil {
			log.Printf("Failed to connect to Discord API: %v. Retrying in 5 seconds...", err)
			time.Sleep(5 * time.Second)
			continue
		}
		break
	}

	for {
		if err := t.session.Open(); err != nil {
			log.Printf("Error opening Discord session: %v. Retrying in 5 seconds...", err)
			time.Sleep(5 * time.Second)
			continue
		}
		log.Printf("Session opened successfully (Session ID: %s)", t.session.State.SessionID)
		return nil
	}
}

func (t *DiscordTransport) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	select {
	case t.events <- ParseEvent(m.ChannelID, m.Content):
	default:
		log.Printf("Event buffer full; dropping message from channel %s", m.ChannelID)
	}
}

func (t *DiscordTransport) Send(chatID, text string) error {
	_, err := t.session.ChannelMessageSend(chatID, text)
	return err
}

func (t *DiscordTransport) Events() <-chan Event {
	return t.events
}

func (t *DiscordTransport) Close() error {
	log.Println("Closing Discord session...")
	return t.session.Close()
}
