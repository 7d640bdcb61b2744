package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"ocpinode/event"
	"ocpinode/ocpi"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// TgBot pushes alerts about failing exchanges to subscribed chats. Chats from
// the configuration are always subscribed; others join with /start.
type TgBot struct {
	api *tgbotapi.BotAPI
	// chats is written by the updates pump and read by the event pump
	mu    sync.Mutex
	chats map[int64]bool
	event chan MessageContent
	send  chan MessageContent
}

type MessageContent struct {
	ChatID int64
	Text   string
}

func NewBot(apiKey string, chatIds []int64) (*TgBot, error) {
	tgBot := &TgBot{
		chats: make(map[int64]bool),
		event: make(chan MessageContent, 100),
		send:  make(chan MessageContent, 100),
	}
	for _, id := range chatIds {
		tgBot.chats[id] = true
	}
	api, err := tgbotapi.NewBotAPI(apiKey)
	if err != nil {
		return nil, err
	}
	tgBot.api = api
	return tgBot, nil
}

func (b *TgBot) Start() {
	go b.sendPump()
	go b.eventPump()
	go b.updatesPump()
}

// Subscriber converts failing exchanges to alerts: degraded responses and
// server errors are pushed, everything else is ignored.
func (b *TgBot) Subscriber() event.Subscriber {
	return func(_ context.Context, exchange *event.Exchange) (interface{}, error) {
		response := exchange.Response
		if response == nil {
			return nil, nil
		}
		if !ocpi.IsServerErrorCode(response.StatusCode) && response.HTTPStatus != http.StatusInternalServerError {
			return nil, nil
		}
		msg := fmt.Sprintf("*OCPI failure* `%v`\n", response.StatusCode)
		if exchange.Request != nil {
			msg += fmt.Sprintf("%v %v\n", exchange.Request.Method, sanitize(exchange.Request.Path))
		}
		if response.StatusMessage != "" {
			msg += fmt.Sprintf("%v\n", sanitize(response.StatusMessage))
		}
		b.event <- MessageContent{Text: msg}
		return nil, nil
	}
}

// Start listening for updates
func (b *TgBot) updatesPump() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		log.Printf("bot: error getting updates: %v", err)
		return
	}
	for update := range updates {
		if update.Message == nil {
			continue
		}
		if !update.Message.IsCommand() {
			continue
		}
		switch update.Message.Command() {
		case "start":
			b.subscribe(update.Message.Chat.ID)
			msg := fmt.Sprintf("Hello *%v*, you are now subscribed to alerts", update.Message.From.UserName)
			b.send <- MessageContent{ChatID: update.Message.Chat.ID, Text: msg}
		case "stop":
			b.unsubscribe(update.Message.Chat.ID)
			b.send <- MessageContent{ChatID: update.Message.Chat.ID, Text: "Your subscription has been removed"}
		case "status":
			msg := fmt.Sprintf("Alert subscriptions: %v", b.subscriberCount())
			b.send <- MessageContent{ChatID: update.Message.Chat.ID, Text: msg}
		}
	}
}

func (b *TgBot) subscribe(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats[id] = true
}

func (b *TgBot) unsubscribe(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.chats, id)
}

func (b *TgBot) subscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chats)
}

// subscriptions snapshots the chat ids so sending does not hold the lock
func (b *TgBot) subscriptions() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		ids = append(ids, id)
	}
	return ids
}

// eventPump sending alerts to all subscribed chats
func (b *TgBot) eventPump() {
	for {
		if content, ok := <-b.event; ok {
			for _, id := range b.subscriptions() {
				b.sendMessage(id, content.Text)
			}
		}
	}
}

// sendPump sending messages to single chats
func (b *TgBot) sendPump() {
	for {
		if content, ok := <-b.send; ok {
			b.sendMessage(content.ChatID, content.Text)
		}
	}
}

// sendMessage common routine to send a message via bot API
func (b *TgBot) sendMessage(id int64, text string) {
	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = "MarkdownV2"
	_, err := b.api.Send(msg)
	if err != nil {
		// maybe error was while parsing, so we can send a message about this error
		msg = tgbotapi.NewMessage(id, fmt.Sprintf("Error: %v", err))
		_, err = b.api.Send(msg)
		if err != nil {
			log.Printf("bot: error sending message: %v", err)
		}
	}
}

func sanitize(input string) string {
	reservedChars := "\\`*_{}[]()#+-.!|"
	sanitized := ""
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sanitized += "\\" + string(char)
		} else {
			sanitized += string(char)
		}
	}
	return sanitized
}
