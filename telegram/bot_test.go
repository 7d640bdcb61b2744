package telegram

import (
	"sync"
	"testing"
)

// Subscriptions change from the updates pump while the event pump walks the
// chat list. Run both sides concurrently to prove the shared map is safe.
func TestSubscriptionsConcurrentWithChanges(t *testing.T) {
	bot := &TgBot{chats: make(map[int64]bool)}
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := int64(0); i < 500; i++ {
			bot.subscribe(i % 10)
			if i%3 == 0 {
				bot.unsubscribe(i % 10)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			for range bot.subscriptions() {
			}
			bot.subscriberCount()
		}
	}()

	wg.Wait()
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	bot := &TgBot{chats: make(map[int64]bool)}
	bot.subscribe(42)
	bot.subscribe(43)
	if bot.subscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", bot.subscriberCount())
	}
	bot.unsubscribe(42)
	ids := bot.subscriptions()
	if len(ids) != 1 || ids[0] != 43 {
		t.Errorf("unexpected subscriptions after removal: %v", ids)
	}
}

func TestSanitizeEscapesReservedChars(t *testing.T) {
	got := sanitize("a_b*c")
	if got != "a\\_b\\*c" {
		t.Errorf("unexpected sanitized text %q", got)
	}
}
