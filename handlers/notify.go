package handlers

import (
	"context"
	"time"

	"ardu.app/feed/log"
	"ardu.app/feed/services"
)

const notifyTimeout = 10 * time.Second

// notify runs detached from the request, so callers start it with go.
func notify(n services.Notifier, userID int64, title, body string, data map[string]string) {
	if n == nil || userID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := n.Notify(ctx, userID, title, body, data); err != nil {
		log.Warn.Printf("notify user %d (%s) error: %v", userID, data["type"], err)
	}
}

func snippet(text string) string {
	r := []rune(text)
	if len(r) > 100 {
		return string(r[:97]) + "..."
	}
	return text
}
