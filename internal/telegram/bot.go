package telegram

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Bot ties the client, handler and transport together. Transport is long
// polling by default; when webhookURL is set the bot registers a webhook and
// expects updates through HandleWebhook instead.
type Bot struct {
	Client  *Client
	Handler *UpdateHandler

	webhookURL    string
	webhookSecret string
	poller        *Poller
}

func NewBotPolling(client *Client, handler *UpdateHandler, poller *Poller) *Bot {
	return &Bot{Client: client, Handler: handler, poller: poller}
}

func NewBotWebhook(client *Client, handler *UpdateHandler, webhookURL, webhookSecret string) *Bot {
	return &Bot{Client: client, Handler: handler, webhookURL: webhookURL, webhookSecret: webhookSecret}
}

func (b *Bot) Start() error {
	if b.webhookURL != "" {
		if err := b.Client.SetWebhook(b.webhookURL, b.webhookSecret); err != nil {
			return err
		}
		log.Printf("[bot] webhook registered: %s", b.webhookURL)
		return nil
	}

	// polling mode must not compete with a stale webhook
	b.Client.DeleteWebhook()
	b.poller.Start()
	return nil
}

func (b *Bot) Stop() {
	if b.poller != nil {
		b.poller.Stop()
	}
	if b.webhookURL != "" {
		b.Client.DeleteWebhook()
	}
	log.Println("[bot] stopped")
}

func (b *Bot) HandleWebhook(c *gin.Context) {
	if b.webhookSecret != "" {
		headerSecret := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
		if headerSecret != b.webhookSecret {
			c.Status(http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	go b.Handler.Handle(upd)

	c.Status(http.StatusOK)
}
