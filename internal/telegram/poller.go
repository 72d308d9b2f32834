package telegram

import (
	"log"
	"time"
)

// Poller drives the bot with getUpdates long polling. Used when no webhook
// base URL is configured.
type Poller struct {
	client  *Client
	handler *UpdateHandler
	timeout time.Duration

	stopCh chan struct{}
}

func NewPoller(client *Client, handler *UpdateHandler, timeout time.Duration) *Poller {
	return &Poller{
		client:  client,
		handler: handler,
		timeout: timeout,
		stopCh:  make(chan struct{}),
	}
}

func (p *Poller) Start() {
	go p.loop()
	log.Println("[poller] started")
}

func (p *Poller) Stop() {
	close(p.stopCh)
	log.Println("[poller] stopped")
}

func (p *Poller) loop() {
	var offset int64
	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		updates, err := p.client.GetUpdates(offset, p.timeout)
		if err != nil {
			log.Printf("[poller] getUpdates: %v", err)
			select {
			case <-p.stopCh:
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			p.handler.Handle(upd)
		}
	}
}
