package ws

import (
	"context"
	"encoding/json"

	"helperhub/internal/domain/request"
)

// Notifier pushes request events to the counterparty's open sockets.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Notify(_ context.Context, ev request.Event) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		n.hub.logf("WS marshal error | type=%s error=%v", ev.Type, err)
		return
	}
	n.hub.SendTo(ev.Recipient(), b)
}
