package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fooddash/internal/service"

	"github.com/sirupsen/logrus"
)

type orderEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	ActorRole   string    `json:"actor_role"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Notifier is the delivery end of the notification boundary: it consumes
// order events and hands them to whatever channel reaches the user. The
// channel here is the log; real transports plug in behind the same handler.
type Notifier struct{}

func New() *Notifier {
	return &Notifier{}
}

func (n *Notifier) HandleOrderEvent(ctx context.Context, payload []byte) error {
	var ev orderEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: %v", service.ErrDecode, err)
	}
	if ev.OrderID == "" || ev.Status == "" {
		return fmt.Errorf("%w: order event missing id or status", service.ErrValidation)
	}

	logrus.WithFields(logrus.Fields{
		"order":  ev.OrderID,
		"number": ev.OrderNumber,
		"status": ev.Status,
	}).Info("order notification dispatched")
	return nil
}
