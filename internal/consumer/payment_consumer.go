package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/orders"
	"github.com/segmentio/kafka-go"
)

// paymentEvent mirrors the payload shape the gateway bridge publishes
// to the payment-events topic.
type paymentEvent struct {
	GatewayOrderRef string `json:"gateway_order_ref"`
	Outcome         string `json:"outcome"`
	PaymentRef      string `json:"payment_reference"`
}

// Reconciler is the single entry point both inbound channels (this
// consumer and the HTTP webhook) converge on.
type Reconciler interface {
	ReconcilePayment(ctx context.Context, event domain.GatewayEvent) error
}

type Consumer struct {
	svc    Reconciler
	reader *kafka.Reader
}

func NewConsumer(svc Reconciler, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "payment-events",
		GroupID:  "storefront",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{svc, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	err := c.reader.Close()
	if err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("error reading message: %v\n", err)
		return
	}

	c.dispatch(ctx, m.Value)
}

// dispatch decodes one event payload and hands it to the reconciler.
// Bad payloads and unknown references are logged and dropped, never
// retried: the gateway redelivers anything that matters.
func (c *Consumer) dispatch(ctx context.Context, payload []byte) {
	var event paymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		fmt.Printf("error parsing payment event: %v\n", err)
		return
	}

	outcome, err := parseOutcome(event.Outcome)
	if err != nil {
		fmt.Printf("payment event for %q: %v\n", event.GatewayOrderRef, err)
		return
	}

	errReconcile := c.svc.ReconcilePayment(ctx, domain.GatewayEvent{
		GatewayOrderRef: event.GatewayOrderRef,
		Outcome:         outcome,
		PaymentRef:      event.PaymentRef,
	})
	if errReconcile != nil {
		if errors.Is(errReconcile, orders.ErrOrderNotFound) {
			fmt.Printf("payment event for unknown gateway ref %q, dropping\n", event.GatewayOrderRef)
			return
		}
		fmt.Printf("failed to reconcile payment for %q: %v\n", event.GatewayOrderRef, errReconcile)
	}
}

func parseOutcome(raw string) (domain.GatewayEventOutcome, error) {
	switch raw {
	case string(domain.GatewayOutcomeSuccess):
		return domain.GatewayOutcomeSuccess, nil
	case string(domain.GatewayOutcomeFailure):
		return domain.GatewayOutcomeFailure, nil
	default:
		return "", fmt.Errorf("unknown outcome %q", raw)
	}
}
