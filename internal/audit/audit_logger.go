package audit

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Reference string            `json:"reference"`
	AccountID int               `json:"account_id"`
	ActorID   int               `json:"actor_id"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    string            `json:"status"`
	Details   map[string]string `json:"details,omitempty"`
}

// Logger writes one structured AUDIT entry per balance-affecting event.
type Logger struct {
	log *zap.Logger
}

func NewLogger(base *zap.Logger) *Logger {
	return &Logger{log: base.Named("audit")}
}

func (a *Logger) LogMovement(eventType, reference string, accountID, actorID int, amount decimal.Decimal, details map[string]string) {
	a.write(Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Reference: reference,
		AccountID: accountID,
		ActorID:   actorID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   details,
	})
}

func (a *Logger) LogFailure(eventType string, accountID, actorID int, amount decimal.Decimal, err error) {
	a.write(Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		AccountID: accountID,
		ActorID:   actorID,
		Amount:    amount,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) write(e Event) {
	fields := []zap.Field{
		zap.Time("timestamp", e.Timestamp),
		zap.String("event_type", e.EventType),
		zap.Int("account_id", e.AccountID),
		zap.Int("actor_id", e.ActorID),
		zap.String("amount", e.Amount.StringFixed(2)),
		zap.String("status", e.Status),
	}
	if e.Reference != "" {
		fields = append(fields, zap.String("reference", e.Reference))
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}
	a.log.Info("AUDIT", fields...)
}
