package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Payphone-Digital/contacts-api/pkg/mail"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeEmailConfirm = "email:confirm"

	maxRetry = 3
)

func NewConfirmEmailTask(c mail.Confirmation) (*asynq.Task, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailConfirm, payload, asynq.MaxRetry(maxRetry)), nil
}

// ConfirmEmailHandler delivers email:confirm tasks through a mail sender.
type ConfirmEmailHandler struct {
	sender mail.Sender
	logger *zap.Logger
}

func NewConfirmEmailHandler(sender mail.Sender, logger *zap.Logger) *ConfirmEmailHandler {
	return &ConfirmEmailHandler{sender: sender, logger: logger}
}

func (h *ConfirmEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var c mail.Confirmation
	if err := json.Unmarshal(t.Payload(), &c); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TypeEmailConfirm, err, asynq.SkipRetry)
	}

	h.logger.Debug("Processing confirmation email task", zap.String("to", c.To))
	return h.sender.SendConfirmation(ctx, c)
}
