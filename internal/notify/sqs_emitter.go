package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSEmitter publishes intents as JSON messages on the intent queue, where
// the delivery workers (in-app store, transactional sender) consume them.
type SQSEmitter struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSEmitter creates an emitter for the given queue. Returns nil when the
// queue URL is empty so callers can fall back to the log emitter.
func NewSQSEmitter(client *sqs.Client, queueURL string) *SQSEmitter {
	if client == nil || queueURL == "" {
		return nil
	}
	return &SQSEmitter{client: client, queueURL: queueURL}
}

// Emit sends one intent message.
func (e *SQSEmitter) Emit(ctx context.Context, intent Intent) error {
	body, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("notify: marshal intent: %w", err)
	}
	_, err = e.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(e.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("notify: send intent: %w", err)
	}
	return nil
}

var _ Emitter = (*SQSEmitter)(nil)
