package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/azizikri/beat-market/internal/config"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/usecase"
	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

var ErrRequestTimeout = errors.New("timeout waiting for response")

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Gateway sends promo requests over Kafka and waits for the reply on this
// instance's reply topic.
type Gateway struct {
	client      producer
	replyTo     string
	timeout     time.Duration
	pendingResp sync.Map
}

func NewGateway(cfg *config.Config, client *kgo.Client) *Gateway {
	return newGateway(client, ReplyTopic(cfg.KafkaInstanceID))
}

func newGateway(client producer, replyTo string) *Gateway {
	return &Gateway{
		client:  client,
		replyTo: replyTo,
		timeout: RequestTimeout,
	}
}

func (g *Gateway) ValidatePromo(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error) {
	resp, err := g.requestReply(ctx, TopicValidateRequest, userID, code)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, codeError(resp.ErrorCode, resp.ErrorMessage)
	}
	if resp.Check == nil {
		return nil, fmt.Errorf("validate reply %s carries no result", resp.CorrelationID)
	}
	return resp.Check, nil
}

func (g *Gateway) RedeemPromo(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
	resp, err := g.requestReply(ctx, TopicRedeemRequest, userID, code)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, codeError(resp.ErrorCode, resp.ErrorMessage)
	}
	if resp.Grant == nil {
		return nil, fmt.Errorf("redeem reply %s carries no grant", resp.CorrelationID)
	}
	return resp.Grant, nil
}

func (g *Gateway) requestReply(ctx context.Context, topic string, userID int64, code string) (*ResponsePayload, error) {
	code = domain.NormalizeCode(code)
	req := RequestPayload{
		SchemaVersion: SchemaVersion,
		CorrelationID: uuid.New().String(),
		ReplyTo:       g.replyTo,
		UserID:        userID,
		Code:          code,
	}

	respChan := make(chan *ResponsePayload, 1)
	g.pendingResp.Store(req.CorrelationID, respChan)
	defer g.pendingResp.Delete(req.CorrelationID)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	record := &kgo.Record{
		Topic: topic,
		Key:   recordKey(code, userID),
		Value: payload,
	}

	if err := g.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return nil, fmt.Errorf("produce %s: %w", topic, err)
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case resp := <-respChan:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrRequestTimeout
	}
}

func (g *Gateway) HandleResponse(payload []byte) {
	var resp ResponsePayload
	if err := json.Unmarshal(payload, &resp); err != nil {
		slog.Warn("failed to decode response payload", "error", err)
		return
	}

	if ch, ok := g.pendingResp.Load(resp.CorrelationID); ok {
		select {
		case ch.(chan *ResponsePayload) <- &resp:
		default:
			slog.Warn("duplicate response", "correlation_id", resp.CorrelationID)
		}
		return
	}

	slog.Debug("no pending response", "correlation_id", resp.CorrelationID)
}

// ConsumeReplies feeds records from the reply topic into HandleResponse until
// the client closes.
func (g *Gateway) ConsumeReplies(ctx context.Context, client *kgo.Client) {
	for {
		fetches := client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			g.HandleResponse(iter.Next().Value)
		}
	}
}

// recordKey keeps one user's requests for one code on a single partition.
func recordKey(code string, userID int64) []byte {
	return []byte(code + ":" + strconv.FormatInt(userID, 10))
}

var _ usecase.PromoGateway = (*Gateway)(nil)
