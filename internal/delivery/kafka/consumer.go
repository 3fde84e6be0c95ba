package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/azizikri/beat-market/internal/usecase"
	"github.com/twmb/franz-go/pkg/kgo"
)

type Consumer struct {
	client  *kgo.Client
	out     producer
	service usecase.PromoGateway
	ready   chan struct{}
	now     func() time.Time
}

func NewConsumer(client *kgo.Client, service usecase.PromoGateway) *Consumer {
	c := newConsumer(client, service)
	c.client = client
	return c
}

func newConsumer(out producer, service usecase.PromoGateway) *Consumer {
	return &Consumer{
		out:     out,
		service: service,
		ready:   make(chan struct{}),
		now:     time.Now,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	close(c.ready)
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			slog.Error("consumer poll errors", "errors", errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			c.processRecord(ctx, iter.Next())
		}

		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			slog.Error("failed to commit records", "error", err)
		}
	}
}

// StartRetry moves records from the retry topics back to their request topic
// once their x-next-at time has passed.
func (c *Consumer) StartRetry(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()

			if nextAt, ok := retryNextAt(record); ok {
				if wait := nextAt.Sub(c.now()); wait > 0 {
					select {
					case <-time.After(wait):
					case <-ctx.Done():
						return
					}
				}
			}

			newRecord := &kgo.Record{
				Topic:   requestTopicFor(record.Topic),
				Key:     record.Key,
				Value:   record.Value,
				Headers: record.Headers,
			}
			if err := c.out.ProduceSync(ctx, newRecord).FirstErr(); err != nil {
				slog.Error("failed to requeue retry record", "topic", newRecord.Topic, "error", err)
			}
		}
		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			slog.Error("failed to commit retry records", "error", err)
		}
	}
}

func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	var req RequestPayload
	if err := json.Unmarshal(record.Value, &req); err != nil || req.CorrelationID == "" || req.UserID <= 0 {
		c.sendError(ctx, record, req, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	var resp *ResponsePayload
	var err error
	switch record.Topic {
	case TopicValidateRequest:
		resp, err = c.handleValidate(ctx, req)
	case TopicRedeemRequest:
		resp, err = c.handleRedeem(ctx, req)
	default:
		slog.Warn("record on unexpected topic", "topic", record.Topic)
		return
	}

	if err != nil {
		if code := errorCode(err); code != "" {
			c.sendResponse(ctx, req.ReplyTo, errorResponse(req.CorrelationID, code, err.Error()))
			return
		}
		c.retry(ctx, record, req, err)
		return
	}
	c.sendResponse(ctx, req.ReplyTo, resp)
}

func (c *Consumer) handleValidate(ctx context.Context, req RequestPayload) (*ResponsePayload, error) {
	check, err := c.service.ValidatePromo(ctx, req.UserID, req.Code)
	if err != nil {
		return nil, err
	}
	resp := successResponse(req.CorrelationID)
	resp.Check = check
	return resp, nil
}

func (c *Consumer) handleRedeem(ctx context.Context, req RequestPayload) (*ResponsePayload, error) {
	grant, err := c.service.RedeemPromo(ctx, req.UserID, req.Code)
	if err != nil {
		return nil, err
	}
	resp := successResponse(req.CorrelationID)
	resp.Grant = grant
	return resp, nil
}

// retry sends a failed record to its retry topic, or to the DLQ with an error
// reply once MaxAttempts is reached.
func (c *Consumer) retry(ctx context.Context, record *kgo.Record, req RequestPayload, cause error) {
	attempt := recordAttempt(record)
	if attempt >= MaxAttempts {
		slog.Error("promo request failed, giving up",
			"topic", record.Topic, "correlation_id", req.CorrelationID, "attempt", attempt, "error", cause)
		c.sendError(ctx, record, req, ErrCodeInternalError, cause.Error())
		return
	}

	nextAt := c.now().Add(time.Duration(attempt) * RetryBackoff)
	retryRecord := &kgo.Record{
		Topic: retryTopicFor(record.Topic),
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: RetryHeaderAttempt, Value: []byte(strconv.Itoa(attempt + 1))},
			{Key: RetryHeaderNextAt, Value: []byte(nextAt.UTC().Format(time.RFC3339Nano))},
		},
	}
	slog.Warn("promo request failed, scheduling retry",
		"topic", record.Topic, "correlation_id", req.CorrelationID, "attempt", attempt, "error", cause)
	if err := c.out.ProduceSync(ctx, retryRecord).FirstErr(); err != nil {
		slog.Error("failed to produce retry record", "topic", retryRecord.Topic, "error", err)
		c.sendError(ctx, record, req, ErrCodeInternalError, cause.Error())
	}
}

func (c *Consumer) sendResponse(ctx context.Context, topic string, resp *ResponsePayload) {
	if topic == "" {
		return
	}
	payload, _ := json.Marshal(resp)
	record := &kgo.Record{
		Topic: topic,
		Value: payload,
	}
	if err := c.out.ProduceSync(ctx, record).FirstErr(); err != nil {
		slog.Error("failed to send response", "topic", topic, "error", err)
	}
}

func (c *Consumer) sendError(ctx context.Context, record *kgo.Record, req RequestPayload, code, message string) {
	c.sendResponse(ctx, req.ReplyTo, errorResponse(req.CorrelationID, code, message))

	dlqRecord := &kgo.Record{
		Topic: record.Topic + TopicDLQSuffix,
		Key:   record.Key,
		Value: record.Value,
		Headers: append(record.Headers, kgo.RecordHeader{
			Key: ErrorHeaderKey, Value: []byte(message),
		}),
	}
	if err := c.out.ProduceSync(ctx, dlqRecord).FirstErr(); err != nil {
		slog.Error("failed to dead-letter record", "topic", dlqRecord.Topic, "error", err)
	}
}

func retryNextAt(record *kgo.Record) (time.Time, bool) {
	value, ok := header(record, RetryHeaderNextAt)
	if !ok {
		return time.Time{}, false
	}
	nextAt, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return nextAt, true
}

// recordAttempt is 1 for a first delivery.
func recordAttempt(record *kgo.Record) int {
	value, ok := header(record, RetryHeaderAttempt)
	if !ok {
		return 1
	}
	attempt, err := strconv.Atoi(value)
	if err != nil || attempt < 1 {
		return 1
	}
	return attempt
}

func header(record *kgo.Record, key string) (string, bool) {
	for _, h := range record.Headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}

func retryTopicFor(requestTopic string) string {
	return strings.TrimSuffix(requestTopic, TopicRequestSuffix) + TopicRetrySuffix
}

func requestTopicFor(topic string) string {
	return strings.TrimSuffix(topic, TopicRetrySuffix) + TopicRequestSuffix
}
