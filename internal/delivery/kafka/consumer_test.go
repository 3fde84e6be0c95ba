package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/azizikri/beat-market/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

type recordingProducer struct {
	mu      sync.Mutex
	records []*kgo.Record
	err     error
	onSend  func(r *kgo.Record)
}

func (p *recordingProducer) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.mu.Lock()
	p.records = append(p.records, rs...)
	p.mu.Unlock()

	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if p.onSend != nil && p.err == nil {
			p.onSend(r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func (p *recordingProducer) byTopic(topic string) []*kgo.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*kgo.Record
	for _, r := range p.records {
		if r.Topic == topic {
			out = append(out, r)
		}
	}
	return out
}

type mockPromoService struct {
	validateFn func(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error)
	redeemFn   func(ctx context.Context, userID int64, code string) (*domain.Grant, error)
}

func (m *mockPromoService) ValidatePromo(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, userID, code)
	}
	return &domain.PromoCheck{}, nil
}

func (m *mockPromoService) RedeemPromo(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, userID, code)
	}
	return &domain.Grant{}, nil
}

const testReplyTopic = "promo.reply.test-instance"

func requestRecord(t *testing.T, topic string, req RequestPayload, headers ...kgo.RecordHeader) *kgo.Record {
	t.Helper()
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return &kgo.Record{Topic: topic, Key: recordKey(req.Code, req.UserID), Value: payload, Headers: headers}
}

func decodeReply(t *testing.T, r *kgo.Record) ResponsePayload {
	t.Helper()
	var resp ResponsePayload
	if err := json.Unmarshal(r.Value, &resp); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return resp
}

func TestProcessRecord_RedeemSuccess(t *testing.T) {
	out := &recordingProducer{}
	svc := &mockPromoService{
		redeemFn: func(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
			return &domain.Grant{PurchaseID: 5, AssetID: 42, AssetType: domain.AssetBeat}, nil
		},
	}
	c := newConsumer(out, svc)

	c.processRecord(context.Background(), requestRecord(t, TopicRedeemRequest, RequestPayload{
		SchemaVersion: SchemaVersion, CorrelationID: "c1", ReplyTo: testReplyTopic, UserID: 7, Code: "WELCOME10",
	}))

	replies := out.byTopic(testReplyTopic)
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	resp := decodeReply(t, replies[0])
	if resp.Status != StatusSuccess || resp.CorrelationID != "c1" {
		t.Fatalf("unexpected reply %+v", resp)
	}
	if resp.Grant == nil || resp.Grant.AssetID != 42 || resp.Grant.PurchaseID != 5 {
		t.Fatalf("unexpected grant %+v", resp.Grant)
	}
}

func TestProcessRecord_BusinessErrorReplies(t *testing.T) {
	out := &recordingProducer{}
	svc := &mockPromoService{
		validateFn: func(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error) {
			return nil, domain.ErrPromoExpired
		},
	}
	c := newConsumer(out, svc)

	c.processRecord(context.Background(), requestRecord(t, TopicValidateRequest, RequestPayload{
		SchemaVersion: SchemaVersion, CorrelationID: "c2", ReplyTo: testReplyTopic, UserID: 7, Code: "OLD",
	}))

	replies := out.byTopic(testReplyTopic)
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	resp := decodeReply(t, replies[0])
	if resp.Status != StatusError || resp.ErrorCode != ErrCodeExpired {
		t.Fatalf("expected EXPIRED, got %+v", resp)
	}
	if n := len(out.byTopic(TopicValidateRetry)); n != 0 {
		t.Fatalf("business errors must not be retried, got %d retries", n)
	}
}

func TestProcessRecord_InternalErrorRetries(t *testing.T) {
	out := &recordingProducer{}
	svc := &mockPromoService{
		redeemFn: func(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
			return nil, errors.New("connection refused")
		},
	}
	c := newConsumer(out, svc)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.processRecord(context.Background(), requestRecord(t, TopicRedeemRequest, RequestPayload{
		SchemaVersion: SchemaVersion, CorrelationID: "c3", ReplyTo: testReplyTopic, UserID: 7, Code: "WELCOME10",
	}))

	if n := len(out.byTopic(testReplyTopic)); n != 0 {
		t.Fatalf("expected no reply before retries run out, got %d", n)
	}
	retries := out.byTopic(TopicRedeemRetry)
	if len(retries) != 1 {
		t.Fatalf("expected 1 retry record, got %d", len(retries))
	}
	if got := recordAttempt(retries[0]); got != 2 {
		t.Fatalf("expected attempt 2, got %d", got)
	}
	nextAt, ok := retryNextAt(retries[0])
	if !ok || !nextAt.Equal(now.Add(RetryBackoff)) {
		t.Fatalf("unexpected next-at %v", nextAt)
	}
}

func TestProcessRecord_DeadLettersAfterMaxAttempts(t *testing.T) {
	out := &recordingProducer{}
	svc := &mockPromoService{
		redeemFn: func(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
			return nil, errors.New("connection refused")
		},
	}
	c := newConsumer(out, svc)

	c.processRecord(context.Background(), requestRecord(t, TopicRedeemRequest, RequestPayload{
		SchemaVersion: SchemaVersion, CorrelationID: "c4", ReplyTo: testReplyTopic, UserID: 7, Code: "WELCOME10",
	}, kgo.RecordHeader{Key: RetryHeaderAttempt, Value: []byte("3")}))

	if n := len(out.byTopic(TopicRedeemRetry)); n != 0 {
		t.Fatalf("expected no further retry, got %d", n)
	}
	dlq := out.byTopic(TopicRedeemRequest + TopicDLQSuffix)
	if len(dlq) != 1 {
		t.Fatalf("expected 1 dlq record, got %d", len(dlq))
	}
	if msg, _ := header(dlq[0], ErrorHeaderKey); msg != "connection refused" {
		t.Fatalf("unexpected error header %q", msg)
	}
	replies := out.byTopic(testReplyTopic)
	if len(replies) != 1 || decodeReply(t, replies[0]).ErrorCode != ErrCodeInternalError {
		t.Fatalf("expected INTERNAL_ERROR reply, got %d replies", len(replies))
	}
}

func TestProcessRecord_MalformedPayload(t *testing.T) {
	out := &recordingProducer{}
	c := newConsumer(out, &mockPromoService{})

	c.processRecord(context.Background(), &kgo.Record{Topic: TopicValidateRequest, Value: []byte("{not json")})

	if n := len(out.byTopic(TopicValidateRequest + TopicDLQSuffix)); n != 1 {
		t.Fatalf("expected 1 dlq record, got %d", n)
	}
	if n := len(out.byTopic(TopicValidateRetry)); n != 0 {
		t.Fatalf("malformed payloads must not be retried, got %d", n)
	}
}

func TestTopicMapping(t *testing.T) {
	if got := retryTopicFor(TopicRedeemRequest); got != TopicRedeemRetry {
		t.Fatalf("expected %s, got %s", TopicRedeemRetry, got)
	}
	if got := requestTopicFor(TopicValidateRetry); got != TopicValidateRequest {
		t.Fatalf("expected %s, got %s", TopicValidateRequest, got)
	}
	if got := string(recordKey("WELCOME10", 7)); got != "WELCOME10:7" {
		t.Fatalf("unexpected key %s", got)
	}
}
