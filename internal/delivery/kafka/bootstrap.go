package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/azizikri/beat-market/internal/config"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

func ReplyTopic(instanceID string) string {
	return TopicReplyPrefix + instanceID
}

func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config) error {
	adm := kadm.NewClient(client)

	topics := []string{
		TopicValidateRequest,
		TopicRedeemRequest,
		TopicValidateRetry,
		TopicRedeemRetry,
		TopicValidateRequest + TopicDLQSuffix,
		TopicRedeemRequest + TopicDLQSuffix,
		ReplyTopic(cfg.KafkaInstanceID),
	}

	partitions := cfg.TopicPartitions()
	retryPartitions := cfg.RetryPartitions()
	replicationFactor := cfg.ReplicationFactor()

	for _, topic := range topics {
		p := partitions
		if strings.HasSuffix(topic, TopicRetrySuffix) || strings.HasSuffix(topic, TopicDLQSuffix) {
			p = retryPartitions
		}

		resp, err := adm.CreateTopics(ctx, int32(p), replicationFactor, nil, topic)
		if err != nil {
			return fmt.Errorf("failed to create topic %s: %w", topic, err)
		}
		for _, detail := range resp {
			if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
				return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
			}
		}
	}

	slog.Info("kafka topics ensured", "count", len(topics))
	return nil
}
