package kafka

import "time"

const (
	TopicValidateRequest = "promo.validate.req"
	TopicRedeemRequest   = "promo.redeem.req"
	TopicValidateRetry   = "promo.validate.retry"
	TopicRedeemRetry     = "promo.redeem.retry"
	TopicReplyPrefix     = "promo.reply."
	TopicRequestSuffix   = ".req"
	TopicRetrySuffix     = ".retry"
	TopicDLQSuffix       = ".dlq"

	RequestTimeout = 3 * time.Second

	// MaxAttempts counts the first delivery.
	MaxAttempts  = 3
	RetryBackoff = 500 * time.Millisecond

	RetryHeaderNextAt  = "x-next-at"
	RetryHeaderAttempt = "x-attempt"
	ErrorHeaderKey     = "x-error"

	SchemaVersion = 1
)
