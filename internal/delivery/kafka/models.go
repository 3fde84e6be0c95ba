package kafka

import (
	"errors"

	"github.com/azizikri/beat-market/internal/domain"
)

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

const (
	ErrCodeInvalidCode    = "INVALID_CODE"
	ErrCodeExpired        = "EXPIRED"
	ErrCodeNotYetValid    = "NOT_YET_VALID"
	ErrCodeUsageLimit     = "USAGE_LIMIT"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

type RequestPayload struct {
	SchemaVersion int    `json:"schema_version"`
	CorrelationID string `json:"correlation_id"`
	ReplyTo       string `json:"reply_to"`
	UserID        int64  `json:"user_id"`
	Code          string `json:"code"`
}

type ResponsePayload struct {
	SchemaVersion int                `json:"schema_version"`
	CorrelationID string             `json:"correlation_id"`
	Status        string             `json:"status"`
	ErrorCode     string             `json:"error_code,omitempty"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	Check         *domain.PromoCheck `json:"check,omitempty"`
	Grant         *domain.Grant      `json:"grant,omitempty"`
}

var businessErrors = []struct {
	err  error
	code string
}{
	{domain.ErrInvalidPromoCode, ErrCodeInvalidCode},
	{domain.ErrPromoExpired, ErrCodeExpired},
	{domain.ErrPromoNotYetValid, ErrCodeNotYetValid},
	{domain.ErrPromoUsageLimit, ErrCodeUsageLimit},
}

// errorCode returns "" for errors that are not promo rule rejections.
func errorCode(err error) string {
	for _, be := range businessErrors {
		if errors.Is(err, be.err) {
			return be.code
		}
	}
	return ""
}

func codeError(code, message string) error {
	for _, be := range businessErrors {
		if be.code == code {
			return be.err
		}
	}
	return errors.New(message)
}

func successResponse(correlationID string) *ResponsePayload {
	return &ResponsePayload{
		SchemaVersion: SchemaVersion,
		CorrelationID: correlationID,
		Status:        StatusSuccess,
	}
}

func errorResponse(correlationID, code, message string) *ResponsePayload {
	return &ResponsePayload{
		SchemaVersion: SchemaVersion,
		CorrelationID: correlationID,
		Status:        StatusError,
		ErrorCode:     code,
		ErrorMessage:  message,
	}
}
