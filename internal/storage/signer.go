package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/azizikri/beat-market/internal/domain"
)

const SignedPathPrefix = "/files/signed/"

// Signer issues and verifies time-limited URLs for objects.
type Signer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewSigner(secret, baseURL string, ttl time.Duration) *Signer {
	return &Signer{
		secret:  []byte(secret),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

func (s *Signer) Sign(loc Location) domain.SignedURL {
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	expires := strconv.FormatInt(expiresAt.Unix(), 10)

	segments := strings.Split(loc.Key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("sig", s.signature(loc.Bucket.Name, loc.Key, expires))

	return domain.SignedURL{
		URL:       s.baseURL + SignedPathPrefix + loc.Bucket.Name + "/" + strings.Join(segments, "/") + "?" + q.Encode(),
		ExpiresAt: expiresAt,
	}
}

func (s *Signer) Verify(bucket, key, expires, sig string) error {
	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	want := s.signature(bucket, key, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return domain.ErrInvalidSignature
	}
	if s.now().After(time.Unix(unix, 0)) {
		return domain.ErrSignatureExpired
	}
	return nil
}

func (s *Signer) signature(bucket, key, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(bucket + "/" + key + ":" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}
