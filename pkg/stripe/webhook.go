package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance is the maximum accepted skew between the signed timestamp
// and the current clock. Anything older is treated as a replay.
const DefaultTolerance = 5 * time.Minute

// EventTypeCheckoutSessionCompleted is the only event type that triggers
// reconciliation; everything else is acknowledged without side effects.
const EventTypeCheckoutSessionCompleted = "checkout.session.completed"

// ErrSignature is returned when a webhook payload cannot be authenticated.
// Callers must not act on any part of the payload when they see it.
var ErrSignature = errors.New("webhook signature verification failed")

// Event is a signed gateway notification. Data.Object holds the
// event-type-specific payload, e.g. a CheckoutSession for
// checkout.session.completed.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ComputeSignature returns the hex HMAC-SHA256 over "<unix timestamp>.<payload>"
// using the webhook secret, Stripe's v1 signing scheme. Exported so tests and
// local tooling can produce valid signature headers.
func ComputeSignature(t time.Time, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(t.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignHeader renders a complete Stripe-Signature header value for the given
// payload, for use by tests.
func SignHeader(t time.Time, payload []byte, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), ComputeSignature(t, payload, secret))
}

// ConstructEvent verifies the signature header against the raw payload and, if
// authentic, decodes the event. Verification fails closed: a malformed header,
// a stale timestamp, or a mismatched signature all return ErrSignature and no
// event.
func ConstructEvent(payload []byte, sigHeader, secret string) (Event, error) {
	return ConstructEventWithTolerance(payload, sigHeader, secret, DefaultTolerance)
}

// ConstructEventWithTolerance is ConstructEvent with an explicit timestamp
// skew tolerance.
func ConstructEventWithTolerance(payload []byte, sigHeader, secret string, tolerance time.Duration) (Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return Event{}, err
	}

	if since := time.Since(time.Unix(timestamp, 0)); since > tolerance || since < -tolerance {
		return Event{}, fmt.Errorf("%w: timestamp outside tolerance", ErrSignature)
	}

	expected := ComputeSignature(time.Unix(timestamp, 0), payload, secret)
	matched := false
	for _, sig := range signatures {
		// hmac.Equal is constant-time.
		if hmac.Equal([]byte(sig), []byte(expected)) {
			matched = true
		}
	}
	if !matched {
		return Event{}, fmt.Errorf("%w: no matching v1 signature", ErrSignature)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode webhook event: %w", err)
	}
	return event, nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>[,v1=<hex>...]" into its
// timestamp and candidate signatures. Unknown schemes (v0) are ignored.
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrSignature)
	}

	var timestamp int64 = -1
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return 0, nil, fmt.Errorf("%w: malformed signature header", ErrSignature)
		}
		switch kv[0] {
		case "t":
			t, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrSignature)
			}
			timestamp = t
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: signature header missing t or v1", ErrSignature)
	}
	return timestamp, signatures, nil
}
