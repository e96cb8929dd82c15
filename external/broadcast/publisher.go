// Package broadcast posts accepted officiating decisions to the score relay.
// The relay forwards them to scoreboard clients; this side only guarantees
// the hand-off, never delivery.
package broadcast

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/courtside/matchcontrol/internal/domain/injury"
	"github.com/courtside/matchcontrol/internal/domain/sanction"
	"github.com/courtside/matchcontrol/internal/platform/resilience"
)

var errRelayTransient = crerr.New("relay transient failure")

type Config struct {
	BaseURL          string
	Token            string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

type Publisher struct {
	client           *http.Client
	baseURL          string
	token            string
	retries          int
	internalJobToken string
	logger           *slog.Logger
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
}

func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled:   breakerCfg.Enabled,
	}
}

// PublishInjury hands a confirmed injury and its forced substitution to the
// relay. Satisfies the injury sink the use-case layer fans out to.
func (p *Publisher) PublishInjury(ctx context.Context, item injury.Injury) error {
	return p.Publish(ctx, "/relay/injuries", item, item.ID)
}

// PublishSanction hands an accepted sanction to the relay.
func (p *Publisher) PublishSanction(ctx context.Context, item sanction.Sanction) error {
	return p.Publish(ctx, "/relay/sanctions", item, item.ID)
}

func (p *Publisher) Publish(ctx context.Context, path string, payload any, deduplicationID string) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "relay circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("score relay is temporarily unavailable: %w", err)
		}
	}

	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if strings.TrimSpace(path) == "/" {
		return crerr.New("relay path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid BROADCAST_BASE_URL")
	}

	publishURL := baseURL + path
	bodyPayload := payload
	if bodyPayload == nil {
		bodyPayload = map[string]any{}
	}

	body, err := sonic.Marshal(bodyPayload)
	if err != nil {
		return crerr.Wrap(err, "marshal relay payload")
	}
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildRelayCurlPreview(publishURL, path, p.retries, deduplicationID, bodyText, p.internalJobToken != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("relay.publish_url", publishURL),
			attribute.String("relay.path", path),
			attribute.String("relay.request_body", bodyText),
			attribute.String("relay.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "relay publish request", "path", path, "publish_url", publishURL, "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create relay request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	if p.retries > 0 {
		req.Header.Set("X-Relay-Retries", strconv.Itoa(p.retries))
	}
	if strings.TrimSpace(deduplicationID) != "" {
		req.Header.Set("X-Relay-Deduplication-Id", strings.TrimSpace(deduplicationID))
	}
	if p.internalJobToken != "" {
		req.Header.Set("X-Internal-Job-Token", p.internalJobToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: publish relay event publish_url=%s: %v", errRelayTransient, publishURL, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRelayRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf(
				"%w: publish relay event status=%d publish_url=%s body=%s",
				errRelayTransient,
				resp.StatusCode,
				publishURL,
				strings.TrimSpace(string(raw)),
			)
			p.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf(
			"publish relay event status=%d publish_url=%s body=%s",
			resp.StatusCode,
			publishURL,
			strings.TrimSpace(string(raw)),
		)
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "relay event published", "path", path, "deduplication_id", deduplicationID)
	p.recordCircuitResult(nil)
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildRelayCurlPreview(
	publishURL string,
	path string,
	retries int,
	deduplicationID string,
	body string,
	withInternalToken bool,
) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	appendFlagHeader("Authorization: Bearer ***")
	appendFlagHeader("Content-Type: application/json")
	if retries > 0 {
		appendFlagHeader("X-Relay-Retries: " + strconv.Itoa(retries))
	}
	if strings.TrimSpace(deduplicationID) != "" {
		appendFlagHeader("X-Relay-Deduplication-Id: " + strings.TrimSpace(deduplicationID))
	}
	if withInternalToken {
		appendFlagHeader("X-Internal-Job-Token: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	appendPart("#")
	appendPart(shellQuote("path=" + path))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *Publisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errRelayTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isRelayRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
