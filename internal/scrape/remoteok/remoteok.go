package remoteok

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"jobfeed/internal/domain"
	"jobfeed/internal/errors"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://remoteok.com/api"
	DefaultTimeout  = 10 * time.Second
)

type Config struct {
	Endpoint  string
	Timeout   time.Duration
	UserAgent string
}

type Scraper struct {
	cfg    Config
	hc     *http.Client
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Scraper {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "jobfeed/1.0 (+local)"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		cfg:    cfg,
		hc:     &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (s *Scraper) Name() string { return "remoteok" }

// Fetch issues one GET against the endpoint and returns the whole array,
// metadata element included.
func (s *Scraper) Fetch(ctx context.Context) (domain.RawCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Endpoint, nil)
	if err != nil {
		return nil, errors.Transport("build request", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := s.hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Timeout(fmt.Sprintf("no response within %s", s.cfg.Timeout), err)
		}
		return nil, errors.Transport("remoteok get", err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			s.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		s.logger.Warn("unexpected status",
			zap.Int("status_code", res.StatusCode),
			zap.String("body", strings.TrimSpace(string(b))))
		return nil, errors.HTTP(res.StatusCode, "remoteok status "+res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Timeout("reading body", err)
		}
		return nil, errors.Transport("reading body", err)
	}

	raw, err := decode(body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched feed",
		zap.String("endpoint", s.cfg.Endpoint),
		zap.Int("elements", len(raw)),
		zap.Duration("took", time.Since(start)))
	return raw, nil
}

func decode(body []byte) (domain.RawCollection, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, errors.Malformed("body is not valid JSON", nil)
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.Malformed("top level is not an array", nil)
	}

	var raw domain.RawCollection
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Malformed("remoteok decode", err)
	}
	return raw, nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}
