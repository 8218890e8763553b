// Package analysis is the boundary between callers and the threat engine.
// It validates and bounds input, parses raw messages and wraps engine
// results into reports.
package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmerrifield20/phishguard/internal/mailparse"
	"github.com/jmerrifield20/phishguard/internal/threat"
	"go.uber.org/zap"
)

// ErrInvalidInput is returned when the text is empty after trimming.
var ErrInvalidInput = errors.New("please enter email content to analyze")

// ErrInputTooLarge is returned when the text exceeds Config.MaxInputBytes.
var ErrInputTooLarge = errors.New("email content too large")

// ErrMalformedMessage is returned when a raw message cannot be parsed.
var ErrMalformedMessage = errors.New("malformed email message")

// Config bounds the input accepted by the service.
type Config struct {
	MaxInputBytes  int // 0 = unlimited
	LongInputChars int // character count above which Report.LongInput is set
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxInputBytes:  1 << 20,
		LongInputChars: 10000,
	}
}

// Report is one analysis as returned to callers.
type Report struct {
	RequestID string `json:"request_id"`
	threat.Result
	Label      string `json:"label"`
	Characters int    `json:"characters"`
	LongInput  bool   `json:"long_input"`

	// Set only for raw message analysis.
	Subject string `json:"subject,omitempty"`
	From    string `json:"from,omitempty"`
}

// Service runs analyses against a Scorer.
type Service struct {
	scorer threat.Scorer
	cfg    Config
	logger *zap.Logger
}

// NewService creates a Service. A nil scorer selects the default rule catalog.
func NewService(scorer threat.Scorer, cfg Config, logger *zap.Logger) *Service {
	if scorer == nil {
		scorer = threat.NewRuleBasedScorer()
	}
	return &Service{scorer: scorer, cfg: cfg, logger: logger}
}

// Analyze validates text and scores it.
func (s *Service) Analyze(ctx context.Context, text string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	if s.cfg.MaxInputBytes > 0 && len(text) > s.cfg.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(text), s.cfg.MaxInputBytes)
	}

	result := s.scorer.Analyze(text)
	chars := utf8.RuneCountInString(text)

	report := &Report{
		RequestID:  uuid.NewString(),
		Result:     result,
		Label:      result.Tier.Label(),
		Characters: chars,
		LongInput:  s.cfg.LongInputChars > 0 && chars > s.cfg.LongInputChars,
	}

	s.logger.Debug("analysis complete",
		zap.String("request_id", report.RequestID),
		zap.String("risk_level", string(result.Tier)),
		zap.Int("score", result.Score),
		zap.Int("indicators", len(result.Indicators)),
		zap.Int("characters", chars),
	)
	return report, nil
}

// AnalyzeMessage parses a raw RFC 5322 message and scores its subject and body.
func (s *Service) AnalyzeMessage(ctx context.Context, r io.Reader) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.cfg.MaxInputBytes > 0 {
		// One extra byte distinguishes "at limit" from "over limit".
		r = io.LimitReader(r, int64(s.cfg.MaxInputBytes)+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	if s.cfg.MaxInputBytes > 0 && len(raw) > s.cfg.MaxInputBytes {
		return nil, fmt.Errorf("%w: message exceeds limit of %d bytes", ErrInputTooLarge, s.cfg.MaxInputBytes)
	}

	msg, err := mailparse.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	report, err := s.Analyze(ctx, msg.AnalysisText())
	if err != nil {
		return nil, err
	}
	report.Subject = msg.Subject
	report.From = msg.From
	return report, nil
}
