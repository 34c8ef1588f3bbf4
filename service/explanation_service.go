package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fund-projection/domain"
)

const defaultChatURL = "https://api.openai.com/v1/chat/completions"

type ExplanationOptions struct {
	APIKey  string
	URL     string
	Model   string
	Timeout time.Duration
}

// ExplanationService writes a short narrative for a projection. Without an
// API key, or when the API fails, it falls back to a fixed template.
type ExplanationService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	log        logrus.FieldLogger
}

type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewExplanationService(opts ExplanationOptions, log logrus.FieldLogger) *ExplanationService {
	if opts.URL == "" {
		opts.URL = defaultChatURL
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &ExplanationService{
		apiKey:  opts.APIKey,
		apiURL:  opts.URL,
		model:   opts.Model,
		enabled: opts.APIKey != "",
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		log: log,
	}
}

// Enabled reports whether a language model is configured.
func (s *ExplanationService) Enabled() bool { return s.enabled }

// ExplainProjection describes a single projection.
func (s *ExplanationService) ExplainProjection(
	ctx context.Context,
	params domain.SimulationParameters,
	result domain.SimulationResult,
) string {
	final, ok := result.Final()
	if !ok {
		return ""
	}
	if !s.enabled {
		return s.fallbackProjection(params, result, final)
	}

	prompt := fmt.Sprintf(`Explain this savings projection to a non-expert in 3-4 sentences.

PLAN:
- Monthly deposit: %.2f
- Duration: %d years (%d months)
- Annual interest rate: %.2f%%
- Market variance: %s

OUTCOME:
- Total deposited: %.2f
- Final fund value: %.2f
- Total interest earned: %.2f
- Average annual growth rate: %.2f%%

SCRIPTED MARKET EVENTS FOR THIS VARIANCE:
%s
Mention how the scripted market events shaped the result and be realistic, not promotional.`,
		params.MonthlyDeposit, params.InvestmentPeriodYears, params.TotalMonths(),
		params.AnnualInterestRatePercent, params.VarianceTier,
		final.AccumulatedDeposits, final.FundValue,
		result.TotalInterestEarned, result.AverageAnnualGrowthRate,
		formatShockWindows(params.VarianceTier, params.TotalMonths()))

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Warn("explanation service failed, using fallback")
		return s.fallbackProjection(params, result, final)
	}
	return explanation
}

// ExplainComparison describes a tier comparison.
func (s *ExplanationService) ExplainComparison(ctx context.Context, comparison domain.TierComparison) string {
	if len(comparison.Outcomes) == 0 {
		return ""
	}
	if !s.enabled {
		return s.fallbackComparison(comparison)
	}

	var outcomes strings.Builder
	for _, o := range comparison.Outcomes {
		fmt.Fprintf(&outcomes, "- %s: final %.2f, interest %.2f, growth %.2f%%/yr, worst month %d (%.2f%%)\n",
			o.Tier, o.FinalFundValue, o.TotalInterestEarned, o.AverageAnnualGrowthRate,
			o.WorstMonth, o.WorstMonthGrowthPercent)
	}

	prompt := fmt.Sprintf(`Compare how one savings plan fares under three market variance settings in 3-4 sentences.

PLAN: %.2f a month for %d years at %.2f%% a year.

OUTCOMES:
%s
The spread between the best and worst final values is %.2f. Explain what drives the difference.`,
		comparison.MonthlyDeposit, comparison.InvestmentPeriodYears,
		comparison.AnnualInterestRatePercent, outcomes.String(), comparison.FinalValueSpread)

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Warn("explanation service failed, using fallback")
		return s.fallbackComparison(comparison)
	}
	return explanation
}

func (s *ExplanationService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are a plain-spoken savings educator. You explain compound interest projections clearly and never give personalised investment advice. The market events in the projections are scripted illustrations, not forecasts.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (s *ExplanationService) fallbackProjection(
	params domain.SimulationParameters,
	result domain.SimulationResult,
	final domain.MonthlyRecord,
) string {
	text := fmt.Sprintf("Depositing %.2f a month for %d years at %.2f%% a year builds %.2f in deposits into a fund worth %.2f, earning %.2f in interest (about %.2f%% a year).",
		params.MonthlyDeposit, params.InvestmentPeriodYears, params.AnnualInterestRatePercent,
		final.AccumulatedDeposits, final.FundValue, result.TotalInterestEarned, result.AverageAnnualGrowthRate)

	switch {
	case params.TotalMonths() < 24:
		return text + " The plan ends before any scripted market event begins."
	case params.TotalMonths() < 48:
		return text + fmt.Sprintf(" With %s variance the tariff dip from month 24 trims growth, but the plan ends before the crash scenario.", params.VarianceTier)
	case params.TotalMonths() < 49:
		return text + fmt.Sprintf(" With %s variance the fund absorbs a tariff dip from month 24 and the plan closes on the crash month, before any recovery.", params.VarianceTier)
	default:
		return text + fmt.Sprintf(" With %s variance the fund absorbs a tariff dip from month 24 and a sharp crash at month 48 followed by a partial recovery.", params.VarianceTier)
	}
}

func (s *ExplanationService) fallbackComparison(comparison domain.TierComparison) string {
	return fmt.Sprintf("Saving %.2f a month for %d years at %.2f%% a year, the %s variance setting ends highest and the gap between the best and worst settings is %.2f. Harsher settings deepen the scripted tariff and crash drawdowns, which later deposits and recovery months only partly make up.",
		comparison.MonthlyDeposit, comparison.InvestmentPeriodYears, comparison.AnnualInterestRatePercent,
		comparison.BestTier, comparison.FinalValueSpread)
}

// formatShockWindows lists the tier's windows that start within the plan.
func formatShockWindows(tier domain.VarianceTier, totalMonths int) string {
	var b strings.Builder
	for _, w := range ShockScheduleForTier(tier) {
		if w.FirstMonth > totalMonths {
			continue
		}
		fmt.Fprintf(&b, "- %s: months %d-%d, %+.2f%% per month\n", w.Event, w.FirstMonth, w.LastMonth, w.ImpactPercent)
	}
	if b.Len() == 0 {
		return "- none within the plan\n"
	}
	return b.String()
}
