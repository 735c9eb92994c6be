package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sales-kpi/internal/metrics"
)

var ErrAINotConfigured = errors.New("analysis service not configured")

type AIStatusError struct {
	Code int
	Body string
}

func (e *AIStatusError) Error() string   { return fmt.Sprintf("llm status %d: %s", e.Code, e.Body) }
func (e *AIStatusError) StatusCode() int { return e.Code }

// AIService talks to an OpenAI-compatible chat completions endpoint.
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAIService(baseURL, apiKey, model string, timeout time.Duration) *AIService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *AIService) Enabled() bool { return s != nil && s.apiKey != "" && s.baseURL != "" }

func (s *AIService) chat(ctx context.Context, operation, system, user string) (string, error) {
	if !s.Enabled() {
		return "", ErrAINotConfigured
	}
	start := time.Now()
	out, err := s.doChat(ctx, system, user)
	metrics.ObserveExternal("ai", operation, start, err)
	return out, err
}

func (s *AIService) doChat(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &AIStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// AnalyzeWeeklyPerformance asks for a review of one week's summary against the goals.
// Both arguments are passed through as JSON; no schema is imposed.
func (s *AIService) AnalyzeWeeklyPerformance(ctx context.Context, weeklyData, goals json.RawMessage) (string, error) {
	system := `あなたはB2B営業チームのKPIコーチです。週次KPIサマリーと目標値を比較し、
1. 目標達成状況 2. ファネル上のボトルネック（返信率・商談化率・成約率など） 3. 来週の具体的な改善アクション
をMarkdownで簡潔に出力してください。`
	if len(goals) == 0 {
		goals = json.RawMessage("{}")
	}
	prompt := fmt.Sprintf("週次データ:\n%s\n\n目標:\n%s", weeklyData, goals)
	out, err := s.chat(ctx, "analyze_weekly", system, prompt)
	if err != nil {
		return "", fmt.Errorf("analyze weekly: %w", err)
	}
	return out, nil
}

// SuggestEmailImprovement proposes edits to an outreach email template.
func (s *AIService) SuggestEmailImprovement(ctx context.Context, template, replyRate string) (string, error) {
	system := `あなたは営業メールの改善アドバイザーです。与えられたメールテンプレートと現在の返信率をもとに、
件名・冒頭・価値提案・CTAの改善案と、改善後のテンプレート例を出力してください。`
	prompt := fmt.Sprintf("現在の返信率: %s%%\n\nテンプレート:\n%s", replyRate, template)
	out, err := s.chat(ctx, "improve_email", system, prompt)
	if err != nil {
		return "", fmt.Errorf("improve email: %w", err)
	}
	return out, nil
}
