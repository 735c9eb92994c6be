package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatCapture struct {
	auth     string
	path     string
	model    string
	messages []map[string]string
}

func llmServer(t *testing.T, status int, reply string) (*httptest.Server, *chatCapture) {
	t.Helper()
	got := &chatCapture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.auth = r.Header.Get("Authorization")
		got.path = r.URL.Path
		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		got.model, got.messages = body.Model, body.Messages

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"quota"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestAnalyzeWeeklyPerformance(t *testing.T) {
	srv, got := llmServer(t, http.StatusOK, "  ## 分析結果\n返信率は良好です。 ")
	ai := NewAIService(srv.URL+"/", "sk-test", "gpt-4o-mini", time.Second)

	out, err := ai.AnalyzeWeeklyPerformance(context.Background(),
		json.RawMessage(`{"reply_rate":"15.00"}`), json.RawMessage(`{"reply_target":10}`))
	require.NoError(t, err)

	assert.Equal(t, "## 分析結果\n返信率は良好です。", out)
	assert.Equal(t, "Bearer sk-test", got.auth)
	assert.Equal(t, "/chat/completions", got.path)
	assert.Equal(t, "gpt-4o-mini", got.model)
	require.Len(t, got.messages, 2)
	assert.Equal(t, "system", got.messages[0]["role"])
	assert.Contains(t, got.messages[1]["content"], `"reply_rate":"15.00"`)
	assert.Contains(t, got.messages[1]["content"], `"reply_target":10`)
}

func TestAnalyzeWeeklyPerformance_NoGoals(t *testing.T) {
	srv, got := llmServer(t, http.StatusOK, "ok")
	ai := NewAIService(srv.URL, "sk-test", "m", time.Second)

	_, err := ai.AnalyzeWeeklyPerformance(context.Background(), json.RawMessage(`{}`), nil)
	require.NoError(t, err)
	assert.Contains(t, got.messages[1]["content"], "目標:\n{}")
}

func TestSuggestEmailImprovement(t *testing.T) {
	srv, got := llmServer(t, http.StatusOK, "件名を短く")
	ai := NewAIService(srv.URL, "sk-test", "m", time.Second)

	out, err := ai.SuggestEmailImprovement(context.Background(), "お世話になっております。", "12.50")
	require.NoError(t, err)
	assert.Equal(t, "件名を短く", out)
	assert.Contains(t, got.messages[1]["content"], "12.50%")
	assert.Contains(t, got.messages[1]["content"], "お世話になっております。")
}

func TestAIService_UpstreamError(t *testing.T) {
	srv, _ := llmServer(t, http.StatusTooManyRequests, "")
	ai := NewAIService(srv.URL, "sk-test", "m", time.Second)

	_, err := ai.SuggestEmailImprovement(context.Background(), "t", "0")
	var se *AIStatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
}

func TestAIService_NotConfigured(t *testing.T) {
	ai := NewAIService("https://api.openai.com/v1", "", "m", 0)
	assert.False(t, ai.Enabled())

	_, err := ai.AnalyzeWeeklyPerformance(context.Background(), json.RawMessage(`{}`), nil)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}
