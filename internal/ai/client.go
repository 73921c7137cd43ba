package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// Client реализует AI ассистента через OpenAI-совместимый API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, model string) *Client {
	apiKey := os.Getenv("AI_API_KEY")

	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// message — формат сообщения chat completions API.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildMessages собирает историю диалога в формат API: системный промпт,
// затем реплики по порядку.
func buildMessages(systemPrompt string, history []models.ChatMessage, userMessage string) []message {
	msgs := make([]message, 0, len(history)+2)
	if systemPrompt != "" {
		msgs = append(msgs, message{Role: "system", Content: systemPrompt})
	}
	for _, m := range history {
		msgs = append(msgs, message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, message{Role: "user", Content: userMessage})
	return msgs
}

// Complete выполняет обычный (не потоковый) запрос и возвращает ответ целиком.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("ai: baseURL не задан")
	}

	payload := map[string]any{
		"model":    c.model,
		"messages": buildMessages(systemPrompt, history, userMessage),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: запрос не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: сервис вернул статус %d", resp.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ai: не удалось разобрать ответ: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("ai: пустой ответ")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// StreamComplete выполняет потоковый запрос и передаёт текстовые чанки в onDelta.
func (c *Client) StreamComplete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string, onDelta func(chunk string) error) error {
	if c.baseURL == "" {
		return fmt.Errorf("ai: baseURL не задан")
	}

	payload := map[string]any{
		"model":    c.model,
		"messages": buildMessages(systemPrompt, history, userMessage),
		"stream":   true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ai: запрос не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai: сервис вернул статус %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}

		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}

		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// endpoint собирает URL chat completions.
func (c *Client) endpoint() string {
	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url + "chat/completions"
}
