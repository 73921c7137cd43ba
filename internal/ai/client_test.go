package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

func TestBuildMessages(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "Привет"},
		{Role: models.ChatRoleAssistant, Content: "Здравствуйте!"},
	}

	msgs := buildMessages("Ты ассистент.", history, "Чем занимаешься?")
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
	assert.Equal(t, "Чем занимаешься?", msgs[3].Content)

	// Без системного промпта первой идёт история.
	msgs = buildMessages("", history, "Вопрос")
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", msgs[0].Role)
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  Здравствуйте!  "}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	reply, err := client.Complete(context.Background(), "Ты ассистент.", nil, "Привет")
	require.NoError(t, err)
	assert.Equal(t, "Здравствуйте!", reply)
}

func TestComplete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	_, err := client.Complete(context.Background(), "", nil, "Привет")
	assert.Error(t, err)
}

func TestComplete_NoBaseURL(t *testing.T) {
	client := NewClient("", "test-model")

	_, err := client.Complete(context.Background(), "", nil, "Привет")
	assert.Error(t, err)
}

func TestStreamComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Здрав\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ствуйте!\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	var chunks []string
	err := client.StreamComplete(context.Background(), "", nil, "Привет", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Здрав", "ствуйте!"}, chunks)
}

func TestStreamComplete_DeltaErrorStops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"чанк\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ещё\"}}]}\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	calls := 0
	err := client.StreamComplete(context.Background(), "", nil, "Привет", func(chunk string) error {
		calls++
		return fmt.Errorf("получатель отключился")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
