package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamdesk-api/internal/models"
)

func fakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  openai.GPT4o,
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return NewAIService(cfg, "")
}

func TestGenerateTasksFromTextParsesFencedJSON(t *testing.T) {
	ai := fakeOpenAI(t, "```json\n[{\"name\":\"Ligar fornecedor\",\"description\":\"\",\"priority\":\"high\",\"due_date\":null}]\n```")

	tasks, err := ai.GenerateTasksFromText(context.Background(), "ligar para o fornecedor")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ligar fornecedor", tasks[0].Name)
	assert.Equal(t, models.TaskPriorityHigh, tasks[0].Priority)
	assert.Nil(t, tasks[0].DueDate)
}

func TestGenerateTasksFromTextParsesObject(t *testing.T) {
	ai := fakeOpenAI(t, `{"tasks": [{"name": "Revisar contrato", "priority": "medium", "due_date": "2030-01-15T18:00:00Z"}]}`)

	tasks, err := ai.GenerateTasksFromText(context.Background(), "revisar o contrato até dia 15")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Revisar contrato", tasks[0].Name)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 2030, tasks[0].DueDate.Year())
}

func TestGenerateTasksFromTextRejectsProse(t *testing.T) {
	ai := fakeOpenAI(t, "Não encontrei tarefas.")

	_, err := ai.GenerateTasksFromText(context.Background(), "oi")
	assert.Error(t, err)
}

func TestGenerateTasksCleansDrafts(t *testing.T) {
	past := time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	content := fmt.Sprintf(`[
		{"name": "  ", "description": "sem nome"},
		{"name": "Antiga", "priority": "urgent", "due_date": %q},
		{"name": "Futura", "priority": "low", "due_date": %q}
	]`, past, future)

	service := &TaskService{aiService: fakeOpenAI(t, content)}

	drafts, err := service.GenerateTasks(context.Background(), GenerateTasksInput{Text: "texto"})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Antiga", drafts[0].Name)
	assert.Nil(t, drafts[0].DueDate)
	assert.Equal(t, models.TaskPriorityMedium, drafts[0].Priority)

	assert.Equal(t, "Futura", drafts[1].Name)
	assert.NotNil(t, drafts[1].DueDate)
	assert.Equal(t, models.TaskPriorityLow, drafts[1].Priority)
}

func TestGenerateTasksEmpty(t *testing.T) {
	service := &TaskService{aiService: fakeOpenAI(t, "[]")}

	_, err := service.GenerateTasks(context.Background(), GenerateTasksInput{Text: "nada"})
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)
}
