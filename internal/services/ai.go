package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/teamdesk-api/internal/models"
)

const draftInstructions = `Você extrai tarefas de textos de uma equipe de trabalho.

Responda somente com um objeto JSON no formato:
{"tasks": [{"name": "título curto", "description": "detalhes", "priority": "high|medium|low", "due_date": "ISO8601 ou null"}]}

Regras:
- Sem tarefas no texto: {"tasks": []}
- Converta prazos relativos ("amanhã", "sexta que vem") em datas concretas a partir do horário informado
- due_date é uma string ISO8601, ex: 2025-10-28T23:59:59Z, ou null`

var errEmptyCompletion = errors.New("openai returned no choices")

// AIService drafts tasks from free text through a chat completion model.
type AIService struct {
	client *openai.Client
	model  string
}

// GeneratedTask is a draft the user reviews before creating real tasks.
type GeneratedTask struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

func NewAIService(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GenerateTasksFromText asks the model for task drafts found in text.
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	now := time.Now().Format(time.RFC3339)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: draftInstructions},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Horário atual: %s\n\nTexto:\n%s", now, text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errEmptyCompletion
	}

	drafts, err := decodeDrafts(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("decode task drafts: %w", err)
	}
	return drafts, nil
}

// decodeDrafts accepts the {"tasks": [...]} object as well as a bare array,
// with or without a markdown code fence around it.
func decodeDrafts(content string) ([]GeneratedTask, error) {
	raw := []byte(stripCodeFence(content))

	if bytes.HasPrefix(raw, []byte("[")) {
		var drafts []GeneratedTask
		err := json.Unmarshal(raw, &drafts)
		return drafts, err
	}

	var wrapped struct {
		Tasks []GeneratedTask `json:"tasks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Tasks, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
