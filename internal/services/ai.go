package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// AIService talks to an OpenAI-compatible gateway for the advisory features:
// goal-difficulty ranking and photo-to-goal-list extraction. Failures always
// surface as ErrServiceUnavailable; they never block board or goal
// mutations.
type AIService struct {
	gatewayURL string
	token      string
	client     *http.Client
}

func NewAIService(gatewayURL, token string) *AIService {
	return &AIService{
		gatewayURL: gatewayURL,
		token:      token,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *AIService) complete(req chatRequest) (string, error) {
	if s.gatewayURL == "" || s.token == "" {
		return "", ErrServiceUnavailable
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", ErrServiceUnavailable
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.gatewayURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", ErrServiceUnavailable
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.Printf("AI: request failed: %v", err)
		return "", ErrServiceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("AI: gateway returned status %d", resp.StatusCode)
		return "", ErrServiceUnavailable
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", ErrServiceUnavailable
	}
	if len(parsed.Choices) == 0 {
		return "", ErrServiceUnavailable
	}
	return parsed.Choices[0].Message.Content, nil
}

// RankDifficulty asks the model to rate the overall difficulty of a board's
// goals.
func (s *AIService) RankDifficulty(goals []string) (string, error) {
	if len(goals) == 0 {
		return "", ErrValidation
	}

	lines := make([]string, len(goals))
	for i, g := range goals {
		lines[i] = fmt.Sprintf("%d. %s", i+1, g)
	}

	return s.complete(chatRequest{
		Model: "openai/gpt-3.5-turbo",
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "You are a goal difficulty analyst. Analyze the provided bingo board goals and rate the overall difficulty. " +
					"Be concise but insightful. Consider time required, skill level needed, resources required, emotional/mental challenge, and dependencies on others. " +
					"Provide a difficulty rating (Easy/Medium/Hard/Expert) and a brief 2-3 sentence explanation.",
			},
			{
				Role:    "user",
				Content: "Please analyze these bingo board goals:\n\n" + strings.Join(lines, "\n"),
			},
		},
		MaxTokens: 200,
	})
}

const maxExtractedGoals = 24

// ExtractGoals reads a photo of a handwritten or typed goal list and
// returns up to 24 goal strings.
func (s *AIService) ExtractGoals(imageURL string) ([]string, error) {
	if imageURL == "" {
		return nil, ErrValidation
	}

	content, err := s.complete(chatRequest{
		Model: "openai/gpt-4o-mini",
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "You are a goal extraction assistant. Extract goals from images of handwritten or typed goal lists. " +
					"Return ONLY a JSON array of strings, with each goal as a separate item. Extract up to 24 goals. " +
					"If you see numbered items, extract each as a separate goal. Clean up the text but preserve the meaning. " +
					`Return format: ["goal 1", "goal 2", ...]`,
			},
			{
				Role: "user",
				Content: []map[string]interface{}{
					{"type": "text", "text": "Extract the goals from this image as a JSON array:"},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
		MaxTokens: 1000,
	})
	if err != nil {
		return nil, err
	}

	// The model sometimes wraps the array in prose; pull out the first
	// JSON array it produced.
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return nil, ErrServiceUnavailable
	}

	var goals []string
	if err := json.Unmarshal([]byte(content[start:end+1]), &goals); err != nil {
		return nil, ErrServiceUnavailable
	}

	cleaned := make([]string, 0, len(goals))
	for _, g := range goals {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		cleaned = append(cleaned, g)
		if len(cleaned) == maxExtractedGoals {
			break
		}
	}
	return cleaned, nil
}
