// services/chat.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"
)

// ChatClient forwards visitor messages to the chat webhook. Unlike the
// other dispatchers the reply here IS the deliverable, so errors propagate.
type ChatClient struct {
	httpClient *http.Client
	webhookURL string
}

func NewChatClient() *ChatClient {
	return &ChatClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		webhookURL: os.Getenv("CHAT_WEBHOOK_URL"),
	}
}

type chatWebhookRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

// The webhook provider is inconsistent about the reply field name.
type chatWebhookResponse struct {
	Output   string `json:"output"`
	Response string `json:"response"`
	Message  string `json:"message"`
}

// Send posts the visitor message and returns the bot reply.
func (c *ChatClient) Send(chatInput, sessionID string) (string, error) {
	if c.webhookURL == "" {
		return "", errors.New("CHAT_WEBHOOK_URL not set")
	}

	body, err := json.Marshal(chatWebhookRequest{
		ChatInput: chatInput,
		SessionID: sessionID,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequest("POST", c.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("chat webhook returned non-OK status: " + resp.Status)
	}

	var apiResp chatWebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}

	switch {
	case apiResp.Output != "":
		return apiResp.Output, nil
	case apiResp.Response != "":
		return apiResp.Response, nil
	default:
		return apiResp.Message, nil
	}
}
