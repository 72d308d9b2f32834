package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    fmt.Sprintf("https://api.telegram.org/bot%s", token),
	}
}

func (c *Client) call(method string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/"+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if !apiResp.OK {
		return nil, fmt.Errorf("telegram: %s", apiResp.Description)
	}

	return apiResp.Result, nil
}

// SendMessage sends HTML text with link previews disabled and returns the new
// message id.
func (c *Client) SendMessage(chatID int64, text string) (int64, error) {
	req := SendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	result, err := c.call("sendMessage", req)
	if err != nil {
		return 0, err
	}

	var msg MessageResult
	json.Unmarshal(result, &msg)
	return msg.MessageID, nil
}

func (c *Client) EditMessageText(chatID, messageID int64, text string) error {
	req := EditMessageTextRequest{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	_, err := c.call("editMessageText", req)
	return err
}

func (c *Client) DeleteMessage(chatID, messageID int64) error {
	req := struct {
		ChatID    int64 `json:"chat_id"`
		MessageID int64 `json:"message_id"`
	}{ChatID: chatID, MessageID: messageID}
	_, err := c.call("deleteMessage", req)
	return err
}

func (c *Client) PinChatMessage(chatID, messageID int64) error {
	req := struct {
		ChatID              int64 `json:"chat_id"`
		MessageID           int64 `json:"message_id"`
		DisableNotification bool  `json:"disable_notification"`
	}{ChatID: chatID, MessageID: messageID, DisableNotification: true}
	_, err := c.call("pinChatMessage", req)
	return err
}

func (c *Client) RevokeChatInviteLink(chatID int64, inviteLink string) error {
	req := struct {
		ChatID     int64  `json:"chat_id"`
		InviteLink string `json:"invite_link"`
	}{ChatID: chatID, InviteLink: inviteLink}
	_, err := c.call("revokeChatInviteLink", req)
	return err
}

// CreateChatInviteLink creates a non-expiring tracked invite link and returns
// its URL.
func (c *Client) CreateChatInviteLink(chatID int64, name string) (string, error) {
	req := struct {
		ChatID int64  `json:"chat_id"`
		Name   string `json:"name,omitempty"`
	}{ChatID: chatID, Name: name}

	result, err := c.call("createChatInviteLink", req)
	if err != nil {
		return "", err
	}

	var link ChatInviteLink
	if err := json.Unmarshal(result, &link); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return link.InviteLink, nil
}

func (c *Client) GetChatMember(chatID, userID int64) (*ChatMember, error) {
	req := struct {
		ChatID int64 `json:"chat_id"`
		UserID int64 `json:"user_id"`
	}{ChatID: chatID, UserID: userID}

	result, err := c.call("getChatMember", req)
	if err != nil {
		return nil, err
	}

	var member ChatMember
	if err := json.Unmarshal(result, &member); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &member, nil
}

// GetUpdates long-polls for updates starting at offset. The HTTP client
// timeout must exceed the poll timeout.
func (c *Client) GetUpdates(offset int64, timeout time.Duration) ([]Update, error) {
	req := GetUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout.Seconds()),
		AllowedUpdates: []string{"message"},
	}

	result, err := c.call("getUpdates", req)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return updates, nil
}

func (c *Client) SetWebhook(url, secretToken string) error {
	req := SetWebhookRequest{URL: url, SecretToken: secretToken}
	_, err := c.call("setWebhook", req)
	return err
}

func (c *Client) DeleteWebhook() error {
	_, err := c.call("deleteWebhook", struct{}{})
	return err
}
