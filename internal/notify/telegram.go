package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram sends messages via the Telegram Bot API.
type Telegram struct {
	botToken string
	baseURL  string
	client   *http.Client
}

func NewTelegram(botToken string) *Telegram {
	return &Telegram{
		botToken: botToken,
		baseURL:  defaultTelegramAPI,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (n *Telegram) Name() string { return "telegram" }

func (n *Telegram) Send(rcpt Recipient, title, body string) bool {
	if n.botToken == "" {
		log.Printf("[notify] telegram token not configured, skipping send to %s", rcpt.TelegramID)
		return false
	}

	text := fmt.Sprintf("<b>%s</b>\n%s", title, body)
	if err := n.sendMessage(rcpt.TelegramID, text); err != nil {
		log.Printf("[notify] failed to send telegram message to %s: %v", rcpt.TelegramID, err)
		return false
	}

	return true
}

func (n *Telegram) sendMessage(chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)

	payload := telegramSendRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram request: %w", err)
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(respBody, &tgResp); err != nil {
		return fmt.Errorf("failed to parse telegram response: %w", err)
	}

	if !tgResp.OK {
		return fmt.Errorf("telegram API error: %s", tgResp.Description)
	}

	return nil
}
