package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramSend(t *testing.T) {
	var got telegramSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bottoken123/") {
			t.Errorf("token missing from request path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(telegramResponse{OK: true})
	}))
	defer server.Close()

	n := NewTelegram("token123")
	n.baseURL = server.URL

	ok := n.Send(Recipient{UserID: 1, TelegramID: "4242"}, "Task Reminder", "water the plants")
	if !ok {
		t.Fatal("Send reported failure for a successful request")
	}

	if got.ChatID != "4242" {
		t.Errorf("chat_id = %q, want %q", got.ChatID, "4242")
	}
	if got.ParseMode != "HTML" {
		t.Errorf("parse_mode = %q, want HTML", got.ParseMode)
	}
	if !strings.Contains(got.Text, "Task Reminder") || !strings.Contains(got.Text, "water the plants") {
		t.Errorf("message text missing content: %q", got.Text)
	}
}

func TestTelegramSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(telegramResponse{OK: false, Description: "chat not found"})
	}))
	defer server.Close()

	n := NewTelegram("token123")
	n.baseURL = server.URL

	if n.Send(Recipient{TelegramID: "4242"}, "Task Reminder", "x") {
		t.Error("Send must report false on an API error")
	}
}

func TestTelegramSendTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	n := NewTelegram("token123")
	n.baseURL = server.URL

	if n.Send(Recipient{TelegramID: "4242"}, "Task Reminder", "x") {
		t.Error("Send must report false on a transport error")
	}
}

func TestTelegramSendGarbageResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer server.Close()

	n := NewTelegram("token123")
	n.baseURL = server.URL

	if n.Send(Recipient{TelegramID: "4242"}, "Task Reminder", "x") {
		t.Error("Send must report false on an unparseable response")
	}
}

func TestTelegramSendWithoutToken(t *testing.T) {
	n := NewTelegram("")
	if n.Send(Recipient{TelegramID: "4242"}, "Task Reminder", "x") {
		t.Error("unconfigured sender must report false, not attempt a request")
	}
}
