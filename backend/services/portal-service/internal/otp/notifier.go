package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers a code to a phone.
type Notifier interface {
	Send(ctx context.Context, phone, code string) error
}

// LogNotifier writes codes to the log instead of sending them.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns notifier that only logs.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, phone, code string) error {
	n.logger.Info("verification code sent", zap.String("phone", maskPhone(phone)), zap.String("code", code))
	return nil
}

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// GatewayNotifier posts codes to an SMS gateway.
type GatewayNotifier struct {
	baseURL string
	apiKey  string
	sender  string
	client  HTTPDoer
}

// NewGatewayNotifier builds a gateway client. A nil client uses an http.Client with a 10s timeout.
func NewGatewayNotifier(baseURL, apiKey, sender string, client HTTPDoer) *GatewayNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GatewayNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		sender:  sender,
		client:  client,
	}
}

type gatewayMessage struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

func (n *GatewayNotifier) Send(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(gatewayMessage{
		To:   phone,
		From: n.sender,
		Body: fmt.Sprintf("Your Charginguu verification code is %s", code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("otp: gateway request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("otp: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
