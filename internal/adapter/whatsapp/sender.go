package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

type sender struct {
	client    *http.Client
	endpoint  string
	token     string
	catalogID string
	logger    logger.Logger
}

// NewSender returns the outbound messaging gateway. Transport errors are
// logged and returned to the caller; nothing here retries.
func NewSender(cfg config.WhatsAppConfig, lgr logger.Logger) interfaces.MessageSender {
	return &sender{
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  fmt.Sprintf("%s/%s/messages", cfg.APIBaseURL, cfg.PhoneNumberID),
		token:     cfg.AccessToken,
		catalogID: cfg.CatalogID,
		logger:    lgr,
	}
}

func (s *sender) Send(ctx context.Context, msg interfaces.OutboundMessage) error {
	payload, err := buildPayload(s.catalogID, msg)
	if err != nil {
		return fmt.Errorf("failed to build send payload: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("send_failed", "Message send failed", msg.To, map[string]interface{}{
			"type": string(msg.Type),
		}, err)
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("send returned status %d: %s", resp.StatusCode, respBody)
		s.logger.Error("send_rejected", "Message send rejected by transport", msg.To, map[string]interface{}{
			"type":   string(msg.Type),
			"status": resp.StatusCode,
		}, err)
		return err
	}

	var parsed sendResponse
	messageID := ""
	if err := json.Unmarshal(respBody, &parsed); err == nil && len(parsed.Messages) > 0 {
		messageID = parsed.Messages[0].ID
	}

	s.logger.Debug("message_sent", "Outbound message accepted", msg.To, map[string]interface{}{
		"type":       string(msg.Type),
		"message_id": messageID,
	})
	return nil
}
