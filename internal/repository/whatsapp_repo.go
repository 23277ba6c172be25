package repository

import (
	"context"
	"fmt"
	"strings"

	"golang-maintenance/config"
	"golang-maintenance/pkg/httpclient"
	"golang-maintenance/pkg/logger"
)

// WhatsAppRepository sends messages through a Fonnte-style WhatsApp gateway.
// The core never depends on the provider; swap the base URL and token to
// point at a different gateway with the same contract.
type WhatsAppRepository interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

type whatsAppRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	client httpclient.HTTPClient
}

type whatsAppSendResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
}

func NewWhatsAppRepository(cfg *config.Config, log *logger.Logger) WhatsAppRepository {
	client := httpclient.New(cfg.WhatsApp.BaseURL, cfg.WhatsApp.TimeoutDuration, cfg.WhatsApp.APIToken)
	return &whatsAppRepository{
		cfg:    cfg,
		log:    log,
		client: client,
	}
}

func (r *whatsAppRepository) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phone, err := normalizePhone(phoneNumber)
	if err != nil {
		return err
	}

	body := map[string]string{
		"target":  phone,
		"message": message,
	}

	var result whatsAppSendResponse
	resp, err := r.client.Post(ctx, "/send", body, nil, &result)
	if err != nil {
		return fmt.Errorf("whatsapp send request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, string(resp.Body))
	}
	if !result.Status {
		return fmt.Errorf("whatsapp gateway rejected message: %s", result.Reason)
	}

	r.log.DebugContext(ctx, "WhatsApp message sent", logger.StringField("target", phone))
	return nil
}

// normalizePhone converts local Indonesian numbers to the 62-prefixed format
// the gateway expects.
func normalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	switch {
	case cleaned == "":
		return "", fmt.Errorf("empty phone number")
	case strings.HasPrefix(cleaned, "0"):
		return "62" + cleaned[1:], nil
	case strings.HasPrefix(cleaned, "62"):
		return cleaned, nil
	default:
		return "62" + cleaned, nil
	}
}
