package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/example/giftvault/internal/models"
)

// TelegramService pushes admin notifications to a Telegram chat. All sends
// are best-effort: failures are logged and never affect the transition that
// triggered them.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		logrus.Debug("telegram bot token not configured, skipping notification")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).Warn("telegram send failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("telegram returned non-OK status")
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		logrus.Debug("telegram admin chat not configured, skipping notification")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// NotifyRedemptionSubmitted tells the admin chat a redemption awaits review.
func (s *TelegramService) NotifyRedemptionSubmitted(r *models.Redemption) {
	text := fmt.Sprintf(
		"🎁 <b>New redemption</b>\nRedemption: <code>%s</code>\nClaimed: %s\n<a href=\"%s\">Proof image</a>",
		r.ID, formatCents(r.AmountCents), r.ImageURL,
	)
	_ = s.SendToAdmin(text)
}

// NotifyRedemptionResolved tells the admin chat how a redemption was resolved.
func (s *TelegramService) NotifyRedemptionResolved(r *models.Redemption) {
	var text string
	switch r.Status {
	case models.RedemptionStatusApproved:
		text = fmt.Sprintf("✅ <b>Redemption approved</b>\nRedemption: <code>%s</code>\nCredited: %s",
			r.ID, formatCents(r.CreditedCents))
	case models.RedemptionStatusRejected:
		text = fmt.Sprintf("❌ <b>Redemption rejected</b>\nRedemption: <code>%s</code>\nReason: %s",
			r.ID, r.Reason)
	default:
		return
	}
	_ = s.SendToAdmin(text)
}

// NotifyWithdrawalRequested tells the admin chat a withdrawal awaits review.
func (s *TelegramService) NotifyWithdrawalRequested(w *models.Withdrawal) {
	text := fmt.Sprintf(
		"💸 <b>Withdrawal requested</b>\nWithdrawal: <code>%s</code>\nAmount: %s\nBank: %s",
		w.ID, formatCents(w.AmountCents), w.BankName,
	)
	_ = s.SendToAdmin(text)
}
