package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// CloudGateway implements WhatsApp sending via the Meta Cloud API
type CloudGateway struct {
	apiURL        string
	phoneNumberID string
	accessToken   string
	client        *http.Client
}

// CloudConfig holds configuration for the WhatsApp Cloud API gateway
type CloudConfig struct {
	APIURL        string // e.g. https://graph.facebook.com/v19.0
	PhoneNumberID string // the business phone number id messages are sent from
	AccessToken   string
}

// NewCloudGateway creates a new WhatsApp Cloud API client
func NewCloudGateway(config CloudConfig) *CloudGateway {
	return &CloudGateway{
		apiURL:        config.APIURL,
		phoneNumberID: config.PhoneNumberID,
		accessToken:   config.AccessToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// textPayload is the body of an outgoing text message
type textPayload struct {
	Body string `json:"body"`
}

// sendMessageRequest represents the Cloud API message request structure
type sendMessageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textPayload `json:"text,omitempty"`
}

// sendMessageResponse represents the Cloud API message response structure
type sendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// FormatPhoneForWhatsApp converts a phone number to the international
// digits-only format the Cloud API expects.
// Input: "9876543210" (10 digits) or "+91 98765 43210" or "919876543210"
// Output: "919876543210"
func FormatPhoneForWhatsApp(phone string) (string, error) {
	// Remove all non-digits
	re := regexp.MustCompile(`[^0-9]`)
	phone = re.ReplaceAllString(phone, "")

	// Add country code for bare 10-digit Indian mobiles
	if len(phone) == 10 {
		phone = "91" + phone
	}

	if len(phone) != 12 || !strings.HasPrefix(phone, "91") {
		return "", fmt.Errorf("invalid phone number after formatting: %s", phone)
	}

	// Validate Indian mobile prefix (6-9)
	first := phone[2]
	if first < '6' || first > '9' {
		return "", fmt.Errorf("invalid Indian mobile prefix: must start with 6-9")
	}

	return phone, nil
}

// SendPassIssued sends the issued pass details to a visitor
func (g *CloudGateway) SendPassIssued(phone, visitorName, passNumber, qrString string) (string, error) {
	message := fmt.Sprintf(
		"Dear %s,\n\nYour visitor pass %s has been issued.\nPresent this QR code at the gate:\n%s\n\nRegards,\nVisitor Pass Office",
		visitorName, passNumber, qrString,
	)
	return g.sendText(phone, message)
}

// SendStatusUpdate sends a status notification to a visitor
func (g *CloudGateway) SendStatusUpdate(phone, visitorName, message string) (string, error) {
	body := fmt.Sprintf("Dear %s,\n\n%s\n\nRegards,\nVisitor Pass Office", visitorName, message)
	return g.sendText(phone, body)
}

// sendText sends a plain text message and returns the message ID
func (g *CloudGateway) sendText(phone, body string) (string, error) {
	formattedPhone, err := FormatPhoneForWhatsApp(phone)
	if err != nil {
		return "", fmt.Errorf("failed to format phone number: %w", err)
	}

	msgReq := sendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               formattedPhone,
		Type:             "text",
		Text:             &textPayload{Body: body},
	}

	jsonData, err := json.Marshal(msgReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", g.apiURL, g.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create message request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.accessToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send message request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read message response: %w", err)
	}

	var msgResp sendMessageResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return "", fmt.Errorf("failed to parse message response: %w", err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("message sending failed: %s (error code: %d)", msgResp.Error.Message, msgResp.Error.Code)
	}
	if len(msgResp.Messages) == 0 {
		return "", fmt.Errorf("message sending failed: no message id in response (status %d)", resp.StatusCode)
	}

	return msgResp.Messages[0].ID, nil
}

// GetName returns the name of this gateway
func (g *CloudGateway) GetName() string {
	return "WhatsApp Cloud API Gateway"
}
