package whatsapp

import "fmt"

// Gateway defines the interface for sending WhatsApp notifications to visitors
type Gateway interface {
	// SendPassIssued sends the digital pass (number and QR payload) to a visitor
	// Returns a message ID and an error if the send failed
	SendPassIssued(phone, visitorName, passNumber, qrString string) (string, error)

	// SendStatusUpdate sends a free-text status notification to a visitor
	SendStatusUpdate(phone, visitorName, message string) (string, error)

	// GetName returns the name of the gateway implementation
	GetName() string
}

// ConsoleGateway is the development-mode gateway. It prints messages to
// stdout instead of calling the WhatsApp API.
type ConsoleGateway struct{}

// NewConsoleGateway creates a console gateway for local development
func NewConsoleGateway() *ConsoleGateway {
	return &ConsoleGateway{}
}

// SendPassIssued prints the pass message to the console
func (g *ConsoleGateway) SendPassIssued(phone, visitorName, passNumber, qrString string) (string, error) {
	fmt.Printf("📱 [DEV WhatsApp] to %s: pass %s issued for %s (qr: %s)\n", phone, passNumber, visitorName, qrString)
	return fmt.Sprintf("dev-%s-%s", phone, passNumber), nil
}

// SendStatusUpdate prints the status message to the console
func (g *ConsoleGateway) SendStatusUpdate(phone, visitorName, message string) (string, error) {
	fmt.Printf("📱 [DEV WhatsApp] to %s (%s): %s\n", phone, visitorName, message)
	return fmt.Sprintf("dev-%s", phone), nil
}

// GetName returns the name of this gateway
func (g *ConsoleGateway) GetName() string {
	return "Console Gateway (development)"
}
