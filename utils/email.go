package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends an HTML email. Notification mail is dispatched only
// after the financial effect has committed; a send failure is logged
// by the caller and never rolls anything back.
func SendEmail(to, subject, body string) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendCashoutCompletedEmail notifies a user that their payout went out
func SendCashoutCompletedEmail(to string, requestID uint, finalAmount, feeAmount string, reference string) error {
	subject := "Your TripLink payout is on its way"
	body := fmt.Sprintf(`
		<h2>Payout completed</h2>
		<p>Your cashout request #%d has been processed.</p>
		<p>Amount paid out: <strong>%s</strong> (platform fee: %s)</p>
		<p>Payment reference: %s</p>
	`, requestID, finalAmount, feeAmount, reference)
	return SendEmail(to, subject, body)
}

// SendCashoutCancelledEmail notifies a user that a cashout was cancelled
func SendCashoutCancelledEmail(to string, requestID uint, refundAmount string) error {
	subject := "Your TripLink cashout was cancelled"
	body := fmt.Sprintf(`
		<h2>Cashout cancelled</h2>
		<p>Your cashout request #%d has been cancelled.</p>
		<p>Points returned to your wallet: <strong>%s</strong></p>
	`, requestID, refundAmount)
	return SendEmail(to, subject, body)
}
