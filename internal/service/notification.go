package service

import (
	"context"
	"fmt"
	"html"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"debt-service/configs"
	"debt-service/internal/models"
)

// MailSender sends prepared messages; *gomail.Dialer satisfies it
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends payment notifications over SMTP
type EmailNotifier struct {
	sender MailSender
	from   string
	logger *logrus.Logger
}

// NewEmailNotifier creates an EmailNotifier that dials the configured SMTP server
func NewEmailNotifier(cfg configs.EmailConfig, logger *logrus.Logger) *EmailNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewEmailNotifierWithSender(dialer, cfg.SenderEmail, logger)
}

// NewEmailNotifierWithSender creates an EmailNotifier with a custom sender
func NewEmailNotifierWithSender(sender MailSender, from string, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, logger: logger}
}

// NotifyPayment emails the user about an applied payment
func (n *EmailNotifier) NotifyPayment(ctx context.Context, notification *models.PaymentNotification) error {
	// Skip if email is empty
	if notification.Email == "" {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body := renderPaymentEmail(notification)

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notification.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Infof("Payment notification email sent to %s for debt %s", notification.Email, notification.DebtID)

	return nil
}

func renderPaymentEmail(n *models.PaymentNotification) (string, string) {
	payment := n.Payment.Rounded()

	kind := "Payment"
	if n.Automatic {
		kind = "Automatic payment"
	}

	subject := fmt.Sprintf("%s applied: %s", kind, n.DebtName)
	closing := fmt.Sprintf("<p>%d payments remain on this debt.</p>", n.RemainingMonths)
	if n.PaidOff {
		subject = fmt.Sprintf("Debt paid off: %s", n.DebtName)
		closing = "<p>Congratulations, this debt is now fully paid off!</p>"
	}

	body := fmt.Sprintf(`
	<h2>Debt Payment Notification</h2>
	<p>Dear %s,</p>

	<p>%s has been applied to your debt <strong>%s</strong>:</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Payment Date:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Amount:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Principal:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Interest:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Remaining Balance:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
	</table>

	%s

	<p>
	Best regards,<br>
	Debt Service Team
	</p>
	`,
		html.EscapeString(n.RecipientName),
		kind,
		html.EscapeString(n.DebtName),
		payment.PaymentDate.Format("2006-01-02"),
		models.FormatMoney(payment.Amount),
		models.FormatMoney(payment.PrincipalAmount),
		models.FormatMoney(payment.InterestAmount),
		models.FormatMoney(payment.RemainingBalance),
		closing,
	)

	return subject, body
}

// PaymentPublisher publishes payment notifications to a message broker
type PaymentPublisher interface {
	PublishPayment(ctx context.Context, n *models.PaymentNotification) error
}

// QueueNotifier hands notifications to a broker for the notifier worker
type QueueNotifier struct {
	publisher PaymentPublisher
}

// NewQueueNotifier creates a QueueNotifier
func NewQueueNotifier(publisher PaymentPublisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher}
}

// NotifyPayment publishes the notification
func (n *QueueNotifier) NotifyPayment(ctx context.Context, notification *models.PaymentNotification) error {
	if err := n.publisher.PublishPayment(ctx, notification); err != nil {
		return fmt.Errorf("failed to publish payment notification: %w", err)
	}
	return nil
}
