package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"os"
	"text/template"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/utils"
)

type Sender interface {
	SendOrderConfirmation(ctx context.Context, event domain.OrderCreatedEvent) error
}

type smtpSender struct {
	from     string
	password string
	host     string
	port     string
	logger   *zap.Logger
	tracer   trace.Tracer
	breaker  *gobreaker.CircuitBreaker
}

func NewSMTPSender(host, port, from string, logger *zap.Logger) Sender {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "smtp",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &smtpSender{
		from:     from,
		password: os.Getenv("SMTP_PASSWORD"),
		host:     host,
		port:     port,
		logger:   logger,
		tracer:   otel.Tracer("vinilos/email_sender"),
		breaker:  breaker,
	}
}

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
	<h1>¡Gracias por tu compra, {{.CustomerName}}!</h1>
	<p>Tu pedido <strong>{{.OrderNumber}}</strong> fue recibido y está siendo preparado.</p>
	<table>
		{{range .Items}}
		<tr>
			<td>{{.Name}}{{if .Artist}} — {{.Artist}}{{end}}</td>
			<td>x{{.Quantity}}</td>
			<td>${{.Price}}</td>
		</tr>
		{{end}}
	</table>
	<p>Subtotal: ${{.Subtotal}}</p>
	<p>Envío: {{if eq .Shipping 0}}Gratis{{else}}${{.Shipping}}{{end}}</p>
	<p>IVA incluido: ${{.Tax}}</p>
	<p><strong>Total: ${{.Total}}</strong></p>
	<p>Enviaremos tu pedido a {{.Address.Street}} {{.Address.Number}}, {{.Address.Comuna}}, {{.Address.City}}.</p>
`))

func (s *smtpSender) SendOrderConfirmation(ctx context.Context, event domain.OrderCreatedEvent) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendOrderConfirmation")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", event.CustomerEmail),
		attribute.String("order.number", event.OrderNumber),
	)

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, event); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Subject: Confirmación de pedido %s\n", event.OrderNumber)
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"

	msg := []byte(subject + mime + buf.String())
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	ctxlog.Info(
		ctx,
		s.logger,
		"Sending order confirmation email",
		zap.String("to", event.CustomerEmail),
		zap.String("order_number", event.OrderNumber),
	)

	_, err := utils.ExecuteWithBreaker(s.breaker, func() (struct{}, error) {
		return struct{}{}, smtp.SendMail(addr, auth, s.from, []string{event.CustomerEmail}, msg)
	})
	if err != nil {
		span.RecordError(err)
		ctxlog.Error(
			ctx,
			s.logger,
			"Error sending order confirmation email",
			zap.String("to", event.CustomerEmail),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %w", err)
	}

	ctxlog.Info(ctx, s.logger, "Order confirmation email sent successfully",
		zap.String("order_number", event.OrderNumber))

	return nil
}
