package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"salonify/models"

	"github.com/shopspring/decimal"
)

// Message is a rendered email ready to send.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type view struct {
	ClientName    string
	ServiceName   string
	StylistName   string
	BranchName    string
	BranchAddress string
	When          string
	Duration      int
	Reference     string
	Subtotal      string
	Discount      string
	Paid          string
	PromotionCode string
	HasDiscount   bool
}

const textBody = `Hi {{.ClientName}},

Your booking is confirmed.

Service:  {{.ServiceName}} ({{.Duration}} min)
Stylist:  {{.StylistName}}
When:     {{.When}}
Where:    {{.BranchName}}, {{.BranchAddress}}
{{if .HasDiscount}}
Subtotal: {{.Subtotal}}
Discount: -{{.Discount}}{{if .PromotionCode}} ({{.PromotionCode}}){{end}}
{{end}}Paid:     {{.Paid}}

Booking reference: {{.Reference}}

See you soon!
`

const htmlBody = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<p>Hi {{.ClientName}},</p>
<p>Your booking is <strong>confirmed</strong>.</p>
<table cellpadding="4">
<tr><td>Service</td><td>{{.ServiceName}} ({{.Duration}} min)</td></tr>
<tr><td>Stylist</td><td>{{.StylistName}}</td></tr>
<tr><td>When</td><td>{{.When}}</td></tr>
<tr><td>Where</td><td>{{.BranchName}}, {{.BranchAddress}}</td></tr>
{{if .HasDiscount}}<tr><td>Subtotal</td><td>{{.Subtotal}}</td></tr>
<tr><td>Discount</td><td>-{{.Discount}}{{if .PromotionCode}} ({{.PromotionCode}}){{end}}</td></tr>
{{end}}<tr><td>Paid</td><td><strong>{{.Paid}}</strong></td></tr>
</table>
<p>Booking reference: <code>{{.Reference}}</code></p>
<p>See you soon!</p>
</body>
</html>
`

var (
	textTmpl = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(htmlBody))
)

// FormatMoney renders minor units as "12.50 USD".
func FormatMoney(amount int64, currency string) string {
	return decimal.New(amount, -2).StringFixed(2) + " " + strings.ToUpper(currency)
}

func localTime(t time.Time, tz string) time.Time {
	if tz == "" {
		return t.UTC()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}

// Render builds the confirmation email from the payload snapshot alone.
func Render(p models.ConfirmationPayload) (*Message, error) {
	if p.Client.Email == "" {
		return nil, fmt.Errorf("client %s has no email address", p.Client.ID)
	}
	r := p.Reservation
	when := localTime(r.ScheduledAt, p.Branch.Timezone)
	paid := r.AmountDue
	if p.Payment.Amount > 0 {
		paid = p.Payment.Amount
	}

	v := view{
		ClientName:    p.Client.Name,
		ServiceName:   p.Service.Name,
		StylistName:   p.Stylist.Name,
		BranchName:    p.Branch.Name,
		BranchAddress: p.Branch.Address,
		When:          when.Format("Monday, 2 January 2006 at 15:04 MST"),
		Duration:      p.Service.DurationMinutes,
		Reference:     r.ID,
		Subtotal:      FormatMoney(r.Subtotal, r.Currency),
		Discount:      FormatMoney(r.Discount, r.Currency),
		Paid:          FormatMoney(paid, r.Currency),
		PromotionCode: r.PromotionCode,
		HasDiscount:   r.Discount > 0,
	}

	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, v); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	return &Message{
		To:      p.Client.Email,
		Subject: fmt.Sprintf("Booking confirmed: %s on %s", p.Service.Name, when.Format("Jan 2 at 15:04")),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
