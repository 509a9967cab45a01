// Package email renders the customer-facing plaintext quote email. It is
// a pure formatting step over already-computed quote fields and carries
// no pricing responsibility.
package email

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/obcq/quoter-api/internal/domain"
)

const draftTemplate = `Dear {{.CustomerName}},

thank you for your inquiry. We are pleased to offer the following
on-board courier service:

Route:             {{.Route}}
Pickup:            {{.Pickup}}
Delivery deadline: {{.Deadline}}

Price: {{.Price}} (all inclusive)

The price covers flights, ground transportation and courier time. The
offer is subject to flight availability at the time of booking.

Best regards,
OBC Operations
`

var tmpl = template.Must(template.New("quote-email").Parse(draftTemplate))

type draftData struct {
	CustomerName string
	Route        string
	Pickup       string
	Deadline     string
	Price        string
}

// Draft renders the subject and plaintext body for a quote
func Draft(quote *domain.Quote) (domain.EmailDraftResponse, error) {
	data := draftData{
		CustomerName: quote.CustomerName,
		Route:        fmt.Sprintf("%s -> %s", quote.OriginCity, quote.DestinationCity),
		Pickup:       formatWindow(quote.PickupTime),
		Deadline:     formatWindow(quote.DeliveryDeadline),
		Price:        fmt.Sprintf("%.2f %s", quote.PriceToCustomer, quote.Currency),
	}

	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return domain.EmailDraftResponse{}, fmt.Errorf("failed to render email draft: %w", err)
	}

	return domain.EmailDraftResponse{
		Subject: fmt.Sprintf("OBC quote %s -> %s", quote.OriginCity, quote.DestinationCity),
		Body:    body.String(),
	}, nil
}

func formatWindow(t *time.Time) string {
	if t == nil {
		return "to be confirmed"
	}
	return t.Format("02 Jan 2006 15:04 MST")
}
