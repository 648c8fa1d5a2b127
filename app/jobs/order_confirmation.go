// Package jobs defines the background jobs dispatched through the queue.
package jobs

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/pkg/mail"
	"github.com/granthkosh/granthkosh/pkg/queue"
)

// OrderConfirmationJob emails the customer after a successful checkout.
// Only plain serialisable fields are carried so the job survives a round
// trip through the Redis queue.
type OrderConfirmationJob struct {
	OrderNumber string             `json:"orderNumber"`
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	Items       []models.OrderItem `json:"items"`
	Subtotal    float64            `json:"subtotal"`
	ShippingFee float64            `json:"shippingFee"`
	Taxes       float64            `json:"taxes"`
	Total       float64            `json:"total"`
}

// NewOrderConfirmation builds the job from a placed order.
func NewOrderConfirmation(order models.Order) *OrderConfirmationJob {
	return &OrderConfirmationJob{
		OrderNumber: order.OrderNumber,
		Email:       order.Shipping.Email,
		Name:        strings.TrimSpace(order.Shipping.FirstName + " " + order.Shipping.LastName),
		Items:       order.Items,
		Subtotal:    order.Subtotal,
		ShippingFee: order.ShippingFee,
		Taxes:       order.Taxes,
		Total:       order.Total,
	}
}

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<h1>Thanks for your order, {{.Name}}!</h1>
<p>Order <strong>{{.OrderNumber}}</strong> has been received.</p>
<table>
{{range .Items}}
  <tr><td>{{.Title}} × {{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{end}}
  <tr><td>Subtotal</td><td>{{printf "%.2f" .Subtotal}}</td></tr>
  <tr><td>Shipping</td><td>{{printf "%.2f" .ShippingFee}}</td></tr>
  <tr><td>Taxes</td><td>{{printf "%.2f" .Taxes}}</td></tr>
  <tr><td><strong>Total</strong></td><td><strong>{{printf "%.2f" .Total}}</strong></td></tr>
</table>
`))

// Handle sends the confirmation email.
func (j *OrderConfirmationJob) Handle() error {
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s confirmed", j.OrderNumber)).
		Template(confirmationTmpl, j).
		Send()
}

// Register makes every job type in this package deserialisable by the queue
// workers. Call once at boot.
func Register() {
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job {
		return &OrderConfirmationJob{}
	})
}
