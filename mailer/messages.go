package mailer

import (
	"fmt"
	"html"
	"strings"

	"bitefactory-backend/invoice"
	"bitefactory-backend/models"
)

func (m *Mailer) restaurantJob(order models.Order, artifact *invoice.Artifact) Job {
	adminLink := strings.TrimRight(m.cfg.SiteBaseURL, "/") + "/admin/orders/" + order.OrderNumber

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New order %s</h2>", order.OrderNumber)
	fmt.Fprintf(&b, "<p><b>Customer:</b> %s (%s)</p>",
		html.EscapeString(order.CustomerInfo.Name), html.EscapeString(order.CustomerInfo.Phone))
	fmt.Fprintf(&b, "<p><b>Deliver to:</b> %s</p>", html.EscapeString(order.DeliveryInfo.Address))
	b.WriteString(itemsTable(order))
	fmt.Fprintf(&b, "<p><b>Total: ₹%.2f</b> (%s)</p>", order.Total, paymentLabel(order.PaymentMethod))
	fmt.Fprintf(&b, `<p><a href="%s">Open in the management panel</a></p>`, adminLink)

	return Job{
		To:       m.cfg.RestaurantEmail,
		Subject:  fmt.Sprintf("New Order %s - %s", order.OrderNumber, m.cfg.RestaurantName),
		Body:     b.String(),
		Artifact: artifact,
	}
}

func (m *Mailer) customerJob(order models.Order, artifact *invoice.Artifact) Job {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thanks for your order, %s!</h2>", html.EscapeString(order.CustomerInfo.Name))
	fmt.Fprintf(&b, "<p>Your order <b>%s</b> has been placed. The invoice is attached.</p>", order.OrderNumber)
	b.WriteString(itemsTable(order))
	fmt.Fprintf(&b, "<p>Subtotal ₹%.2f &middot; Tax ₹%.2f &middot; Delivery ₹%.2f</p>",
		order.Subtotal, order.Tax, order.DeliveryFee)
	fmt.Fprintf(&b, "<p><b>Total: ₹%.2f</b> &middot; %s</p>", order.Total, paymentLabel(order.PaymentMethod))
	fmt.Fprintf(&b, "<p>Delivery address: %s</p>", html.EscapeString(order.DeliveryInfo.Address))
	fmt.Fprintf(&b, "<p>Questions? Reach us at %s or %s.</p>",
		html.EscapeString(m.cfg.RestaurantEmail), html.EscapeString(m.cfg.RestaurantPhone))

	return Job{
		To:       order.CustomerInfo.Email,
		Subject:  fmt.Sprintf("Your %s order %s", m.cfg.RestaurantName, order.OrderNumber),
		Body:     b.String(),
		Artifact: artifact,
	}
}

func itemsTable(order models.Order) string {
	var b strings.Builder
	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0">`)
	b.WriteString("<tr><th>Item</th><th>Qty</th><th>Amount</th></tr>")
	for _, item := range order.Items {
		name := html.EscapeString(item.Name)
		if item.Variant != nil {
			name += " (" + html.EscapeString(*item.Variant) + ")"
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>₹%.2f</td></tr>", name, item.Quantity, item.Amount())
	}
	b.WriteString("</table>")
	return b.String()
}

func paymentLabel(method string) string {
	if method == "online" {
		return "Paid online"
	}
	return "Cash on Delivery"
}
