package invoice

import (
	"bytes"
	"fmt"
	"html/template"

	"bitefactory-backend/models"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #333; margin: 0; padding: 24px; }
  .header { border-bottom: 3px solid #d35400; padding-bottom: 12px; margin-bottom: 20px; }
  .header h1 { color: #d35400; margin: 0; font-size: 26px; }
  .header p { margin: 2px 0; font-size: 12px; color: #777; }
  .meta { display: flex; justify-content: space-between; margin-bottom: 20px; font-size: 13px; }
  .meta h3 { margin: 0 0 6px 0; font-size: 13px; text-transform: uppercase; color: #d35400; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th { background: #d35400; color: #fff; text-align: left; padding: 8px; }
  td { border-bottom: 1px solid #eee; padding: 8px; }
  .num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; font-size: 13px; }
  .totals td { padding: 4px 8px; border: none; }
  .totals .grand td { border-top: 2px solid #d35400; font-weight: bold; font-size: 15px; }
  .footer { margin-top: 28px; font-size: 12px; color: #777; border-top: 1px solid #eee; padding-top: 10px; }
</style>
</head>
<body>
  <div class="header">
    <h1>{{.RestaurantName}}</h1>
    <p>{{.RestaurantAddress}}</p>
    <p>{{.RestaurantEmail}} &middot; {{.RestaurantPhone}}</p>
  </div>
  <div class="meta">
    <div>
      <h3>Invoice</h3>
      <p>Order {{.OrderNumber}}<br>{{.OrderDate.Format "02 Jan 2006 15:04"}}</p>
    </div>
    <div>
      <h3>Billed To</h3>
      <p>{{.Customer.Name}}<br>{{.Customer.Email}}<br>{{.Customer.Phone}}</p>
    </div>
    <div>
      <h3>Deliver To</h3>
      <p>{{.Delivery.Address}}<br>{{.Delivery.Phone}}</p>
    </div>
  </div>
  <table>
    <tr><th>Item</th><th>Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
    {{range .Items}}
    <tr>
      <td>{{.Name}}{{if .Variant}} ({{.Variant}}){{end}}</td>
      <td>{{.Quantity}}</td>
      <td class="num">{{money .Price}}</td>
      <td class="num">{{money .Amount}}</td>
    </tr>
    {{end}}
  </table>
  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{money .Subtotal}}</td></tr>
    <tr><td>Tax</td><td class="num">{{money .Tax}}</td></tr>
    <tr><td>Delivery Fee</td><td class="num">{{money .DeliveryFee}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">{{money .Total}}</td></tr>
  </table>
  <div class="footer">
    Payment method: {{if eq .PaymentMethod "cod"}}Cash on Delivery{{else}}Online{{end}}.
    Thank you for ordering with {{.RestaurantName}}.
  </div>
</body>
</html>`))

// renderHTML builds the self-contained styled document. All styling is
// inline so the renderer needs no network fetches.
func renderHTML(data models.InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
