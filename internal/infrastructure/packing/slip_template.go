package packing

// Page dimensions for 4x6 inch label stock, in millimeters.
const (
	slipPageWidthMM  = 101.6
	slipPageHeightMM = 152.4
	slipMarginMM     = 4
)

// defaultSlipTemplate is the built-in packing slip layout for 4x6 inch
// label stock. It carries the order identity, the destination and the
// line items, plus a QR code of the order ID for warehouse scanning.
const defaultSlipTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 9pt; color: #000; }
  .header { display: flex; justify-content: space-between; align-items: flex-start;
            border-bottom: 2px solid #000; padding-bottom: 4px; }
  .header h1 { font-size: 13pt; text-transform: uppercase; }
  .header .meta { font-size: 8pt; text-align: right; }
  .qr { width: 72px; height: 72px; }
  .ship-to { margin-top: 6px; }
  .ship-to .caption { font-size: 7pt; text-transform: uppercase; color: #444; }
  .ship-to .name { font-weight: bold; }
  table.items { width: 100%; border-collapse: collapse; margin-top: 8px; }
  table.items th { font-size: 7pt; text-transform: uppercase; text-align: left;
                   border-bottom: 1px solid #000; padding: 2px 0; }
  table.items td { padding: 3px 0; border-bottom: 1px dotted #999; vertical-align: top; }
  td.qty, th.qty { text-align: center; width: 28px; }
  td.price, th.price { text-align: right; width: 60px; }
  .sku { font-size: 7pt; color: #555; }
  .totals { margin-top: 6px; text-align: right; font-weight: bold; }
  .footer { position: absolute; bottom: 4mm; left: 4mm; right: 4mm;
            font-size: 7pt; color: #444; border-top: 1px solid #000; padding-top: 2px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>Packing Slip</h1>
      <div class="meta">
        Order {{.OrderID}}<br>
        {{if .CreatedAt}}Ordered {{formatDate .CreatedAt}}<br>{{end}}
        {{if .BuyerUsername}}Buyer: {{.BuyerUsername}}{{end}}
      </div>
    </div>
    {{if .QRDataURI}}<img class="qr" src="{{.QRDataURI}}" alt="{{.OrderID}}">{{end}}
  </div>

  <div class="ship-to">
    <div class="caption">Ship To</div>
    <div class="name">{{.ShipTo.Name}}</div>
    <div>{{.ShipTo.Street1}}</div>
    {{if .ShipTo.Street2}}<div>{{.ShipTo.Street2}}</div>{{end}}
    <div>{{.ShipTo.City}} {{.ShipTo.StateOrProvince}} {{.ShipTo.PostalCode}}</div>
    {{if .ShipTo.CountryCode}}<div>{{.ShipTo.CountryCode}}</div>{{end}}
  </div>

  <table class="items">
    <thead>
      <tr><th>Item</th><th class="qty">Qty</th><th class="price">Price</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{truncate .Title 60}}{{if .SKU}}<div class="sku">SKU {{.SKU}}</div>{{end}}</td>
        <td class="qty">{{.Quantity}}</td>
        <td class="price">{{formatMoney .Total $.Currency}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="totals">{{.ItemCount}} item(s) &middot; Total {{formatMoney .Total .Currency}}</div>

  <div class="footer">Generated {{formatDateTime .GeneratedAt}}</div>
</body>
</html>`
