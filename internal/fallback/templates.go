package fallback

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.BillNumber}}</title>
<style>
body { font-family: "Courier New", monospace; font-size: 13px; max-width: 320px; margin: 0 auto; }
h1 { font-size: 17px; text-align: center; margin: 8px 0 2px; }
.center { text-align: center; }
.meta { margin: 6px 0; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 1px 2px; }
th.num, td.num { text-align: right; }
.rule { border-top: 1px dashed #000; margin: 6px 0; }
.grand { font-weight: bold; font-size: 15px; }
.qr { text-align: center; margin: 10px 0; }
.qr img { width: 160px; height: 160px; }
</style>
</head>
<body>
<h1>{{.Outlet.Name}}</h1>
{{if .Outlet.Address}}<div class="center">{{.Outlet.Address}}</div>{{end}}
{{if .Outlet.Phone}}<div class="center">Ph: {{.Outlet.Phone}}</div>{{end}}
{{if .Outlet.GSTIN}}<div class="center">GSTIN: {{.Outlet.GSTIN}}</div>{{end}}
<div class="rule"></div>
<div class="meta">
Bill: {{.BillNumber}}<br>
{{if .Table}}Table: {{.Table}}<br>{{end}}
{{.OrderType}} | {{.Timestamp}}
{{if .Customer.Name}}<br>Customer: {{.Customer.Name}}{{end}}
{{if .Customer.Mobile}}<br>Mobile: {{.Customer.Mobile}}{{end}}
</div>
<div class="rule"></div>
<table>
<tr><th>Item</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td class="num">{{.Qty}}</td><td class="num">{{.Rate}}</td><td class="num">{{.Amount}}</td></tr>
{{end}}</table>
<div class="rule"></div>
<table>
{{range .Totals}}<tr><td>{{.Label}}</td><td class="num">{{.Amount}}</td></tr>
{{end}}<tr class="grand"><td>TOTAL</td><td class="num">{{.GrandTotal}}</td></tr>
</table>
<div class="rule"></div>
<div class="center">{{.Payment}}</div>
{{if .ShowQR}}<div class="qr"><img src="{{.QRDataURI}}" alt="UPI payment QR"></div>{{end}}
{{if .Outlet.Footer}}<div class="center">{{.Outlet.Footer}}</div>{{end}}
</body>
</html>
`

const kotTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>KOT {{.BillNumber}}</title>
<style>
body { font-family: "Courier New", monospace; font-size: 14px; max-width: 320px; margin: 0 auto; }
h1 { font-size: 18px; text-align: center; margin: 8px 0; }
.center { text-align: center; }
.reprint { text-align: center; font-weight: bold; }
table { width: 100%; border-collapse: collapse; }
td { padding: 2px; }
td.num { text-align: right; }
.comment { font-style: italic; padding-left: 12px; }
.rule { border-top: 1px dashed #000; margin: 6px 0; }
</style>
</head>
<body>
<h1>KOT</h1>
<div class="center">{{.Outlet}}</div>
<div class="center">Bill: {{.BillNumber}}{{if .Table}} | Table: {{.Table}}{{end}}</div>
<div class="center">{{.Timestamp}}</div>
{{if .Reprint}}<div class="reprint">** REPRINT **</div>{{end}}
<div class="rule"></div>
<table>
{{range .Rows}}<tr><td>{{.Name}}</td><td class="num">x{{.Qty}}</td><td>{{.Tag}}</td></tr>
{{if .Comment}}<tr><td colspan="3" class="comment">&gt; {{.Comment}}</td></tr>{{end}}
{{end}}</table>
<div class="rule"></div>
<div>Total Items: {{.TotalItems}}</div>
</body>
</html>
`
