package handlers

import "html/template"

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Ticket Form API</title></head>
<body>
<h1>Ticket Form API</h1>
<p>This server accepts contact form submissions and opens support tickets.</p>
<p>Open <a href="/form">/form</a> to use the form, or send a multipart POST to /submit.</p>
</body>
</html>`

const formPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Contact support</title>
{{- if .SiteKey }}
<script src="https://www.google.com/recaptcha/api.js" async defer></script>
{{- end }}
</head>
<body>
<form id="ticket-form" action="/submit" method="post" enctype="multipart/form-data">
<div>
    <label for="subject">Subject</label><br>
    <input type="text" id="subject" name="subject" value="{{ .Prefill.Subject }}" required><br>
    <label for="description">Description</label><br>
    <textarea id="description" name="description" rows="6" required>{{ .Prefill.Description }}</textarea><br>
    <label for="shopify_order_id">Shopify Order ID</label><br>
    <input type="text" id="shopify_order_id" name="shopify_order_id" value="{{ .Prefill.OrderID }}"><br>
    <label for="attachment">Attachment (optional, max {{ .MaxUploadMiB }}MB)</label><br>
    <input type="file" id="attachment" name="attachment"><br>
    <label for="name">Name</label><br>
    <input type="text" id="name" name="name" value="{{ .Prefill.Name }}" required><br>
    <label for="email">Email</label><br>
    <input type="email" id="email" name="email" value="{{ .Prefill.Email }}" required><br><br>
</div>
{{- if .SiteKey }}
<div>
    <div class="g-recaptcha" data-sitekey="{{ .SiteKey }}"></div>
</div>
{{- end }}
<div>
    <button type="submit">Submit</button>
</div>
</form>
{{- if .AutoSubmit }}
<script>document.getElementById("ticket-form").submit();</script>
{{- end }}
</body>
</html>`

var (
	indexTemplate = template.Must(template.New("index").Parse(indexPage))
	formTemplate  = template.Must(template.New("form").Parse(formPage))
)
