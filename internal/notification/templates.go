package notification

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// Message is the data available to every status template.
type Message struct {
	TrackingCode string
	CustomerName string
	Services     []string
	Status       string
	StatusLabel  string
	Total        int64
}

var statusLabels = map[string]string{
	"pending":     "Menunggu",
	"in_progress": "Sedang Dikerjakan",
	"completed":   "Selesai",
	"cancelled":   "Dibatalkan",
}

const fallbackTemplate = "default"

var defaultTemplates = map[string]string{
	fallbackTemplate: `Halo {{.CustomerName}}, status kendaraan Anda ({{.TrackingCode}}) sekarang: {{.StatusLabel}}.
Layanan:
{{numbered .Services}}Total: {{rupiah .Total}}`,

	"pending": `Halo {{.CustomerName}}, terima kasih telah mencuci kendaraan di Wash Corner.
Kode tracking: {{.TrackingCode}}
Layanan:
{{numbered .Services}}Total: {{rupiah .Total}}
Status: {{.StatusLabel}}`,

	"completed": `Halo {{.CustomerName}}, kendaraan Anda ({{.TrackingCode}}) sudah selesai dan siap diambil.
Layanan:
{{numbered .Services}}Total: {{rupiah .Total}}
Terima kasih!`,
}

var funcs = template.FuncMap{
	"rupiah":   Rupiah,
	"numbered": numbered,
}

// Templates renders per-status messages. Statuses without their own
// template use the default one.
type Templates struct {
	byStatus map[string]*template.Template
}

// NewTemplates parses the built-in templates and applies overrides keyed by
// status (or "default").
func NewTemplates(overrides map[string]string) (*Templates, error) {
	sources := make(map[string]string, len(defaultTemplates)+len(overrides))
	for k, v := range defaultTemplates {
		sources[k] = v
	}
	for k, v := range overrides {
		if strings.TrimSpace(v) != "" {
			sources[strings.ToLower(k)] = v
		}
	}

	t := &Templates{byStatus: make(map[string]*template.Template, len(sources))}
	for name, src := range sources {
		tpl, err := template.New(name).Funcs(funcs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		t.byStatus[name] = tpl
	}
	return t, nil
}

func (t *Templates) Render(msg Message) (string, error) {
	if msg.StatusLabel == "" {
		msg.StatusLabel = StatusLabel(msg.Status)
	}
	if msg.CustomerName == "" {
		msg.CustomerName = "Pelanggan"
	}

	tpl, ok := t.byStatus[msg.Status]
	if !ok {
		tpl = t.byStatus[fallbackTemplate]
	}
	var b strings.Builder
	if err := tpl.Execute(&b, msg); err != nil {
		return "", fmt.Errorf("render %s template: %w", tpl.Name(), err)
	}
	return b.String(), nil
}

func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Rupiah formats an amount as "Rp 1.250.000".
func Rupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "Rp " + b.String()
}

func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}
