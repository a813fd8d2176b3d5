package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"ofcoz/shared/constant"
	"ofcoz/shared/timezone"
)

//go:embed *.html
var files embed.FS

var Languages = []string{constant.LanguageEnglish, constant.LanguageChinese}

var methodLabels = map[string]map[string]string{
	constant.LanguageEnglish: {
		constant.PaymentMethodCash:  "Cash",
		constant.PaymentMethodToken: "Token",
		constant.PaymentMethodBR15:  "BR15 hours",
		constant.PaymentMethodBR30:  "BR30 hours",
		constant.PaymentMethodDP20:  "DP20 day pass",
	},
	constant.LanguageChinese: {
		constant.PaymentMethodCash:  "現金",
		constant.PaymentMethodToken: "代幣",
		constant.PaymentMethodBR15:  "BR15 時數",
		constant.PaymentMethodBR30:  "BR30 時數",
		constant.PaymentMethodDP20:  "DP20 日票",
	},
}

var unitLabels = map[string]map[string]string{
	constant.LanguageEnglish: {
		constant.PaymentMethodToken: "tokens",
		constant.PaymentMethodBR15:  "hours",
		constant.PaymentMethodBR30:  "hours",
		constant.PaymentMethodDP20:  "days",
	},
	constant.LanguageChinese: {
		constant.PaymentMethodToken: "個代幣",
		constant.PaymentMethodBR15:  "小時",
		constant.PaymentMethodBR30:  "小時",
		constant.PaymentMethodDP20:  "天",
	},
}

// Set holds one parsed template per kind and language.
type Set struct {
	templates map[string]*template.Template
}

type Rendered struct {
	Subject string
	HTML    string
}

func key(kind, language string) string {
	return kind + "." + language + ".html"
}

func funcs(language string) template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return timezone.Format(t, constant.DateOnlyLayout)
		},
		"clock": func(t time.Time) string {
			return timezone.Format(t, constant.ClockLayout)
		},
		"amount": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"method": func(method string) string {
			if label, ok := methodLabels[language][method]; ok {
				return label
			}

			return method
		},
		"unit": func(method string) string {
			return unitLabels[language][method]
		},
	}
}

// Load parses every kind in both languages and fails on the first missing or broken template.
func Load(kinds []string) (*Set, error) {
	set := &Set{templates: map[string]*template.Template{}}

	for _, kind := range kinds {
		for _, language := range Languages {
			name := key(kind, language)

			tmpl, err := template.New(name).Funcs(funcs(language)).ParseFS(files, name)
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}

			set.templates[name] = tmpl
		}
	}

	return set, nil
}

// Render falls back to English for an unknown language.
func (s *Set) Render(kind, language string, data any) (Rendered, error) {
	tmpl, ok := s.templates[key(kind, language)]
	if !ok {
		tmpl, ok = s.templates[key(kind, constant.LanguageEnglish)]
	}

	if !ok {
		return Rendered{}, fmt.Errorf("no template for notification kind %s", kind)
	}

	var subject, body bytes.Buffer

	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Rendered{}, fmt.Errorf("failed to render subject: %w", err)
	}

	if err := tmpl.ExecuteTemplate(&body, tmpl.Name(), data); err != nil {
		return Rendered{}, fmt.Errorf("failed to render body: %w", err)
	}

	return Rendered{Subject: subject.String(), HTML: body.String()}, nil
}
