package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"website-intel/internal/models"
)

var formIndicators = []string{
	"contact", "message", "inquiry", "email", "phone", "reach", "get in touch", "name",
}

// DetectContactForms finds forms on a page that look like contact forms:
// at least two distinct indicator words across the form's action, visible
// text, and field names or placeholders.
func DetectContactForms(rawHTML, pageURL string) []models.ContactForm {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var forms []models.ContactForm
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		action := strings.TrimSpace(form.AttrOr("action", ""))
		method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", "")))
		if method == "" {
			method = "GET"
		}

		var fields []models.FormField
		haystack := strings.ToLower(action + " " + form.Text())
		form.Find("input,textarea,select").Each(func(_ int, el *goquery.Selection) {
			field := models.FormField{
				Type:        strings.ToLower(el.AttrOr("type", goquery.NodeName(el))),
				Name:        el.AttrOr("name", ""),
				Placeholder: el.AttrOr("placeholder", ""),
			}
			_, field.Required = el.Attr("required")
			if field.Type == "hidden" || field.Type == "submit" {
				return
			}
			fields = append(fields, field)
			haystack += " " + strings.ToLower(field.Name+" "+field.Placeholder)
		})

		hits := 0
		for _, ind := range formIndicators {
			if strings.Contains(haystack, ind) {
				hits++
			}
		}
		if hits < 2 || len(fields) == 0 {
			return
		}
		forms = append(forms, models.ContactForm{
			PageURL: pageURL,
			Action:  action,
			Method:  method,
			Fields:  fields,
		})
	})
	return forms
}
