package fetcher

import "testing"

func TestDetectContactForms(t *testing.T) {
	page := `<html><body>
<form action="/search" method="get"><input type="text" name="q"></form>
<form action="/contact-submit" method="post">
  <input type="text" name="name" placeholder="Your name" required>
  <input type="email" name="email" required>
  <textarea name="message"></textarea>
  <input type="submit" value="Send">
</form>
</body></html>`

	forms := DetectContactForms(page, "https://acme.com/contact")
	if len(forms) != 1 {
		t.Fatalf("got %d forms, want 1", len(forms))
	}
	f := forms[0]
	if f.Action != "/contact-submit" || f.Method != "POST" {
		t.Errorf("form = %+v", f)
	}
	if len(f.Fields) != 3 {
		t.Errorf("fields = %+v", f.Fields)
	}
	for _, field := range f.Fields {
		if field.Type == "submit" {
			t.Error("submit button should be excluded from fields")
		}
	}
}

func TestDetectContactFormsIgnoresSearch(t *testing.T) {
	page := `<html><body><form action="/search"><input type="text" name="q" placeholder="Search"></form></body></html>`
	if forms := DetectContactForms(page, "https://acme.com"); len(forms) != 0 {
		t.Fatalf("got %d forms, want 0", len(forms))
	}
}
