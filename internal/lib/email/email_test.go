package email

import (
	"strings"
	"testing"
)

func TestEveryTemplateRendersItsPreview(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, v := range data {
				if !strings.Contains(html, v) {
					t.Errorf("rendered %s is missing %q", name, v)
				}
			}
		})
	}
}

func TestRenderEscapesValues(t *testing.T) {
	html, err := Render(TemplateWelcome, map[string]string{"UserName": "<script>x</script>"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("user supplied name must be escaped")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render(Template("missing"), nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}
