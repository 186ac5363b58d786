package export_test

import (
	"strings"
	"testing"

	"github.com/Simplici0/quotedoc/internal/export"
)

func TestHasUnsupportedColor(t *testing.T) {
	cases := map[string]bool{
		"oklch(0.5 0.1 200)":             true,
		"OKLab(0.5 0.1 0.1)":             true,
		"lab(50% 0 0)":                   true,
		"color-mix(in srgb, red, white)": true,
		"color(display-p3 1 0 0)":        true,
		"#fff":                           false,
		"rgb(0 0 0)":                     false,
		"background-color":               false,
	}
	for in, want := range cases {
		if got := export.HasUnsupportedColor(in); got != want {
			t.Errorf("HasUnsupportedColor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFallbackFor(t *testing.T) {
	cases := map[string]string{
		"background-color": export.FallbackBackground,
		"background":       export.FallbackBackground,
		"--bg-card":        export.FallbackBackground,
		"color":            export.FallbackForeground,
		"border-color":     export.FallbackForeground,
		"fill":             export.FallbackForeground,
	}
	for in, want := range cases {
		if got := export.FallbackFor(in); got != want {
			t.Errorf("FallbackFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		prop, in, want string
	}{
		{"border", "1px solid oklch(0.7 0.1 20)", "1px solid #000000"},
		{"color", "#123456", "#123456"},
		{
			"background",
			"linear-gradient(oklch(1 0 0), color-mix(in srgb, oklch(0.5 0 0) 50%, white))",
			"linear-gradient(#ffffff, #ffffff)",
		},
	}
	for _, tt := range tests {
		if got := export.NormalizeValue(tt.prop, tt.in); got != tt.want {
			t.Errorf("NormalizeValue(%q, %q) = %q, want %q", tt.prop, tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDeclarations_LeavesSelectorsAlone(t *testing.T) {
	in := "a:hover{color:oklch(0.2 0 0)} p{margin:0}"
	want := "a:hover{color: #000000} p{margin:0}"
	if got := export.NormalizeDeclarations(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeDeclarations_CustomProperties(t *testing.T) {
	in := ":root{--bg-card: oklch(0.9 0 0); --accent: oklab(0.5 0.1 0.1)}"
	want := ":root{--bg-card: #ffffff; --accent: #000000}"
	if got := export.NormalizeDeclarations(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeHTML(t *testing.T) {
	page := `<html><head><style>body{background:lab(50% 0 0)}</style></head>` +
		`<body><p style="color: oklch(0.3 0 0)">x</p>` +
		`<svg><circle fill="oklch(0.5 0.2 30)" stroke="#333"></circle></svg></body></html>`

	out, err := export.NormalizeHTML(page)
	if err != nil {
		t.Fatalf("NormalizeHTML: %v", err)
	}

	for _, want := range []string{
		"background: #ffffff",
		`style="color: #000000"`,
		`fill="#000000"`,
		`stroke="#333"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if export.HasUnsupportedColor(out) {
		t.Errorf("output still has unsupported colors:\n%s", out)
	}
}
