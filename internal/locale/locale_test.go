package locale

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		accept string
		want   Lang
	}{
		{"", EN},
		{"bg", BG},
		{"fr", FR},
		{"bg-BG,bg;q=0.9,en;q=0.8", BG},
		{"fr-CA", FR},
		{"en-US,en;q=0.9", EN},
		{"ja", EN},
	}
	for _, tt := range tests {
		if got := Resolve(tt.accept, EN); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.accept, got, tt.want)
		}
	}
}

func TestResolve_Fallback(t *testing.T) {
	if got := Resolve("", BG); got != BG {
		t.Errorf("Resolve(empty, bg) = %q, want bg", got)
	}
}

func TestNamesPick(t *testing.T) {
	n := Names{EN: "Cover", BG: "Корица"}
	if got := n.Pick(BG); got != "Корица" {
		t.Errorf("Pick(bg) = %q", got)
	}
	if got := n.Pick(FR); got != "Cover" {
		t.Errorf("Pick(fr) = %q, want English fallback", got)
	}
	if got := (Names{FR: "Couverture"}).Pick(BG); got != "Couverture" {
		t.Errorf("Pick(bg) = %q, want any non-empty", got)
	}
	if got := (Names{}).Pick(EN); got != "" {
		t.Errorf("Pick on empty = %q", got)
	}
}

func TestCatalogTranslate(t *testing.T) {
	c := Builtin()
	if got := c.Translate(BG, KeyOrderReverted); got != "Поръчката е върната" {
		t.Errorf("Translate(bg) = %q", got)
	}
	if got := c.Translate(FR, "missing.key"); got != "missing.key" {
		t.Errorf("Translate(missing) = %q, want key", got)
	}
}
