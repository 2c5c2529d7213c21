package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("nope"); got.Name != Billu.Name {
		t.Errorf("unknown theme = %q, want default %q", got.Name, Billu.Name)
	}
}

func TestSetActive(t *testing.T) {
	prev := Active
	t.Cleanup(func() { Active = prev })

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Errorf("Active = %q", Active.Name)
	}
	if names := Names(); len(names) != len(All) || names[0] != "billu" {
		t.Errorf("Names = %v", names)
	}
}
