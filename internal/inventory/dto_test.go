package inventory

import "testing"

func TestResolveBrandChain(t *testing.T) {
	vivo := "Vivo"
	blank := "   "

	if got := ResolveBrand(&vivo, "Samsung", "Galaxy M14"); got != "Vivo" {
		t.Fatalf("explicit brand should win, got %q", got)
	}
	if got := ResolveBrand(nil, "Samsung", "Galaxy M14"); got != "Samsung" {
		t.Fatalf("catalog brand should win over product name, got %q", got)
	}
	if got := ResolveBrand(&blank, "", "Galaxy M14"); got != "Galaxy" {
		t.Fatalf("first product-name token expected, got %q", got)
	}
	if got := ResolveBrand(nil, "", "   "); got != "" {
		t.Fatalf("expected empty brand, got %q", got)
	}
}

func TestDedupeIMEIs(t *testing.T) {
	got := DedupeIMEIs([]string{" A ", "B", "A", "", "B", "C"})
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("deduped = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("deduped = %v, want %v", got, want)
		}
	}
	if DedupeIMEIs(nil) != nil {
		t.Fatalf("nil input should stay nil")
	}
}
