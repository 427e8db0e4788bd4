package document

import "testing"

func TestFilename(t *testing.T) {
	cases := []struct {
		title, tag, want string
	}{
		{"Zakat on Digital Assets", "KitabAI", "Zakat_on_Digital_Assets_KitabAI.docx"},
		{"**Fiqh**: Purity & Prayer!", "KitabAI", "Fiqh_Purity_Prayer_KitabAI.docx"},
		{"  ", "KitabAI", "book_KitabAI.docx"},
		{"Salah", "", "Salah.docx"},
		{"أحكام الزكاة", "KitabAI", "أحكام_الزكاة_KitabAI.docx"},
	}
	for _, tc := range cases {
		if got := Filename(tc.title, tc.tag); got != tc.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tc.title, tc.tag, got, tc.want)
		}
	}
}
