package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	got := StripHTML("<b>Sonic</b> &amp; <i>Tails</i>")
	if got != "Sonic & Tails" {
		t.Fatalf("expected 'Sonic & Tails', got %q", got)
	}
}

func TestStripHTML_EncodedTags(t *testing.T) {
	got := StripHTML("&lt;script&gt;alert(1)&lt;/script&gt;safe")
	if got != "alert(1)safe" {
		t.Fatalf("expected encoded tags stripped, got %q", got)
	}
}

func TestSearchName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sonic CD™: Special Edition!", "Sonic CD Special Edition"},
		{"Castlevania: Symphony of the Night", "Castlevania Symphony of the Night"},
		{"  Mega  Man   X  ", "Mega Man X"},
		{"R-Type", "RType"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SearchName(tc.in); got != tc.want {
			t.Fatalf("SearchName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
