package listfilter

import "testing"

type row struct {
	name   string
	artist string
	genre  string
}

func TestMatches(t *testing.T) {
	cases := []struct {
		q      string
		fields []string
		want   bool
	}{
		{"", []string{"anything"}, true},
		{"  ", nil, true},
		{"grace", []string{"Amazing Grace"}, true},
		{"GRACE", []string{"amazing grace"}, true},
		{"hill", []string{"Amazing Grace", "Hillsong"}, true},
		{"zzz", []string{"Amazing Grace", "Hillsong"}, false},
		{"x", nil, false},
	}
	for _, tc := range cases {
		if got := Matches(tc.q, tc.fields...); got != tc.want {
			t.Fatalf("Matches(%q, %v) = %v, want %v", tc.q, tc.fields, got, tc.want)
		}
	}
}

func TestOptionMatches(t *testing.T) {
	if !OptionMatches("", "Worship") || !OptionMatches("All", "Worship") || !OptionMatches("all", "") {
		t.Fatal("empty and All should select every row")
	}
	if !OptionMatches("Worship", "Worship") {
		t.Fatal("expected equal option to match")
	}
	if OptionMatches("Worship", "worship") {
		t.Fatal("option comparison is exact")
	}
}

func TestApply(t *testing.T) {
	rows := []row{
		{"Amazing Grace", "Newton", "Hymn"},
		{"Build My Life", "Housefires", "Worship"},
		{"Graves Into Gardens", "Elevation", "Worship"},
	}
	text := func(r row) []string { return []string{r.name, r.artist} }
	genre := func(r row) string { return r.genre }

	got := Apply(rows, Criteria{Query: "gra", Option: "Worship"}, text, genre)
	if len(got) != 1 || got[0].name != "Graves Into Gardens" {
		t.Fatalf("unexpected filter result %+v", got)
	}

	got = Apply(rows, Criteria{Option: AllOption}, text, genre)
	if len(got) != 3 {
		t.Fatalf("expected all rows, got %d", len(got))
	}

	got = Apply(rows, Criteria{Query: "house", Option: "Hymn"}, text, nil)
	if len(got) != 1 || got[0].artist != "Housefires" {
		t.Fatalf("nil option func should ignore option, got %+v", got)
	}
}

func TestCriteriaEmpty(t *testing.T) {
	if !(Criteria{}).Empty() || !(Criteria{Option: "All"}).Empty() {
		t.Fatal("expected empty criteria")
	}
	if (Criteria{Query: "a"}).Empty() || (Criteria{Option: "active"}).Empty() {
		t.Fatal("expected non-empty criteria")
	}
}
