package task

import (
	"testing"
)

func TestNewDefaults(t *testing.T) {
	got := *New()
	want := Task{Category: "General"}
	if got != want {
		t.Fatalf("New() = %+v, want %+v", got, want)
	}
	if c := NewWith("a", "", "", false).Category; c != "General" {
		t.Fatalf("NewWith empty category = %q, want General", c)
	}
}

func TestEncodeShape(t *testing.T) {
	tk := NewWith(`He said "hi"\now`, "line1\nline2", "Work", true)
	want := `{"title":"He said \"hi\"\\now","detail":"line1` + "\n" + `line2","category":"Work","completed":true}`
	if got := tk.Encode(); got != want {
		t.Fatalf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	cases := []*Task{
		New(),
		NewWith("Buy milk", "2 litres", "Personal", false),
		NewWith(`He said "hi"\now`, `C:\temp\`, "Work", true),
		NewWith("a, b: {c}", "[x], \"y\"", "Study", false),
		NewWith("unicode ✓ ünïcødé", "tab\there", "Custom label", true),
	}
	for _, want := range cases {
		got := Decode(want.Encode())
		if *got != *want {
			t.Errorf("Decode(Encode(%+v)) = %+v", *want, *got)
		}
	}
}

func TestDecodeDefaults(t *testing.T) {
	for _, in := range []string{"", "{}", "  { }  ", `{"other":"x"}`, "garbage", "{"} {
		got := *Decode(in)
		want := Task{Category: "General"}
		if got != want {
			t.Errorf("Decode(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestDecodeKeyOrderAndStrippedBraces(t *testing.T) {
	got := *Decode(` "completed" : true , "category":"Work","title":"x" `)
	want := Task{Title: "x", Category: "Work", Completed: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeCompleted(t *testing.T) {
	cases := map[string]bool{
		`{"completed":true}`:    true,
		`{"completed":TRUE}`:    true,
		`{"completed":"True"}`:  true,
		`{"completed":1}`:       true,
		`{"completed":"1"}`:     true,
		`{"completed":false}`:   false,
		`{"completed":"yes"}`:   false,
		`{"completed":2}`:       false,
		`{"completed":"true "}`: false,
	}
	for in, want := range cases {
		if got := Decode(in).Completed; got != want {
			t.Errorf("Decode(%s).Completed = %v, want %v", in, got, want)
		}
	}
}

func TestDecodeSkipsNestedUnknownValues(t *testing.T) {
	in := `{"meta":{"a":"}","b":[1,2,{"c":"]"}]},"title":"kept","tags":["x","y"],"completed":true}`
	got := *Decode(in)
	want := Task{Title: "kept", Category: "General", Completed: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeFailSoft(t *testing.T) {
	// The detail string is unterminated, so only title survives.
	got := *Decode(`{"title":"partial","category":"Work","detail":"never closed`)
	want := Task{Title: "partial", Category: "Work"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeUnicodeEscapes(t *testing.T) {
	got := Decode(`{"title":"caf\u00e9 \ud83d\ude00 a\/b\tc"}`).Title
	if want := "café 😀 a/b\tc"; got != want {
		t.Fatalf("title = %q, want %q", got, want)
	}
}

func TestMatches(t *testing.T) {
	tk := NewWith("Software Wars", "", "Work", false)
	cases := []struct {
		search, category string
		want             bool
	}{
		{"", "All", true},
		{"", "", true},
		{"war", "Work", true},
		{"WAR", "work", true},
		{"  war ", "all", true},
		{"war", "Study", false},
		{"peace", "All", false},
	}
	for _, c := range cases {
		if got := tk.Matches(c.search, c.category); got != c.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", c.search, c.category, got, c.want)
		}
	}
}
