package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewScriptLine(t *testing.T) {
	tests := []struct {
		text      string
		words     int
		digitHits []string
	}{
		{"i finally slept through the night", 6, nil},
		{"50,000 people tried this", 4, []string{"50,000"}},
		{"5,000 people tried this", 4, []string{"5,000"}},
		{"rated 4.8 by 2019.", 4, []string{"4.8", "2019"}},
		{"it costs $5 a week", 5, []string{"$5"}},
		{"one of 3 friends said so", 6, nil},
		{"since 2019 and $ 40 later", 6, []string{"2019", "$ 40"}},
		{"", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			line := NewScriptLine(tt.text)
			if line.WordCount != tt.words {
				t.Errorf("WordCount = %d, want %d", line.WordCount, tt.words)
			}
			if !reflect.DeepEqual(line.DigitMatches, tt.digitHits) {
				t.Errorf("DigitMatches = %q, want %q", line.DigitMatches, tt.digitHits)
			}
		})
	}
}

func TestURL(t *testing.T) {
	t.Run("空文字列はNoneになること", func(t *testing.T) {
		if SomeURL("").IsSome() || SomeURL("   ").IsSome() {
			t.Error("空の URL が Some になりました")
		}
	})

	t.Run("Orはフォールバックを返すこと", func(t *testing.T) {
		got := NoURL().Or(SomeURL("https://cdn.example.com/sheet.png"))
		if got.String() != "https://cdn.example.com/sheet.png" {
			t.Errorf("unexpected %q", got)
		}
		kept := SomeURL("https://a").Or(SomeURL("https://b"))
		if kept.String() != "https://a" {
			t.Errorf("unexpected %q", kept)
		}
	})

	t.Run("IsHTTPSはスキームとホストを確認すること", func(t *testing.T) {
		cases := map[string]bool{
			"https://cdn.example.com/a.png": true,
			"http://cdn.example.com/a.png":  false,
			"https://":                      false,
			"/local/path.png":               false,
			"":                              false,
		}
		for raw, want := range cases {
			if got := SomeURL(raw).IsHTTPS(); got != want {
				t.Errorf("IsHTTPS(%q) = %v, want %v", raw, got, want)
			}
		}
	})

	t.Run("JSONではNoneがnullになること", func(t *testing.T) {
		data, err := json.Marshal(AnchorPair{First: SomeURL("https://a")})
		if err != nil {
			t.Fatal(err)
		}
		want := `{"first_url":"https://a","last_url":null}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}

		var decoded AnchorPair
		if err := json.Unmarshal([]byte(`{"first_url":"","last_url":"https://b"}`), &decoded); err != nil {
			t.Fatal(err)
		}
		if decoded.First.IsSome() || decoded.Last.String() != "https://b" {
			t.Errorf("unexpected %+v", decoded)
		}
	})
}

func TestAnchorURLs_IsEmpty(t *testing.T) {
	t.Run("すべて空白ならtrueになること", func(t *testing.T) {
		a := AnchorURLs{Before: " ", Sheet: "", After: "\t"}
		if !a.IsEmpty() {
			t.Error("空白だけのアンカーは IsEmpty であるべきです")
		}
	})
	t.Run("1枚でもあればfalseになること", func(t *testing.T) {
		a := AnchorURLs{Sheet: "https://cdn.example.com/sheet.png"}
		if a.IsEmpty() {
			t.Error("シート画像があるのに IsEmpty になりました")
		}
	})
}
