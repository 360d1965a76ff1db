package adapter

import "testing"

func TestParseMessagePrefixedCommands(t *testing.T) {
	ma := NewMessageAdapter("/")

	tests := []struct {
		text     string
		wantKey  string
		wantArgs string
	}{
		{"/найти @technews", CommandFind, "@technews"},
		{"/find t.me/technews", CommandFind, "t.me/technews"},
		{"/экспорт", CommandExport, ""},
		{"/csv", CommandExport, ""},
		{"/статистика", CommandStats, ""},
		{"/история", CommandHistory, ""},
		{"/recent", CommandHistory, ""},
		{"/помощь", CommandHelp, ""},
		{"/start", CommandHelp, ""},
	}

	for _, tt := range tests {
		parsed := ma.ParseMessage(tt.text)
		if parsed.Key != tt.wantKey {
			t.Errorf("ParseMessage(%q).Key = %q, want %q", tt.text, parsed.Key, tt.wantKey)
		}
		if parsed.Args != tt.wantArgs {
			t.Errorf("ParseMessage(%q).Args = %q, want %q", tt.text, parsed.Args, tt.wantArgs)
		}
	}
}

func TestParseMessageImplicitFind(t *testing.T) {
	ma := NewMessageAdapter("/")

	parsed := ma.ParseMessage("гляньте вот этот канал https://t.me/technews")
	if parsed.Key != CommandFind {
		t.Errorf("Key = %q, want find for bare message with link", parsed.Key)
	}
	if parsed.Args == "" {
		t.Error("Args empty, want full message text")
	}
}

func TestParseMessageUnknown(t *testing.T) {
	ma := NewMessageAdapter("/")

	for _, text := range []string{"", "привет", "/непонятно", "/"} {
		if parsed := ma.ParseMessage(text); parsed.Key != CommandUnknown {
			t.Errorf("ParseMessage(%q).Key = %q, want unknown", text, parsed.Key)
		}
	}
}

func TestParseMessageStripsControlChars(t *testing.T) {
	ma := NewMessageAdapter("/")

	parsed := ma.ParseMessage("/найти\x00 @technews\x1F")
	if parsed.Key != CommandFind {
		t.Fatalf("Key = %q, want find", parsed.Key)
	}
	if parsed.Args != "@technews" {
		t.Errorf("Args = %q, want %q", parsed.Args, "@technews")
	}
}
