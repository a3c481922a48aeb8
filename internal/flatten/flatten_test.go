package flatten_test

import (
	"strings"
	"testing"

	"loom/internal/archive"
	"loom/internal/flatten"
)

func asset(key string) archive.Asset {
	return archive.Asset{Key: key, MimeType: "image/png", Bytes: []byte{1}}
}

func TestFlattenBlocksAndLists(t *testing.T) {
	markup := `<html><body>
		<h1>Setup Guide</h1>
		<p>First <b>read</b> everything.</p>
		<ul><li>one</li><li>two</li></ul>
		<p>Before<br>After</p>
		<script>alert("nope")</script>
		<style>.x{}</style>
	</body></html>`

	text, placeholders, err := flatten.Flatten(markup, nil)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if len(placeholders) != 0 {
		t.Fatalf("unexpected placeholders: %v", placeholders)
	}

	lines := strings.Split(text, "\n")
	want := []string{
		"Setup Guide",
		"",
		"First read everything.",
		"",
		"- one",
		"- two",
		"",
		"Before",
		"After",
	}
	if len(lines) != len(want) {
		t.Fatalf("unexpected lines %q", lines)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], line)
		}
	}
	if strings.Contains(text, "alert") || strings.Contains(text, ".x{}") {
		t.Fatalf("script/style content leaked: %q", text)
	}
}

func TestFlattenReplacesMatchedImages(t *testing.T) {
	assets := map[string]archive.Asset{
		"images/a.png": asset("images/a.png"),
		"images/b.png": asset("images/b.png"),
	}
	markup := `<p>See <img src="images/a.png"> then <img src="b.png"> and <img src="missing.png"></p>`

	text, placeholders, err := flatten.Flatten(markup, assets)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if !strings.Contains(text, "[IMAGE:image-1]") || !strings.Contains(text, "[IMAGE:image-2]") {
		t.Fatalf("tokens missing: %q", text)
	}
	if strings.Contains(text, "image-3") {
		t.Fatalf("unmatched image produced a token: %q", text)
	}
	if strings.Index(text, "[IMAGE:image-1]") > strings.Index(text, "[IMAGE:image-2]") {
		t.Fatal("tokens not in document order")
	}

	if placeholders["image-1"] != "images/a.png" {
		t.Fatalf("exact match failed: %v", placeholders)
	}
	if placeholders["image-2"] != "images/b.png" {
		t.Fatalf("suffix match failed: %v", placeholders)
	}
	if len(placeholders) != 2 {
		t.Fatalf("expected 2 placeholders, got %v", placeholders)
	}
}

func TestFlattenTokenNumberingPerPass(t *testing.T) {
	assets := map[string]archive.Asset{"a.png": asset("a.png")}
	markup := `<img src="a.png">`

	for pass := 0; pass < 2; pass++ {
		_, placeholders, err := flatten.Flatten(markup, assets)
		if err != nil {
			t.Fatalf("Flatten failed: %v", err)
		}
		if _, ok := placeholders["image-1"]; !ok {
			t.Fatalf("pass %d: numbering did not restart: %v", pass, placeholders)
		}
	}
}

func TestFlattenIgnoresDataURLImages(t *testing.T) {
	assets := map[string]archive.Asset{"a.png": asset("a.png")}
	text, placeholders, err := flatten.Flatten(`<p><img src="data:image/png;base64,xx"></p>`, assets)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if len(placeholders) != 0 || strings.Contains(text, "IMAGE") {
		t.Fatalf("data URL image should be dropped: %q %v", text, placeholders)
	}
}
