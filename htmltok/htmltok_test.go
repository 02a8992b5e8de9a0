package htmltok

import "testing"

func TestTokenizerText(t *testing.T) {
	tok := New("Hello, World!")
	ev, status := tok.Step()
	if status != Running {
		t.Fatalf("expected Running, got %v", status)
	}
	if ev.Kind != EventText || ev.Text != "Hello, World!" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTokenizerSimpleTag(t *testing.T) {
	tok := New("<div>")
	ev, _ := tok.Step()
	if ev.Kind != EventStartTag || ev.TagName != "div" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTokenizerEndTag(t *testing.T) {
	tok := New("</div>")
	ev, _ := tok.Step()
	if ev.Kind != EventEndTag || ev.TagName != "div" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTokenizerSelfClosingTag(t *testing.T) {
	tok := New("<br />")
	ev, _ := tok.Step()
	if ev.Kind != EventStartTag || ev.TagName != "br" || !ev.SelfClosing {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTokenizerAttributes(t *testing.T) {
	cases := []string{
		`<div id="main" class="container">`,
		`<div id='main' class='container'>`,
		`<div id=main class=container>`,
	}
	for _, input := range cases {
		tok := New(input)
		ev, _ := tok.Step()
		if ev.Kind != EventStartTag {
			t.Fatalf("expected start tag for %q, got %+v", input, ev)
		}
		var id, class string
		for _, a := range ev.Attrs {
			switch a.Name {
			case "id":
				id = a.Value
			case "class":
				class = a.Value
			}
		}
		if id != "main" || class != "container" {
			t.Errorf("input %q: got id=%q class=%q", input, id, class)
		}
	}
}

func TestTokenizerComment(t *testing.T) {
	tok := New("<!-- This is a comment -->")
	ev, _ := tok.Step()
	if ev.Kind != EventComment || ev.Text != " This is a comment " {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTokenizerDoctype(t *testing.T) {
	tok := New("<!DOCTYPE html>")
	ev, _ := tok.Step()
	if ev.Kind != EventDoctype || ev.Text != "html" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTokenizerMultipleTokens(t *testing.T) {
	tok := New("<html><body>Hello</body></html>")
	want := []struct {
		kind EventKind
		data string
	}{
		{EventStartTag, "html"},
		{EventStartTag, "body"},
		{EventText, "Hello"},
		{EventEndTag, "body"},
		{EventEndTag, "html"},
	}
	for i, w := range want {
		ev, _ := tok.Step()
		if ev.Kind != w.kind {
			t.Fatalf("token %d: expected kind %v, got %v", i, w.kind, ev.Kind)
		}
		got := ev.Text
		if ev.Kind == EventStartTag || ev.Kind == EventEndTag {
			got = ev.TagName
		}
		if got != w.data {
			t.Errorf("token %d: expected %q, got %q", i, w.data, got)
		}
	}
}

func TestTokenizerNumericEntity(t *testing.T) {
	tok := New("&#60;&#x3E;")
	ev, _ := tok.Step()
	if ev.Text != "<>" {
		t.Errorf("expected '<>', got %q", ev.Text)
	}
}

func TestTokenizerStyleSuspendsAndResumes(t *testing.T) {
	tok := New("<style>body { color: red; }</style>after")

	ev, status := tok.Step()
	if ev.Kind != EventStartTag || ev.TagName != "style" {
		t.Fatalf("expected style start tag, got %+v", ev)
	}
	if status != Blocked {
		t.Fatalf("expected Blocked, got %v", status)
	}

	content := tok.ExtractStyleContent()
	if content != "body { color: red; }" {
		t.Errorf("unexpected style content: %q", content)
	}
	tok.Resume()

	ev, status = tok.Step()
	if ev.Kind != EventEndTag || ev.TagName != "style" {
		t.Fatalf("expected style end tag, got %+v", ev)
	}
	if status != Running {
		t.Fatalf("expected Running after resume, got %v", status)
	}

	ev, _ = tok.Step()
	if ev.Kind != EventText || ev.Text != "after" {
		t.Errorf("expected trailing text 'after', got %+v", ev)
	}
}

func TestTokenizerScriptBlocksThenSkipsUndrainedContent(t *testing.T) {
	tok := New("<script>var x = '<div>';</script>after")

	ev, status := tok.Step()
	if ev.Kind != EventStartTag || ev.TagName != "script" {
		t.Fatalf("expected script start tag, got %+v", ev)
	}
	if status != Blocked {
		t.Fatalf("expected Blocked, got %v", status)
	}

	// Owner ignores the content (no JS execution) and steps again;
	// the tokenizer must still skip past it correctly.
	ev, status = tok.Step()
	if ev.Kind != EventEndTag || ev.TagName != "script" {
		t.Fatalf("expected script end tag, got %+v", ev)
	}
	if status != Running {
		t.Fatalf("expected Running, got %v", status)
	}

	ev, _ = tok.Step()
	if ev.Kind != EventText || ev.Text != "after" {
		t.Errorf("expected trailing text 'after', got %+v", ev)
	}
}

func TestTokenizerEOF(t *testing.T) {
	tok := New("")
	ev, status := tok.Step()
	if status != Completed || ev.Kind != EventEOF {
		t.Errorf("expected Completed/EventEOF, got %v %+v", status, ev)
	}
}
