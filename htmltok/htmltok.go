// Package htmltok tokenizes HTML source into a stream of events, one
// Step() at a time, following the coarse-grained state machine in
// HTML5 §12.2.5.
//
// The tokenizer exposes an explicit, named State so it can suspend at a
// <style>/<script> boundary and hand raw content back to its owner
// before resuming — needed so CSS embedded in <style> can be parsed by
// cssom/cssval without the tokenizer ever decoding it as HTML text.
package htmltok

import (
	"strings"

	"github.com/renderkit/renderkit/internal/asciifold"
)

// State is one step of the HTML5 tokenization state machine, restricted
// to the coarse set this engine exposes.
type State int

const (
	StateData State = iota
	StateTagOpen
	StateEndTagOpen
	StateSelfClosingTagStart
	StateTagName
	StateBeforeAttributeName
	StateAttributeName
	StateAfterAttributeName
	StateBeforeAttributeValue
	StateAttributeValueDoubleQuoted
	StateAttributeValueSingleQuoted
	StateAttributeValueUnquoted
	StateAfterAttributeValueQuoted
	StateStartDeclaration
	StateBogusComment
	StateCommentStart
	StateComment
	StateCommentEnd
	StateXMLDeclaration
	StateDoctypeDeclaration
	StateScriptData
	StateStyleData
)

// Status is the outcome of a Step call.
type Status int

const (
	// Running means an Event was produced and the caller should Step again.
	Running Status = iota
	// Blocked means the tokenizer just opened a <style> or <script> element and is
	// waiting for the owner to drain its raw content via
	// ExtractStyleContent before calling Resume.
	Blocked
	// Completed means the input is exhausted; the Event is EventEOF.
	Completed
)

// EventKind classifies an Event.
type EventKind int

const (
	EventText EventKind = iota
	EventStartTag
	EventEndTag
	EventComment
	EventDoctype
	EventEOF
)

// Attribute is a single tag attribute in source order.
type Attribute struct {
	Name  string
	Value string
}

// Event is one token produced by Step.
type Event struct {
	Kind        EventKind
	Text        string // Text/Comment/Doctype data
	TagName     string // StartTag/EndTag
	Attrs       []Attribute
	SelfClosing bool
}

// Tokenizer is a suspendable HTML tokenizer over a fixed input string.
type Tokenizer struct {
	input string
	pos   int
	state State

	// state kept across a Blocked/Resume boundary.
	blockedTagName  string
	blockedAttrs    []Attribute
	styleContentLen int // bytes of raw content already extracted
}

// New creates a Tokenizer positioned at the start of input.
func New(input string) *Tokenizer {
	return &Tokenizer{input: input, state: StateData}
}

// State returns the tokenizer's current state.
func (t *Tokenizer) State() State { return t.state }

// Step advances the tokenizer and returns the next Event along with the
// Status describing what the caller should do next.
func (t *Tokenizer) Step() (Event, Status) {
	if t.state == StateScriptData || t.state == StateStyleData {
		return t.stepRawText()
	}

	if t.pos >= len(t.input) {
		return Event{Kind: EventEOF}, Completed
	}

	if t.input[t.pos] != '<' {
		return t.stepData(), Running
	}

	t.pos++ // consume '<'
	if t.pos >= len(t.input) {
		return Event{Kind: EventText, Text: "<"}, Running
	}

	switch t.input[t.pos] {
	case '!':
		t.pos++
		return t.stepStartDeclaration()
	case '/':
		t.pos++
		t.state = StateEndTagOpen
		return t.stepEndTagOpen(), Running
	case '?':
		// XML-style processing instruction; treated as a bogus comment.
		return t.stepXMLDeclaration(), Running
	default:
		t.state = StateTagOpen
		return t.stepTagOpen()
	}
}

// ExtractStyleContent drains the raw <style>/<script> CDATA accumulated
// since the element opened (everything up to, but not including, the
// matching end tag). Valid only immediately after Step returns Blocked.
func (t *Tokenizer) ExtractStyleContent() string {
	end := t.findRawTextEnd()
	content := t.input[t.pos : t.pos+end]
	t.styleContentLen = end
	return content
}

// Resume continues tokenization after ExtractStyleContent, advancing past
// the drained content so the next Step emits the closing end tag.
func (t *Tokenizer) Resume() {
	t.pos += t.styleContentLen
	t.styleContentLen = 0
}

// stepData reads a run of character data up to the next '<', decoding
// entity references. HTML5 §12.2.5.1.
func (t *Tokenizer) stepData() Event {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '<' {
		t.pos++
	}
	return Event{Kind: EventText, Text: decodeEntities(t.input[start:t.pos])}
}

// stepTagOpen reads a start tag: name, attributes, optional
// self-closing slash. HTML5 §12.2.5.6/.8/.32-.37.
func (t *Tokenizer) stepTagOpen() (Event, Status) {
	name := t.readTagName()
	attrs := t.readAttributes()

	selfClosing := false
	t.state = StateBeforeAttributeName
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		t.state = StateSelfClosingTagStart
		selfClosing = true
		t.pos++
	}
	if t.pos < len(t.input) && t.input[t.pos] == '>' {
		t.pos++
	}
	t.state = StateData

	lower := asciifold.Fold(name)
	if !selfClosing && (lower == "style" || lower == "script") {
		if lower == "style" {
			t.state = StateStyleData
		} else {
			t.state = StateScriptData
		}
		t.blockedTagName = lower
		t.blockedAttrs = attrs
		return Event{Kind: EventStartTag, TagName: lower, Attrs: attrs}, Blocked
	}

	return Event{Kind: EventStartTag, TagName: lower, Attrs: attrs, SelfClosing: selfClosing}, Running
}

// stepEndTagOpen reads an end tag. HTML5 §12.2.5.9.
func (t *Tokenizer) stepEndTagOpen() Event {
	name := t.readTagName()
	for t.pos < len(t.input) && t.input[t.pos] != '>' {
		t.pos++
	}
	if t.pos < len(t.input) {
		t.pos++
	}
	t.state = StateData
	return Event{Kind: EventEndTag, TagName: asciifold.Fold(name)}
}

func (t *Tokenizer) readTagName() string {
	start := t.pos
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == '>' || c == '/' || isHTMLSpace(c) {
			break
		}
		t.pos++
	}
	return t.input[start:t.pos]
}

// readAttributes reads the attribute list of a start tag. HTML5
// §12.2.5.32 BeforeAttributeName through §12.2.5.37
// AfterAttributeValueQuoted, collapsed into a single pass since no
// observable suspend point falls inside a tag.
func (t *Tokenizer) readAttributes() []Attribute {
	var attrs []Attribute
	for t.pos < len(t.input) {
		t.state = StateBeforeAttributeName
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			break
		}
		c := t.input[t.pos]
		if c == '>' || c == '/' {
			break
		}

		t.state = StateAttributeName
		name := t.readAttrName()
		if name == "" {
			break
		}

		t.state = StateAfterAttributeName
		t.skipWhitespace()

		value := ""
		if t.pos < len(t.input) && t.input[t.pos] == '=' {
			t.pos++
			t.state = StateBeforeAttributeValue
			t.skipWhitespace()
			value = t.readAttrValue()
			t.state = StateAfterAttributeValueQuoted
		}
		attrs = append(attrs, Attribute{Name: asciifold.Fold(name), Value: value})
	}
	return attrs
}

func (t *Tokenizer) readAttrName() string {
	start := t.pos
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == '=' || c == '>' || c == '/' || isHTMLSpace(c) {
			break
		}
		t.pos++
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) readAttrValue() string {
	if t.pos >= len(t.input) {
		return ""
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		if quote == '"' {
			t.state = StateAttributeValueDoubleQuoted
		} else {
			t.state = StateAttributeValueSingleQuoted
		}
		t.pos++
		start := t.pos
		for t.pos < len(t.input) && t.input[t.pos] != quote {
			t.pos++
		}
		value := decodeEntities(t.input[start:t.pos])
		if t.pos < len(t.input) {
			t.pos++
		}
		return value
	}

	t.state = StateAttributeValueUnquoted
	start := t.pos
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if isHTMLSpace(c) || c == '>' {
			break
		}
		t.pos++
	}
	return decodeEntities(t.input[start:t.pos])
}

// stepStartDeclaration dispatches "<!" markup into a comment, a doctype,
// or a bogus comment. HTML5 §12.2.5.42/.53.
func (t *Tokenizer) stepStartDeclaration() (Event, Status) {
	t.state = StateStartDeclaration
	if strings.HasPrefix(t.input[t.pos:], "--") {
		t.state = StateCommentStart
		return t.stepComment(), Running
	}
	if len(t.input[t.pos:]) >= 7 && asciifold.Equal(t.input[t.pos:t.pos+7], "DOCTYPE") {
		t.state = StateDoctypeDeclaration
		return t.stepDoctype(), Running
	}
	t.state = StateBogusComment
	return t.stepBogusComment(), Running
}

// stepComment reads a comment body up to "-->". HTML5 §12.2.5.44-.52.
func (t *Tokenizer) stepComment() Event {
	t.pos += 2 // consume "--"
	start := t.pos
	t.state = StateComment
	for t.pos < len(t.input)-2 {
		if t.input[t.pos] == '-' && t.input[t.pos+1] == '-' && t.input[t.pos+2] == '>' {
			data := t.input[start:t.pos]
			t.state = StateCommentEnd
			t.pos += 3
			t.state = StateData
			return Event{Kind: EventComment, Text: data}
		}
		t.pos++
	}
	data := t.input[start:]
	t.pos = len(t.input)
	t.state = StateData
	return Event{Kind: EventComment, Text: data}
}

// stepBogusComment treats anything after "<!" that isn't a comment or a
// doctype as comment data up to the next '>'. HTML5 §12.2.5.43.
func (t *Tokenizer) stepBogusComment() Event {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '>' {
		t.pos++
	}
	data := t.input[start:t.pos]
	if t.pos < len(t.input) {
		t.pos++
	}
	t.state = StateData
	return Event{Kind: EventComment, Text: data}
}

// stepDoctype reads a DOCTYPE declaration's name. HTML5 §12.2.5.53-.58.
func (t *Tokenizer) stepDoctype() Event {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '>' {
		t.pos++
	}
	raw := strings.TrimSpace(t.input[start:t.pos])
	// DOCTYPE text is "DOCTYPE html" or similar; keep just the root name.
	fields := strings.Fields(raw)
	name := ""
	if len(fields) > 1 {
		name = fields[1]
	}
	if t.pos < len(t.input) {
		t.pos++
	}
	t.state = StateData
	return Event{Kind: EventDoctype, Text: name}
}

// stepXMLDeclaration treats "<?...?>" as ignorable, consumed up to '>'.
func (t *Tokenizer) stepXMLDeclaration() Event {
	t.state = StateXMLDeclaration
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '>' {
		t.pos++
	}
	data := t.input[start:t.pos]
	if t.pos < len(t.input) {
		t.pos++
	}
	t.state = StateData
	return Event{Kind: EventComment, Text: data}
}

// stepRawText emits the end tag closing a <style>/<script> element once
// the owner has drained its content via ExtractStyleContent/Resume (or
// skipped straight past it, for <script>, whose body this engine never
// executes).
func (t *Tokenizer) stepRawText() (Event, Status) {
	if t.styleContentLen == 0 {
		// Owner called Step again without draining; skip the content
		// ourselves so tokenization still makes progress.
		t.pos += t.findRawTextEnd()
	}
	t.styleContentLen = 0

	name := t.blockedTagName
	t.blockedTagName = ""
	t.blockedAttrs = nil
	t.state = StateData

	if strings.HasPrefix(t.input[t.pos:], "</") {
		// Consume the matching end tag.
		save := t.pos
		t.pos += 2
		tagName := t.readTagName()
		for t.pos < len(t.input) && t.input[t.pos] != '>' {
			t.pos++
		}
		if t.pos < len(t.input) {
			t.pos++
		}
		if !asciifold.Equal(tagName, name) {
			t.pos = save
		}
	}
	return Event{Kind: EventEndTag, TagName: name}, Running
}

// findRawTextEnd returns the byte offset (relative to t.pos) of the
// start of the matching "</name" end tag, or len(input)-t.pos if none is
// found (unterminated <style>/<script>, per HTML5 treated as EOF).
func (t *Tokenizer) findRawTextEnd() int {
	name := t.blockedTagName
	rest := t.input[t.pos:]
	closeTag := "</" + name
	idx := 0
	for {
		i := strings.Index(asciifold.Fold(rest[idx:]), closeTag)
		if i < 0 {
			return len(rest)
		}
		idx += i
		after := idx + len(closeTag)
		if after >= len(rest) || rest[after] == '>' || isHTMLSpace(rest[after]) || rest[after] == '/' {
			return idx
		}
		idx = after
	}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && isHTMLSpace(t.input[t.pos]) {
		t.pos++
	}
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
