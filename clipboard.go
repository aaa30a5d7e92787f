package main

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard as the editor uses it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// CopySelected puts the primary selection's label on the clipboard.
func (w *CanvasWidget) CopySelected(cb Clipboard) (bool, error) {
	label, ok := w.SelectedLabel()
	if !ok {
		return false, nil
	}
	return true, cb.WriteAll(label)
}

// PasteAt creates a node at the screen point labelled with the clipboard text.
func (w *CanvasWidget) PasteAt(cb Clipboard, p Vec2) (NodeID, error) {
	raw, err := cb.ReadAll()
	if err != nil {
		return NodeID{}, err
	}
	text := cleanClipboardText(raw)
	if strings.TrimSpace(text) == "" {
		return NodeID{}, nil
	}
	var id NodeID
	err = w.update(func(sc *Scene) error {
		w.history.Record(ActionPaste, sc.Graph)
		id = sc.Graph.AddNode(NewNode(sc.View.ToCanvas(p), text))
		sc.Graph.SetSelected(id)
		return nil
	})
	return id, err
}

// cleanClipboardText turns rich clipboard content into a plain label with
// normalized line endings and no control characters.
func cleanClipboardText(text string) string {
	switch {
	case isRTF(text):
		text = rtfText(text)
	case isHTML(text):
		text = htmlText(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r >= 32 {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div"))
}

// rtfText drops groups and control words, keeping literal text, escaped
// characters and paragraph breaks.
func rtfText(rtf string) string {
	var b strings.Builder
	src := []byte(rtf)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '{' || c == '}' || c == '\r' || c == '\n':
		case c != '\\':
			if c >= 32 && c < 127 || c == '\t' {
				b.WriteByte(c)
			}
		case i+1 >= len(src):
		default:
			next := src[i+1]
			switch {
			case next == '\\' || next == '{' || next == '}':
				b.WriteByte(next)
				i++
			case next == '\'' && i+3 < len(src):
				if v, err := strconv.ParseUint(string(src[i+2:i+4]), 16, 8); err == nil {
					b.WriteByte(byte(v))
				}
				i += 3
			case next == '~' || next == '_':
				b.WriteByte(' ')
				i++
			case isASCIILetter(next):
				j := i + 1
				for j < len(src) && isASCIILetter(src[j]) {
					j++
				}
				word := string(src[i+1 : j])
				for j < len(src) && (src[j] == '-' || src[j] >= '0' && src[j] <= '9') {
					j++
				}
				if j < len(src) && src[j] == ' ' {
					j++
				}
				switch word {
				case "par", "line":
					b.WriteByte('\n')
				case "tab":
					b.WriteByte('\t')
				}
				i = j - 1
			default:
				i++
			}
		}
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

func htmlText(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return htmlEntities.Replace(b.String())
}
