package editor

import (
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
)

// HandleKey applies a keyboard event and reports whether the editor consumed
// it. While a prompt is open all typing goes to the prompt.
func (e *Editor) HandleKey(ev key.Event) bool {
	if e.closed {
		return false
	}
	if e.prompt != nil {
		if ev.Direction == key.DirRelease {
			return true
		}
		return e.promptKey(ev)
	}

	if ev.Code == key.CodeSpacebar {
		switch ev.Direction {
		case key.DirPress, key.DirNone:
			e.space = true
		case key.DirRelease:
			e.space = false
			if e.phase == PhasePanning {
				e.view.EndPan()
				e.phase = PhaseIdle
			}
		}
		return true
	}
	if ev.Direction == key.DirRelease {
		return false
	}

	ctrl := ev.Modifiers&(key.ModControl|key.ModMeta) != 0
	switch {
	case ev.Code == key.CodeEscape:
		e.finishGesture()
		e.closed = true
	case ctrl && ev.Code == key.CodeZ:
		e.Undo()
	case ctrl && (ev.Code == key.CodeEqualSign || ev.Code == key.CodeSemicolon), ev.Code == key.CodeKeypadPlusSign:
		e.view.ZoomIn()
	case ctrl && ev.Code == key.CodeHyphenMinus, ev.Code == key.CodeKeypadHyphenMinus:
		e.view.ZoomOut()
	case ctrl && ev.Code == key.Code0, ev.Code == key.CodeKeypad0:
		e.view.ResetZoom()
	case ev.Code == key.CodeDeleteForward, ev.Code == key.CodeDeleteBackspace:
		return e.DeleteSelected()
	default:
		return false
	}
	return true
}

func (e *Editor) promptKey(ev key.Event) bool {
	switch ev.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if ev.Modifiers&key.ModShift != 0 {
			e.prompt.Text += "\n"
			return true
		}
		e.ConfirmPrompt()
		return true
	case key.CodeEscape:
		e.CancelPrompt()
		return true
	case key.CodeDeleteBackspace:
		if s := e.prompt.Text; s != "" {
			_, n := utf8.DecodeLastRuneInString(s)
			e.prompt.Text = s[:len(s)-n]
		}
		return true
	}
	if ev.Rune > 0 && ev.Modifiers&(key.ModControl|key.ModMeta) == 0 {
		e.prompt.Text += string(ev.Rune)
		return true
	}
	return false
}
