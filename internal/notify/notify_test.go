package notify

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/proofmark/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	orig := send
	send = func(title, body string, opts platform.Options) error {
		_, err := os.Stat(opts.IconPath)
		got = append(got, sent{title, body, opts, opts.IconPath != "" && err == nil})
		return nil
	}
	t.Cleanup(func() { send = orig })
	return &got
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("PROOFMARK_NOTIFY_TITLE", "Review")
	t.Setenv("PROOFMARK_NOTIFY_COPY_TEXT", "Clipboard: %s")
	prefs := LoadPreferences()
	if prefs.Title != "Review" {
		t.Errorf("Title = %q", prefs.Title)
	}
	if got := prefs.Events[EventCopy].Template; got != "Clipboard: %s" {
		t.Errorf("copy template = %q", got)
	}
	if got := prefs.Events[EventExport].Template; got != "Exported %s" {
		t.Errorf("export template = %q", got)
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Export("/tmp/x.png")
	n.Copy("", nil)
	var nilNotifier *Notifier
	nilNotifier.Copy("x", nil)
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(*got))
	}
}

func TestExportAndCopy(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	n.Enable(EventCopy, true)

	path := filepath.Join(t.TempDir(), "proof.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n.Export(path)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 4, 4)))

	if len(*got) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(*got))
	}
	if e := (*got)[0]; e.body != "Exported "+path || e.opts.IconPath != path {
		t.Errorf("export notification = %+v", e)
	}
	c := (*got)[1]
	if c.title != "Proofmark" || c.body != "Copied image to clipboard" {
		t.Errorf("copy notification = %+v", c)
	}
	if !c.iconExisted {
		t.Error("copy preview was not on disk while sending")
	}
	if _, err := os.Stat(c.opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("preview %s not removed: %v", c.opts.IconPath, err)
	}
}
