package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openclaw/clawmon/internal/model"
)

func writeSessionFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSession(t *testing.T) {
	dir := t.TempDir()
	path := writeSessionFile(t, dir, "gladys_transcriber_42.json",
		`{"messages":[{"role":"user","content":"hi","ts":1767261600000},{"role":"assistant","content":"hello"}]}`)

	sess, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	want := model.SessionKey{Agent: "gladys", Account: "transcriber", UserID: "42"}
	if sess.Key != want {
		t.Errorf("Key = %+v, want %+v", sess.Key, want)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(sess.Messages))
	}
	if sess.Messages[0].TS != 1767261600000 {
		t.Errorf("ts = %d", sess.Messages[0].TS)
	}
}

func TestLastActivity_MessageTimestamp(t *testing.T) {
	dir := t.TempDir()
	path := writeSessionFile(t, dir, "a_b_c.json",
		`{"messages":[{"role":"user","content":"x"},{"role":"assistant","content":"y","ts":1767261600000}]}`)

	got := LastActivity(path)
	want := time.UnixMilli(1767261600000).UTC()
	if !got.Equal(want) {
		t.Errorf("LastActivity = %v, want %v", got, want)
	}
}

func TestLastActivity_FallbackToMtime(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"corrupt.json":  `{"messages": [}`,
		"empty.json":    `{"messages":[]}`,
		"no-ts.json":    `{"messages":[{"role":"user","content":"x"}]}`,
		"no-field.json": `{}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeSessionFile(t, dir, name, body)
			mtime := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatal(err)
			}
			got := LastActivity(path)
			if !got.Equal(mtime) {
				t.Errorf("LastActivity = %v, want mtime %v", got, mtime)
			}
		})
	}
}

func TestLastActivity_MissingFile(t *testing.T) {
	got := LastActivity(filepath.Join(t.TempDir(), "gone.json"))
	if !got.IsZero() {
		t.Errorf("LastActivity = %v, want zero time", got)
	}
}

func TestListSessions(t *testing.T) {
	dir := t.TempDir()
	writeSessionFile(t, dir, "gladys_transcriber_1.json", `{"messages":[{"role":"user","content":"a"}]}`)
	writeSessionFile(t, dir, "gladys_main_2.json", `{"messages":[]}`)
	writeSessionFile(t, dir, "README.txt", "not a session")
	writeSessionFile(t, dir, "oddname.json", `{}`)
	writeSessionFile(t, dir, "gladys_transcriber_3.json", `{"messages": [}`) // corrupt

	sessions, err := ListSessions(dir)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(sessions))
	}
	// Sorted by key: gladys:main:2, gladys:transcriber:1, gladys:transcriber:3
	if sessions[0].Key.Account != "main" {
		t.Errorf("first session = %v", sessions[0].Key)
	}
	// The corrupt document is still listed, with zero messages.
	last := sessions[2]
	if last.Key.UserID != "3" || len(last.Messages) != 0 {
		t.Errorf("corrupt session = %+v", last)
	}
}

func TestListSessions_MissingDir(t *testing.T) {
	sessions, err := ListSessions(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if sessions != nil {
		t.Errorf("sessions = %v, want nil", sessions)
	}
}
