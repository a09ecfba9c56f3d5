package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/openclaw/clawmon/internal/model"
)

// sessionDoc is the persisted session document shape.
type sessionDoc struct {
	Messages []model.Message `json:"messages"`
}

// LoadSession reads one persisted session document. The file is owned and
// written by the agent runtime; clawmon never mutates it.
func LoadSession(path string) (model.Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Session{}, err
	}

	sess := model.Session{
		Path:    path,
		ModTime: info.ModTime().UTC(),
	}
	if key, ok := model.KeyFromFilename(filepath.Base(path)); ok {
		sess.Key = key
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Session{}, err
	}

	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Session{}, err
	}
	sess.Messages = doc.Messages
	return sess, nil
}

// LastActivity returns the most recent activity instant for the session
// file at path: the last message's ts when present, else the file mtime.
// It never fails outward; any decode error falls back to the mtime, and a
// completely unreadable file reports the zero time.
func LastActivity(path string) time.Time {
	sess, err := LoadSession(path)
	if err == nil {
		return sess.LastActivity()
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return time.Time{}
	}
	return info.ModTime().UTC()
}

// ListSessions enumerates every session document in the store directory,
// sorted by key for stable output. Files whose names do not parse as a
// session key are ignored. A missing store directory yields an empty list.
func ListSessions(sessionsDir string) ([]model.Session, error) {
	entries, err := os.ReadDir(sessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []model.Session
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, ok := model.KeyFromFilename(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(sessionsDir, entry.Name())
		sess, err := LoadSession(path)
		if err != nil {
			// Keep the entry visible with whatever we know; activity
			// falls back to the mtime, message count reads as zero.
			sess = model.Session{Key: key, Path: path}
			if info, statErr := os.Stat(path); statErr == nil {
				sess.ModTime = info.ModTime().UTC()
			}
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Key.String() < sessions[j].Key.String()
	})
	return sessions, nil
}

// SessionPath returns the store path for a session key.
func SessionPath(sessionsDir string, key model.SessionKey) string {
	return filepath.Join(sessionsDir, key.Filename())
}
