// Package session retains filter selections across requests, scoped to
// the browser session. Selections are keyed by tab and filter name and
// restored only while still valid among the current options.
package session

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
)

const cookieName = "billing-atlas"

type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(secret []byte) *Store {
	cs := sessions.NewCookieStore(secret)
	cs.Options.HttpOnly = true
	cs.Options.SameSite = http.SameSiteLaxMode
	return &Store{cookies: cs}
}

// Selections returns the retained selections for one tab, filter name to
// chosen values. A missing or undecodable session yields no selections.
func (s *Store) Selections(r *http.Request, tab string) map[string][]string {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return nil
	}
	raw, ok := sess.Values["filters:"+tab].(string)
	if !ok {
		return nil
	}
	var selections map[string][]string
	if err := json.Unmarshal([]byte(raw), &selections); err != nil {
		return nil
	}
	return selections
}

// Save persists the tab's selections into the session cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, tab string, selections map[string][]string) error {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// a tampered cookie is replaced, not fatal
		sess, _ = s.cookies.New(r, cookieName)
	}
	raw, err := json.Marshal(selections)
	if err != nil {
		return err
	}
	sess.Values["filters:"+tab] = string(raw)
	return sess.Save(r, w)
}

// Restore keeps only the saved values still present among the current
// options, preserving saved order. Everything invalid resets to the
// "no filter" default by being dropped.
func Restore(saved, options []string) []string {
	if len(saved) == 0 {
		return nil
	}
	valid := make(map[string]struct{}, len(options))
	for _, o := range options {
		valid[o] = struct{}{}
	}
	var kept []string
	for _, s := range saved {
		if _, ok := valid[s]; ok {
			kept = append(kept, s)
		}
	}
	return kept
}

// RestoreOne is Restore for single-choice filters; a stale value resets
// to the empty default.
func RestoreOne(saved string, options []string) string {
	if saved == "" {
		return ""
	}
	for _, o := range options {
		if o == saved {
			return saved
		}
	}
	return ""
}
