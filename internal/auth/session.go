package auth

import "taskmaster/internal/storage"

// Session is the persisted login state. Loading it at startup lets the app
// skip the auth screen when a user never logged out.
type Session struct {
	kv      *storage.KV
	current string
}

func LoadSession(kv *storage.KV) (*Session, error) {
	s := &Session{kv: kv}
	var user string
	ok, err := kv.Get(storage.KeyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if ok {
		s.current = user
	}
	return s, nil
}

func (s *Session) Current() (string, bool) {
	return s.current, s.current != ""
}

func (s *Session) Login(username string) error {
	s.current = username
	return s.kv.Set(storage.KeyCurrentUser, username)
}

func (s *Session) Logout() error {
	s.current = ""
	return s.kv.Delete(storage.KeyCurrentUser)
}
