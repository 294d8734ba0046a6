package bot

import "sync"

// session holds the pending conversion request for one chat: which sticker
// was received and whether the whole set or just that sticker is wanted.
// The scope is chosen first, the output format second, so the session
// bridges the two callback rounds.
type session struct {
	FileID   string
	SetName  string
	WholeSet bool
}

// sessionStore is a mutex-guarded per-chat session map. Telegram delivers
// updates for different chats concurrently once handlers run in goroutines.
type sessionStore struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[int64]*session)}
}

func (s *sessionStore) put(chatID int64, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = sess
}

func (s *sessionStore) get(chatID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[chatID]
	return sess, ok
}

func (s *sessionStore) drop(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}
