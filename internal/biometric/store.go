package biometric

import (
	"sync"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

// ChallengeStore keeps in-flight WebAuthn sessions keyed per member and
// flow. State is process-local and volatile: a restart drops every pending
// registration or authentication. Entries are single-use and a fresh
// request for the same key overwrites the previous one (last write wins).
//
// Unlike the system this replaces, entries also expire after a TTL so a
// client that never completes its ceremony does not leak a session forever.
type ChallengeStore struct {
	mu       sync.Mutex
	sessions map[string]storedSession
	ttl      time.Duration
}

type storedSession struct {
	data     webauthn.SessionData
	issuedAt time.Time
}

func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	s := &ChallengeStore{
		sessions: make(map[string]storedSession),
		ttl:      ttl,
	}

	go s.cleanup()

	return s
}

func (s *ChallengeStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for key, sess := range s.sessions {
			if time.Since(sess.issuedAt) > s.ttl {
				delete(s.sessions, key)
			}
		}
		s.mu.Unlock()
	}
}

func (s *ChallengeStore) Put(key string, data webauthn.SessionData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = storedSession{data: data, issuedAt: time.Now()}
}

// Take returns the stored session and removes it. A session older than the
// TTL is treated as missing.
func (s *ChallengeStore) Take(key string) (webauthn.SessionData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return webauthn.SessionData{}, false
	}

	delete(s.sessions, key)

	if time.Since(sess.issuedAt) > s.ttl {
		return webauthn.SessionData{}, false
	}

	return sess.data, true
}

func (s *ChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
