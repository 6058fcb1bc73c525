package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is n chars of lowercase base32.
func newRandomID(prefix string, n int) (string, error) {
	b := make([]byte, (n*5+7)/8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b))
	return prefix + "-" + suffix[:n], nil
}

// nextID picks an unused id for prefix. Task ids are typed by hand in the CLI,
// so they start short and grow only when collisions pile up.
// Callers must hold s.mu.
func (s *Store) nextID(prefix string) string {
	lens := []int{8}
	if prefix == "task" {
		lens = []int{4, 5, 6, 8}
	}
	for _, n := range lens {
		for i := 0; i < 50; i++ {
			id, err := newRandomID(prefix, n)
			if err != nil {
				break
			}
			if !s.idExistsLocked(id) {
				return id
			}
		}
	}
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Store) idExistsLocked(id string) bool {
	if s.projectIndex(id) >= 0 || s.taskIndex(id) >= 0 || s.memberIndex(id) >= 0 {
		return true
	}
	return false
}
