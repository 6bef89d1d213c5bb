// Package blob - 생성된 비디오 등 대용량 바이너리의 인메모리 보관소
// 브라우저 Blob URL에 해당하는 서버측 수명 관리를 담당함
package blob

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Ref - 발급된 블랍 참조. URL은 /blobs/{id} 핸들러로 서빙됨
type Ref struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	MIME string `json:"mime"`
}

type entry struct {
	data []byte
	mime string
}

// Store - uuid 키 인메모리 블랍 저장소
// 명시적으로 Release되거나 세션이 정리될 때까지 유지됨
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Put - 바이너리 등록 후 참조 발급
func (s *Store) Put(data []byte, mimeType string) Ref {
	id := uuid.New().String()
	s.mu.Lock()
	s.entries[id] = entry{data: data, mime: mimeType}
	s.mu.Unlock()
	return Ref{ID: id, URL: fmt.Sprintf("/blobs/%s", id), MIME: mimeType}
}

// Get - 참조 해석. 없으면 ok=false
func (s *Store) Get(id string) (data []byte, mimeType string, ok bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	return e.data, e.mime, ok
}

// Release - 참조 해제. 없는 ID는 무시
func (s *Store) Release(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len - 보관 중인 블랍 수
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
