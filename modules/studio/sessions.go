package studio

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"

	"virtual-studio-server/modules/common/blob"
	"virtual-studio-server/modules/common/config"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		// 프로덕션에서는 특정 도메인만 허용하도록 수정
		return true
	},
}

// Client - 세션에 연결된 뷰어 하나
type Client struct {
	conn      *websocket.Conn
	sessionID string
	userID    string
	send      chan []byte
}

// Session - 엔진 하나와 그 상태를 구독하는 클라이언트들
type Session struct {
	id           string
	engine       *Engine
	clients      map[string]*Client
	mutex        sync.RWMutex
	createdAt    time.Time
	lastActivity time.Time
	unsubscribe  func()
}

// SessionManager - 세션 생성/조회/정리
type SessionManager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex

	cfg     *config.Config
	gateway Gateway
	rdb     *goredis.Client
	blobs   *blob.Store
}

// NewSessionManager - 매니저 생성
func NewSessionManager(cfg *config.Config, gateway Gateway, rdb *goredis.Client, blobs *blob.Store) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		gateway:  gateway,
		rdb:      rdb,
		blobs:    blobs,
	}
}

// StateMessage - 클라이언트로 전송되는 상태 스냅샷
type StateMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	State     State  `json:"state"`
}

// GetOrCreateSession - 세션 가져오기 또는 생성
// 새 세션은 엔진을 만들고 상태 스트림을 클라이언트 브로드캐스트에 연결함
func (sm *SessionManager) GetOrCreateSession(sessionID, userID string) *Session {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		now := time.Now()
		engine := NewEngine(sessionID, userID, sm.gateway, sm.rdb, sm.blobs)
		if sm.cfg != nil {
			engine.RequestsPerMinute = sm.cfg.RequestsPerMinute
		}
		session = &Session{
			id:           sessionID,
			engine:       engine,
			clients:      make(map[string]*Client),
			createdAt:    now,
			lastActivity: now,
		}

		updates, unsubscribe := engine.Subscribe()
		session.unsubscribe = unsubscribe
		go session.pumpUpdates(updates)

		sm.sessions[sessionID] = session
		log.Printf("✅ Created new studio session: %s (user: %s, total: %d)",
			sessionID, userID, len(sm.sessions))
	}

	session.mutex.Lock()
	session.lastActivity = time.Now()
	session.mutex.Unlock()
	return session
}

// GetSession - 기존 세션 조회
func (sm *SessionManager) GetSession(sessionID string) (*Session, bool) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	session, ok := sm.sessions[sessionID]
	return session, ok
}

// Engine - 세션의 엔진
func (s *Session) Engine() *Engine {
	return s.engine
}

// pumpUpdates - 엔진 상태 변경을 연결된 모든 클라이언트에게 전달
func (s *Session) pumpUpdates(updates <-chan State) {
	for snapshot := range updates {
		s.broadcastState(snapshot)
	}
}

// broadcastState - 상태 스냅샷 브로드캐스트
// 버퍼가 꽉 찬 클라이언트는 끊어버림 (느린 소비자가 엔진을 막지 않도록)
func (s *Session) broadcastState(snapshot State) {
	message, err := json.Marshal(StateMessage{
		Type:      "state_update",
		SessionID: s.id,
		State:     snapshot,
	})
	if err != nil {
		log.Printf("Error marshaling state update: %v", err)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for userID, client := range s.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(s.clients, userID)
			log.Printf("🔌 Dropped slow client %s from session %s", userID, s.id)
		}
	}
}

// addClient - 클라이언트 연결 추가, 현재 상태 즉시 전송
func (s *Session) addClient(client *Client) {
	s.mutex.Lock()
	s.clients[client.userID] = client
	s.lastActivity = time.Now()
	clientCount := len(s.clients)
	s.mutex.Unlock()

	log.Printf("👤 Client %s joined studio session %s (Clients: %d)", client.userID, s.id, clientCount)

	initial, err := json.Marshal(StateMessage{
		Type:      "state_snapshot",
		SessionID: s.id,
		State:     s.engine.Snapshot(),
	})
	if err == nil {
		select {
		case client.send <- initial:
		default:
		}
	}
}

// removeClient - 클라이언트 연결 제거
func (s *Session) removeClient(userID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if client, exists := s.clients[userID]; exists {
		close(client.send)
		delete(s.clients, userID)
		s.lastActivity = time.Now()
		log.Printf("👋 Client %s left session %s (Remaining: %d)", userID, s.id, len(s.clients))
	}
}

// CleanupExpiredSessions - 만료/비활성 세션 정리 (24시간 / 빈 채로 2시간)
func (sm *SessionManager) CleanupExpiredSessions() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	now := time.Now()
	expiredThreshold := 24 * time.Hour
	inactiveThreshold := 2 * time.Hour

	cleaned := 0
	for sessionID, session := range sm.sessions {
		session.mutex.RLock()
		isExpired := now.Sub(session.createdAt) > expiredThreshold
		isInactive := now.Sub(session.lastActivity) > inactiveThreshold && len(session.clients) == 0
		session.mutex.RUnlock()

		if isExpired || isInactive {
			session.mutex.Lock()
			for userID, client := range session.clients {
				close(client.send)
				log.Printf("🔌 Disconnecting client %s from expired session %s", userID, sessionID)
			}
			session.clients = make(map[string]*Client)
			session.mutex.Unlock()

			if session.unsubscribe != nil {
				session.unsubscribe()
			}
			delete(sm.sessions, sessionID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Printf("🧹 Cleaned up %d expired/inactive studio sessions (Active: %d)", cleaned, len(sm.sessions))
	}
}

// Stats - 서버 메트릭용 세션 현황
func (sm *SessionManager) Stats() map[string]interface{} {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	totalClients := 0
	sessionDetails := make([]map[string]interface{}, 0, len(sm.sessions))
	for sessionID, session := range sm.sessions {
		session.mutex.RLock()
		clientCount := len(session.clients)
		totalClients += clientCount
		sessionDetails = append(sessionDetails, map[string]interface{}{
			"sessionId":    sessionID,
			"clientCount":  clientCount,
			"createdAt":    session.createdAt,
			"lastActivity": session.lastActivity,
			"age":          time.Since(session.createdAt).String(),
			"requests":     session.engine.RecentRequestCount(),
		})
		session.mutex.RUnlock()
	}

	return map[string]interface{}{
		"activeSessions": len(sm.sessions),
		"currentClients": totalClients,
		"sessions":       sessionDetails,
	}
}

// StartCleanupRoutine - 30분마다 만료 세션 정리
func (sm *SessionManager) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			sm.CleanupExpiredSessions()
		}
	}()
	log.Printf("🔄 Started studio session cleanup routine (every 30min)")
}

// HandleWebSocket - 상태 스트림 WebSocket 연결
// 명령은 REST로 받고, 이 소켓은 상태 스냅샷만 내려보냄
func (sm *SessionManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sessionID := r.URL.Query().Get("session")
	userID := r.URL.Query().Get("user")
	if sessionID == "" || userID == "" {
		log.Printf("Missing session or user parameter")
		conn.Close()
		return
	}

	client := &Client{
		conn:      conn,
		sessionID: sessionID,
		userID:    userID,
		send:      make(chan []byte, 256),
	}

	session := sm.GetOrCreateSession(sessionID, userID)
	session.addClient(client)

	go client.writePump()
	go client.readPump(session)
}

// readPump - 핑/종료 감지용. 수신 메시지는 버림
func (c *Client) readPump(session *Session) {
	defer func() {
		session.removeClient(c.userID)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump - 상태 메시지 전송 루프
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
