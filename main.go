package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"virtual-studio-server/modules/common/blob"
	"virtual-studio-server/modules/common/config"
	"virtual-studio-server/modules/common/gemini"
	"virtual-studio-server/modules/common/redis"
	"virtual-studio-server/modules/studio"
)

var startTime = time.Now()

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "virtual-studio-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Redis 연결 (취소 시그널 공유용)
	rdb := redis.Connect(cfg)

	blobs := blob.NewStore()
	gateway := gemini.NewClient()

	sessionManager := studio.NewSessionManager(cfg, gateway, rdb, blobs)
	sessionManager.StartCleanupRoutine()

	handler := studio.NewHandler(sessionManager)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
		stats := sessionManager.Stats()
		stats["uptime"] = time.Since(startTime).String()
		stats["startTime"] = startTime
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}).Methods("GET")
	r.HandleFunc("/admin/cleanup", func(w http.ResponseWriter, req *http.Request) {
		sessionManager.CleanupExpiredSessions()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Cleanup completed"})
	}).Methods("POST")

	handler.RegisterRoutes(r)

	log.Printf("🚀 Virtual Studio Server starting on port %s", cfg.Port)
	log.Printf("📡 State stream: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
