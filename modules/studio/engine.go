package studio

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"virtual-studio-server/modules/common/blob"
	redisutil "virtual-studio-server/modules/common/redis"
	"virtual-studio-server/modules/prompt"
)

// CompleteFunc - 성공한 패스당 한 번, 소비된 생성 횟수와 함께 호출됨
// 외부 사용량/플랜 시스템이 여기로 연결됨
type CompleteFunc func(ctx context.Context, count int) error

// Engine - 세션 하나의 생성 오케스트레이터
// 모든 상태 변경은 apply를 거쳐 구독자에게 브로드캐스트됨
type Engine struct {
	ID     string
	UserID string

	// 분당 생성 요청 상한, 0이면 제한 없음
	RequestsPerMinute int

	mu    sync.Mutex
	state State
	subs  map[chan State]struct{}

	gateway Gateway
	rdb     *goredis.Client
	blobs   *blob.Store

	cancelMu sync.Mutex
	cancel   context.CancelFunc

	pollInterval time.Duration
}

// NewEngine - 엔진 생성. pollInterval 0이면 10초 (비디오 폴링 주기)
func NewEngine(id, userID string, gateway Gateway, rdb *goredis.Client, blobs *blob.Store) *Engine {
	return &Engine{
		ID:           id,
		UserID:       userID,
		state:        NewState(),
		subs:         make(map[chan State]struct{}),
		gateway:      gateway,
		rdb:          rdb,
		blobs:        blobs,
		pollInterval: 10 * time.Second,
	}
}

// SetPollInterval - 비디오 폴링 주기 변경 (테스트용)
func (e *Engine) SetPollInterval(d time.Duration) {
	e.pollInterval = d
}

// Snapshot - 현재 상태의 일관된 복사본
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Subscribe - 상태 변경 스트림 구독. 반환된 함수로 해지
func (e *Engine) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 16)
	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	unsubscribe := func() {
		e.mu.Lock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, unsubscribe
}

// apply - 뮤텍스 아래에서 상태 변경 후 스냅샷 브로드캐스트
// 느린 구독자는 건너뜀 (버퍼 꽉 찬 채널에 블로킹하지 않음)
func (e *Engine) apply(mutate func(*State)) {
	e.mu.Lock()
	mutate(&e.state)
	snapshot := e.state.clone()
	for ch := range e.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
	e.mu.Unlock()
}

// Update - 입력 상태 일괄 변경 (핸들러용)
func (e *Engine) Update(mutate func(*State)) {
	e.apply(mutate)
}

// CancelCurrentProcess - 진행 중인 생성 중단
// 로딩 플래그를 내리고 취소 시그널을 보냄. 백엔드측 중단은 보장하지 않음
func (e *Engine) CancelCurrentProcess(ctx context.Context) {
	e.cancelMu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancelMu.Unlock()

	if err := redisutil.MarkCancelled(ctx, e.rdb, e.ID); err != nil {
		log.Printf("⚠️ Failed to mark session %s cancelled: %v", e.ID, err)
	}

	e.apply(func(s *State) {
		s.IsGenerating = false
		s.LoadingMessage = ""
	})
	log.Printf("🛑 [Studio] Session %s: generation cancelled by user", e.ID)
}

// beginPass - 워크플로우 시작 시 취소 가능한 컨텍스트 생성 + 중단 플래그 초기화
func (e *Engine) beginPass(ctx context.Context) (context.Context, context.CancelFunc) {
	passCtx, cancel := context.WithCancel(ctx)
	e.cancelMu.Lock()
	e.cancel = cancel
	e.cancelMu.Unlock()
	redisutil.ClearCancelled(ctx, e.rdb, e.ID)
	return passCtx, cancel
}

// endPass - 저장된 취소 함수 해제
func (e *Engine) endPass(cancel context.CancelFunc) {
	cancel()
	e.cancelMu.Lock()
	e.cancel = nil
	e.cancelMu.Unlock()
}

// isCancelled - 팩 샷 사이 등 중단 지점에서 확인
func (e *Engine) isCancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return redisutil.IsCancelled(ctx, e.rdb, e.ID)
}

// recordRequestTimestamp - 최근 60초 창 유지 (prune 후 append)
func (e *Engine) recordRequestTimestamp() {
	now := time.Now().UnixMilli()
	oneMinuteAgo := now - 60_000
	e.apply(func(s *State) {
		recent := s.RequestTimestamps[:0]
		for _, ts := range s.RequestTimestamps {
			if ts > oneMinuteAgo {
				recent = append(recent, ts)
			}
		}
		s.RequestTimestamps = append(recent, now)
	})
}

// checkRateLimit - 분당 요청 상한 확인. 0이면 제한 없음
func (e *Engine) checkRateLimit() error {
	if e.RequestsPerMinute <= 0 {
		return nil
	}
	if e.RecentRequestCount() >= e.RequestsPerMinute {
		return prompt.NewValidationError(
			"You've reached the limit of %d generations per minute. Please wait a moment and try again.",
			e.RequestsPerMinute)
	}
	return nil
}

// RecentRequestCount - 최근 60초 요청 수 (외부 플랜 시스템 조회용)
func (e *Engine) RecentRequestCount() int {
	cutoff := time.Now().UnixMilli() - 60_000
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ts := range e.state.RequestTimestamps {
		if ts > cutoff {
			n++
		}
	}
	return n
}

// onRetryMessage - 재시도 대기 시 UI 진행 메시지 갱신
func (e *Engine) onRetryMessage(attempt int, delay time.Duration) {
	seconds := int(math.Ceil(delay.Seconds()))
	e.apply(func(s *State) {
		s.LoadingMessage = fmt.Sprintf("API is busy. Retrying in %ds... (Attempt %d)", seconds, attempt)
	})
}

// styleDescription - 스타일 레퍼런스가 있을 때의 고정 문구
func styleDescription(s *State) string {
	if s.StyleReferenceImage != "" {
		return "User provided style reference"
	}
	return ""
}

// common - 현재 상태에서 공통 프롬프트 파라미터 구성
func (e *Engine) common(s *State, output prompt.OutputKind, animation *prompt.Animation) prompt.Common {
	return prompt.Common{
		AspectRatio:      s.AspectRatio,
		StyleDescription: styleDescription(s),
		Output:           output,
		Animation:        animation,
	}
}

// SelectImage - 활성 이미지 변경. 이미지 포인터와 비디오 슬롯은 상호 배타적이라
// 선택 시 표시 중인 비디오가 해제됨
func (e *Engine) SelectImage(index int) error {
	var err error
	e.apply(func(s *State) {
		if index < 0 || index >= len(s.GeneratedImages) {
			err = prompt.NewValidationError("No generated image at index %d.", index)
			return
		}
		idx := index
		s.ActiveImageIndex = &idx
		s.GeneratedVideoURL = ""
		s.VideoSourceImage = ""
	})
	return err
}

// writeImageSlot - 결과 버퍼의 index 슬롯 채우기 (버퍼가 짧으면 무시)
func (e *Engine) writeImageSlot(index int, dataURL string) {
	e.apply(func(s *State) {
		if index >= 0 && index < len(s.GeneratedImages) {
			s.GeneratedImages[index] = dataURL
		}
	})
}
