package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/common/credit"
	"virtual-studio-server/modules/common/storage"
	"virtual-studio-server/modules/common/utils"
	"virtual-studio-server/modules/prompt"
)

// Handler - 스튜디오 REST API
type Handler struct {
	manager *SessionManager
	credits *credit.Client
	storage *storage.Client
}

// NewHandler - 핸들러 생성
func NewHandler(manager *SessionManager) *Handler {
	return &Handler{
		manager: manager,
		credits: credit.NewClient(),
		storage: storage.NewClient(),
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.manager.HandleWebSocket)

	r.HandleFunc("/api/catalog", h.GetCatalog).Methods("GET")
	r.HandleFunc("/blobs/{blobId}", h.GetBlob).Methods("GET")

	s := r.PathPrefix("/api/sessions/{sessionId}").Subrouter()
	s.HandleFunc("/state", h.GetState).Methods("GET")
	s.HandleFunc("/state", h.UpdateState).Methods("PUT")
	s.HandleFunc("/generate", h.Generate).Methods("POST")
	s.HandleFunc("/pack", h.GeneratePack).Methods("POST")
	s.HandleFunc("/video", h.GenerateVideo).Methods("POST")
	s.HandleFunc("/cancel", h.Cancel).Methods("POST")
	s.HandleFunc("/select", h.SelectImage).Methods("POST")
	s.HandleFunc("/edit/start", h.StartEdit).Methods("POST")
	s.HandleFunc("/edit/cancel", h.CancelEdit).Methods("POST")
	s.HandleFunc("/edit/revert", h.RevertEdit).Methods("POST")
	s.HandleFunc("/edit/apply", h.ApplyEdit).Methods("POST")
	s.HandleFunc("/background", h.GenerateBackground).Methods("POST")
	s.HandleFunc("/analyze-lighting", h.AnalyzeLighting).Methods("POST")
	s.HandleFunc("/export", h.Export).Methods("POST")
	s.HandleFunc("/download/{index:[0-9]+}", h.Download).Methods("GET")
}

// sessionEngine - 요청의 세션 엔진 조회/생성
func (h *Handler) sessionEngine(r *http.Request) *Engine {
	vars := mux.Vars(r)
	sessionID := vars["sessionId"]

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = r.URL.Query().Get("user")
	}
	return h.manager.GetOrCreateSession(sessionID, userID).Engine()
}

// creditHook - 생성 성공 시 사용량 차감
func (h *Handler) creditHook(engine *Engine) CompleteFunc {
	return func(ctx context.Context, count int) error {
		if engine.UserID == "" {
			return nil
		}
		return h.credits.RecordUsage(ctx, engine.UserID, count)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeWorkflowError - 워크플로우 에러를 HTTP 상태로 변환
// 검증/입력 오류는 400, 미지원 조작은 409, 나머지는 502
func writeWorkflowError(w http.ResponseWriter, err error) {
	var validationErr *prompt.ValidationError
	var malformedErr *prompt.MalformedInputError
	var unsupportedErr *UnsupportedOperationError

	status := http.StatusBadGateway
	switch {
	case errors.As(err, &validationErr), errors.As(err, &malformedErr):
		status = http.StatusBadRequest
	case errors.As(err, &unsupportedErr):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// GetState - 현재 세션 상태 조회
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// UpdateState - 세션 입력 상태 갱신
// 바디에 없는 필드는 유지됨. 진행 상태 필드는 엔진 소유라 덮어쓸 수 없음
func (h *Handler) UpdateState(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	merged := engine.Snapshot()
	if err := json.NewDecoder(r.Body).Decode(&merged); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	engine.Update(func(s *State) {
		progress := struct {
			isGenerating           bool
			loadingMessage         string
			generatedImages        []string
			generatedVideoURL      string
			videoSourceImage       string
			generationCount        int
			requestTimestamps      []int64
			isEditing              bool
			imageBeingEdited       *EditSession
			isApplyingEdit         bool
			isGeneratingBackground bool
		}{
			s.IsGenerating, s.LoadingMessage, s.GeneratedImages, s.GeneratedVideoURL,
			s.VideoSourceImage, s.GenerationCount, s.RequestTimestamps,
			s.IsEditing, s.ImageBeingEdited, s.IsApplyingEdit, s.IsGeneratingBackground,
		}

		*s = merged

		s.IsGenerating = progress.isGenerating
		s.LoadingMessage = progress.loadingMessage
		s.GeneratedImages = progress.generatedImages
		s.GeneratedVideoURL = progress.generatedVideoURL
		s.VideoSourceImage = progress.videoSourceImage
		s.GenerationCount = progress.generationCount
		s.RequestTimestamps = progress.requestTimestamps
		s.IsEditing = progress.isEditing
		s.ImageBeingEdited = progress.imageBeingEdited
		s.IsApplyingEdit = progress.isApplyingEdit
		s.IsGeneratingBackground = progress.isGeneratingBackground
	})

	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Generate - 현재 설정으로 생성 패스 시작 (비동기)
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	if engine.Snapshot().IsGenerating {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A generation is already in progress"})
		return
	}

	go func() {
		if err := engine.GenerateAsset(context.Background(), h.creditHook(engine)); err != nil {
			log.Printf("❌ [Studio] Session %s: generate request failed: %v", engine.ID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// GeneratePack - 활성 이미지를 기준으로 팩 생성 시작 (비동기)
func (h *Handler) GeneratePack(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	if engine.Snapshot().IsGenerating {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A generation is already in progress"})
		return
	}

	go func() {
		if err := engine.GeneratePackFromReference(context.Background(), h.creditHook(engine)); err != nil {
			log.Printf("❌ [Studio] Session %s: pack request failed: %v", engine.ID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// GenerateVideo - 활성 이미지 비디오화 시작 (비동기)
func (h *Handler) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	if engine.Snapshot().IsGenerating {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A generation is already in progress"})
		return
	}

	var req struct {
		Animation *prompt.Animation `json:"animation,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	go func() {
		if err := engine.GenerateVideoFromImage(context.Background(), req.Animation, h.creditHook(engine)); err != nil {
			log.Printf("❌ [Studio] Session %s: video request failed: %v", engine.ID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// Cancel - 진행 중인 생성 중단
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	engine.CancelCurrentProcess(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// SelectImage - 활성 이미지 변경
func (h *Handler) SelectImage(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := engine.SelectImage(req.Index); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// StartEdit - 편집 세션 시작
func (h *Handler) StartEdit(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := engine.StartEditing(req.Index); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// CancelEdit - 편집 취소, 원본 복원
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	engine.CancelEditing()
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// RevertEdit - 적용된 편집 되돌리기
func (h *Handler) RevertEdit(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)
	engine.RevertEdit()
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// ApplyEdit - 생성형 편집 적용 (동기, 단일 호출)
func (h *Handler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	var req struct {
		Prompt           string `json:"prompt"`
		Mask             string `json:"mask,omitempty"`
		ApparelReference string `json:"apparelReference,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing edit prompt"})
		return
	}

	if err := engine.ApplyGenerativeEdit(r.Context(), req.Mask, req.Prompt, req.ApparelReference); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// GenerateBackground - AI 배경 생성 후 씬에 적용 (동기)
func (h *Handler) GenerateBackground(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := engine.GenerateAIBackground(r.Context(), req.Prompt); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// AnalyzeLighting - 업로드된 모델 사진 조명 분석
func (h *Handler) AnalyzeLighting(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	if err := engine.AnalyzeModelLighting(r.Context()); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Snapshot())
}

// Export - 생성 이미지를 WebP로 변환해 스토리지에 업로드 후 공개 URL 반환
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	snap := engine.Snapshot()
	if req.Index < 0 || req.Index >= len(snap.GeneratedImages) || snap.GeneratedImages[req.Index] == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No image at the requested index"})
		return
	}

	data, _, err := utils.ParseDataURL(snap.GeneratedImages[req.Index])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Stored image is not a valid data URL"})
		return
	}

	userID := engine.UserID
	if userID == "" {
		userID = "anonymous"
	}
	url, size, err := h.storage.UploadImage(r.Context(), data, userID)
	if err != nil {
		log.Printf("❌ [Studio] Session %s: export upload failed: %v", engine.ID, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to upload image"})
		return
	}

	log.Printf("📤 [Studio] Session %s: exported image %d (%d bytes)", engine.ID, req.Index, size)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":  url,
		"size": size,
	})
}

// Download - 생성 이미지를 WebP로 재인코딩해 내려줌
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	engine := h.sessionEngine(r)

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid image index"})
		return
	}

	snap := engine.Snapshot()
	if index < 0 || index >= len(snap.GeneratedImages) || snap.GeneratedImages[index] == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No image at the requested index"})
		return
	}

	data, _, err := utils.ParseDataURL(snap.GeneratedImages[index])
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Stored image is not a valid data URL"})
		return
	}

	webpData, err := utils.ConvertToWebP(data, 90.0)
	if err != nil {
		log.Printf("❌ [Studio] Session %s: WebP conversion failed: %v", engine.ID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to convert image"})
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"studio_%s_%d.webp\"", engine.ID, index))
	w.Write(webpData)
}

// GetBlob - 비디오 등 바이너리 결과물 서빙
func (h *Handler) GetBlob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	data, mimeType, ok := h.manager.blobs.Get(vars["blobId"])
	if !ok {
		http.Error(w, "Blob not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// GetCatalog - 프론트엔드용 옵션/팩 카탈로그
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shotTypes":          catalog.ShotTypeOptions,
		"expressions":        catalog.ExpressionOptions,
		"cameraAngles":       catalog.CameraAngleOptions,
		"apertures":          catalog.ApertureOptions,
		"focalLengths":       catalog.FocalLengthOptions,
		"fabrics":            catalog.FabricOptions,
		"colorGrades":        catalog.ColorGradeOptions,
		"lightingDirections": catalog.LightingDirectionOptions,
		"lightQualities":     catalog.LightQualityOptions,
		"catchlights":        catalog.CatchlightOptions,
		"modelInteractions":  catalog.ModelInteractionOptions,
		"fabricStyles":       catalog.FabricStyleOptions,
		"mockupStyles":       catalog.MockupStyleOptions,
		"designLighting":     catalog.DesignLightingStyleOptions,
		"designCameraAngles": catalog.DesignCameraAngleOptions,
		"printStyles":        catalog.PrintStyleOptions,
		"designPlacements":   catalog.DesignPlacementOptions,
		"ecommercePacks":     catalog.EcommercePacks,
		"productPacks":       catalog.ProductEcommercePacks,
	})
}
