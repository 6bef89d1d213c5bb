// Package studio - 생성 오케스트레이션 엔진
// 세션 상태를 단일 뮤텍스 아래에서 관리하고, 멀티 스텝 생성 워크플로우
// (배치, 팩, 비디오 폴링, 생성형 편집)를 취소/재시도 가능하게 구동함
package studio

import (
	"strings"

	"virtual-studio-server/modules/prompt"
)

// 스튜디오 모드
const (
	ModeApparel   = "apparel"
	ModeProduct   = "product"
	ModeDesign    = "design"
	ModeReimagine = "reimagine"
)

// PackNone - 팩 미선택 표시자
const PackNone = "none"

// EditSession - 편집 시작 시점의 원본 이미지 스냅샷
type EditSession struct {
	Original string `json:"original"`
	Index    int    `json:"index"`
}

// State - 세션 하나의 전체 스튜디오 상태
// 생성 결과는 data URL 문자열, 빈 문자열은 아직 도착하지 않은 슬롯
type State struct {
	StudioMode     string       `json:"studio_mode"`
	Scene          prompt.Scene `json:"scene"`
	AspectRatio    string       `json:"aspect_ratio"`
	NumberOfImages int          `json:"number_of_images"`

	IsGenerating      bool     `json:"is_generating"`
	LoadingMessage    string   `json:"loading_message"`
	GeneratedImages   []string `json:"generated_images,omitempty"`
	GeneratedVideoURL string   `json:"generated_video_url,omitempty"`
	VideoSourceImage  string   `json:"video_source_image,omitempty"`
	ActiveImageIndex  *int     `json:"active_image_index,omitempty"`
	Error             string   `json:"error,omitempty"`
	GenerationCount   int      `json:"generation_count"`

	StyleReferenceImage string `json:"style_reference_image,omitempty"`

	IsEditing        bool         `json:"is_editing"`
	ImageBeingEdited *EditSession `json:"image_being_edited,omitempty"`
	IsApplyingEdit   bool         `json:"is_applying_edit"`

	IsGeneratingBackground bool `json:"is_generating_background"`

	// 최근 60초 요청 타임스탬프 (unix ms, append 전에 prune)
	RequestTimestamps []int64 `json:"request_timestamps,omitempty"`

	// 의류 모드 입력
	UploadedModelImage       string                 `json:"uploaded_model_image,omitempty"`
	SelectedModels           []prompt.AIModel       `json:"selected_models,omitempty"`
	PromptedModelDescription string                 `json:"prompted_model_description,omitempty"`
	ModelLightingDescription string                 `json:"model_lighting_description,omitempty"`
	Apparel                  []prompt.ApparelItem   `json:"apparel,omitempty"`
	ApparelControls          prompt.ApparelControls `json:"apparel_controls"`

	// 제품 모드 입력
	ProductImage    string                 `json:"product_image,omitempty"`
	StagedAssets    []prompt.StagedAsset   `json:"staged_assets,omitempty"`
	ProductControls prompt.ProductControls `json:"product_controls"`

	// 디자인 모드 입력
	MockupImage     string                `json:"mockup_image,omitempty"`
	DesignImage     string                `json:"design_image,omitempty"`
	BackDesignImage string                `json:"back_design_image,omitempty"`
	DesignControls  prompt.DesignControls `json:"design_controls"`
	DesignShotView  string                `json:"design_shot_view,omitempty"`

	// 리이매진 모드 입력
	ReimagineSourcePhoto string                   `json:"reimagine_source_photo,omitempty"`
	NewModelPhoto        string                   `json:"new_model_photo,omitempty"`
	ReimagineControls    prompt.ReimagineControls `json:"reimagine_controls"`

	// 팩 선택 (ID, "none"이면 미선택)
	EcommercePack        string `json:"ecommerce_pack"`
	ProductEcommercePack string `json:"product_ecommerce_pack"`
}

// NewState - 초기 상태
func NewState() State {
	return State{
		StudioMode:           ModeApparel,
		AspectRatio:          "3:4",
		NumberOfImages:       1,
		LoadingMessage:       "Generating your vision...",
		DesignShotView:       "front",
		EcommercePack:        PackNone,
		ProductEcommercePack: PackNone,
		Scene: prompt.Scene{
			Background: prompt.BackgroundRef{ID: "bg_white", Name: "White", Type: "color"},
			Lighting:   prompt.LightingRef{ID: "light_softbox", Name: "Studio Softbox", Description: "soft, even studio softbox lighting"},
		},
	}
}

// clone - 구독자 브로드캐스트용 깊은 복사 (슬라이스 공유 방지)
func (s State) clone() State {
	out := s
	if s.GeneratedImages != nil {
		out.GeneratedImages = append([]string(nil), s.GeneratedImages...)
	}
	if s.RequestTimestamps != nil {
		out.RequestTimestamps = append([]int64(nil), s.RequestTimestamps...)
	}
	if s.SelectedModels != nil {
		out.SelectedModels = append([]prompt.AIModel(nil), s.SelectedModels...)
	}
	if s.Apparel != nil {
		out.Apparel = append([]prompt.ApparelItem(nil), s.Apparel...)
	}
	if s.StagedAssets != nil {
		out.StagedAssets = append([]prompt.StagedAsset(nil), s.StagedAssets...)
	}
	if s.ActiveImageIndex != nil {
		idx := *s.ActiveImageIndex
		out.ActiveImageIndex = &idx
	}
	if s.ImageBeingEdited != nil {
		edit := *s.ImageBeingEdited
		out.ImageBeingEdited = &edit
	}
	return out
}

// HasModel - 현재 상태에 모델 소스가 있는지 (제품 온모델 분기 기준)
func (s *State) HasModel() bool {
	return s.UploadedModelImage != "" || len(s.SelectedModels) > 0 ||
		strings.TrimSpace(s.PromptedModelDescription) != ""
}

// HasModelSelection - 사진이나 카탈로그로 모델을 고른 상태인지
// 텍스트 설명만 있는 경우는 제외 (레퍼런스 팩 생성 가드 기준)
func (s *State) HasModelSelection() bool {
	return s.UploadedModelImage != "" || len(s.SelectedModels) > 0
}
