// Package prompt - 스튜디오 설정을 생성 백엔드용 명령 시퀀스로 컴파일
// 모드별 디렉티브, 오버라이드 레이어, 커스텀 프롬프트 우선순위를 모두 여기서 처리함
package prompt

import (
	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/common/utils"
)

// SegmentKind - 세그먼트 종류
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentImage
)

// Segment - 백엔드로 전달되는 명령 블록 하나 (텍스트 또는 이미지)
// 슬라이스 내 순서가 곧 전송 순서. 이미지 순서는 프롬프트 본문이 참조하는 위치 규약과 일치해야 함
type Segment struct {
	Kind SegmentKind
	Text string
	Data []byte
	MIME string
}

// TextSegment - 텍스트 세그먼트 생성
func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

// ImageSegment - 바이너리 이미지 세그먼트 생성
func ImageSegment(data []byte, mimeType string) Segment {
	return Segment{Kind: SegmentImage, Data: data, MIME: mimeType}
}

// imageFromDataURL - data URL을 이미지 세그먼트로 디코딩. 실패 시 MalformedInputError
func imageFromDataURL(dataURL, field string) (Segment, error) {
	data, mimeType, err := utils.ParseDataURL(dataURL)
	if err != nil {
		return Segment{}, &MalformedInputError{Field: field, Err: err}
	}
	return ImageSegment(data, mimeType), nil
}

// OutputKind - 생성 결과물 종류
type OutputKind string

const (
	OutputImage OutputKind = "image"
	OutputVideo OutputKind = "video"
)

// Animation - 비디오 생성 시 모델/제품 동작 설명
type Animation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AIModel - 카탈로그 모델 (텍스트 설명 기반)
type AIModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BackgroundRef - 배경 선택. ID가 catalog.CustomID이고 Type이 image면 사용자 업로드 배경
type BackgroundRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"` // "image" | "color"
	Value string `json:"value,omitempty"`
}

// IsCustomImage - 사용자 업로드 배경 여부
func (b BackgroundRef) IsCustomImage() bool {
	return b.ID == catalog.CustomID && b.Type == "image"
}

// LightingRef - 조명 프리셋. IsDynamic이면 모델 사진의 조명을 따라감
type LightingRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDynamic   bool   `json:"is_dynamic,omitempty"`
}

// Scene - 배경/조명/시간대/소품/대기 효과
type Scene struct {
	Background           BackgroundRef `json:"background"`
	Lighting             LightingRef   `json:"lighting"`
	TimeOfDay            string        `json:"time_of_day,omitempty"`
	SceneProps           string        `json:"scene_props,omitempty"`
	EnvironmentalEffects string        `json:"environmental_effects,omitempty"`
}

// ApparelItem - 의류 한 벌. 뒷면/디테일 이미지는 선택
type ApparelItem struct {
	Base64           string `json:"base64"`
	Description      string `json:"description,omitempty"`
	BackViewBase64   string `json:"back_view_base64,omitempty"`
	DetailViewBase64 string `json:"detail_view_base64,omitempty"`
}

// StagedAsset - 제품 스테이징 캔버스 위의 에셋 (ID "product"가 주 제품)
type StagedAsset struct {
	ID     string  `json:"id"`
	Base64 string  `json:"base64"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Scale  float64 `json:"scale"`
	Z      int     `json:"z"`
}

// ApparelControls - 의류 모드 크리에이티브 컨트롤
type ApparelControls struct {
	ShotType          catalog.Option `json:"shot_type"`
	Expression        catalog.Option `json:"expression"`
	Aperture          catalog.Option `json:"aperture"`
	FocalLength       catalog.Option `json:"focal_length"`
	Fabric            catalog.Option `json:"fabric"`
	CameraAngle       catalog.Option `json:"camera_angle"`
	LightingDirection catalog.Option `json:"lighting_direction"`
	LightQuality      catalog.Option `json:"light_quality"`
	CatchlightStyle   catalog.Option `json:"catchlight_style"`
	ColorGrade        catalog.Option `json:"color_grade"`

	HairStyle      string `json:"hair_style,omitempty"`
	MakeupStyle    string `json:"makeup_style,omitempty"`
	GarmentStyling string `json:"garment_styling,omitempty"`
	CustomPrompt   string `json:"custom_prompt,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`

	IsHyperRealismEnabled bool `json:"is_hyper_realism_enabled"`
	CinematicLook         bool `json:"cinematic_look"`
	StyleStrength         int  `json:"style_strength"`
}

// ProductControls - 제품 모드 크리에이티브 컨트롤
type ProductControls struct {
	ShotType          catalog.Option `json:"shot_type"`
	Expression        catalog.Option `json:"expression"`
	Aperture          catalog.Option `json:"aperture"`
	FocalLength       catalog.Option `json:"focal_length"`
	CameraAngle       catalog.Option `json:"camera_angle"`
	LightingDirection catalog.Option `json:"lighting_direction"`
	LightQuality      catalog.Option `json:"light_quality"`
	CatchlightStyle   catalog.Option `json:"catchlight_style"`
	ColorGrade        catalog.Option `json:"color_grade"`

	ModelInteractionType   catalog.Option `json:"model_interaction_type"`
	CustomModelInteraction string         `json:"custom_model_interaction,omitempty"`

	Surface         catalog.Option `json:"surface"`
	ProductMaterial catalog.Option `json:"product_material"`
	ProductShadow   string         `json:"product_shadow,omitempty"` // "None" | "Soft" | "Hard"
	CustomProps     string         `json:"custom_props,omitempty"`

	CustomPrompt   string `json:"custom_prompt,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`

	IsHyperRealismEnabled bool `json:"is_hyper_realism_enabled"`
	CinematicLook         bool `json:"cinematic_look"`
	StyleStrength         int  `json:"style_strength"`
}

// DesignPlacement - 디자인 배치 미세 조정 (앞면/뒷면 각각)
type DesignPlacement struct {
	Placement string  `json:"placement"`
	Scale     float64 `json:"scale"`
	Rotation  float64 `json:"rotation"`
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
}

// DesignControls - 디자인(목업) 모드 컨트롤. 스타일 필드는 카탈로그 ID
type DesignControls struct {
	ApparelType   string `json:"apparel_type"`
	ShirtColor    string `json:"shirt_color"`
	FabricStyle   string `json:"fabric_style"`
	MockupStyle   string `json:"mockup_style"`
	LightingStyle string `json:"lighting_style"`
	CameraAngle   string `json:"camera_angle"`
	PrintStyle    string `json:"print_style"`

	FabricBlend    int  `json:"fabric_blend"`
	WrinkleConform bool `json:"wrinkle_conform"`

	Front DesignPlacement `json:"front"`
	Back  DesignPlacement `json:"back"`
}

// ReimagineControls - 리이매진 모드 컨트롤
type ReimagineControls struct {
	NewModelDescription      string `json:"new_model_description,omitempty"`
	NewBackgroundDescription string `json:"new_background_description,omitempty"`
	NegativePrompt           string `json:"negative_prompt,omitempty"`
}

// Common - 모든 모드가 공유하는 파라미터
type Common struct {
	AspectRatio      string     `json:"aspect_ratio"`
	StyleDescription string     `json:"style_description,omitempty"`
	Output           OutputKind `json:"output"`
	Animation        *Animation `json:"animation,omitempty"`
}

// Params - 모드별 컴파일 파라미터 (tagged union)
type Params interface {
	studioMode() string
}

// ApparelParams - 의류 모드 파라미터
// BaseLookImage가 있으면 일관성(re-pose) 브랜치로 컴파일됨
type ApparelParams struct {
	Common
	UploadedModelImage       string        `json:"uploaded_model_image,omitempty"`
	SelectedModels           []AIModel     `json:"selected_models,omitempty"`
	Apparel                  []ApparelItem `json:"apparel"`
	Scene                    Scene         `json:"scene"`
	PromptedModelDescription string        `json:"prompted_model_description,omitempty"`
	ModelLightingDescription string        `json:"model_lighting_description,omitempty"`
	Controls                 ApparelControls `json:"controls"`
	BaseLookImage            string          `json:"base_look_image,omitempty"`
}

func (*ApparelParams) studioMode() string { return "apparel" }

// ProductParams - 제품 모드 파라미터
// ModelReferenceImage가 있으면 일관성(re-pose) 브랜치로 컴파일됨
type ProductParams struct {
	Common
	ProductImage             string          `json:"product_image,omitempty"`
	StagedAssets             []StagedAsset   `json:"staged_assets,omitempty"`
	Scene                    Scene           `json:"scene"`
	Controls                 ProductControls `json:"controls"`
	UploadedModelImage       string          `json:"uploaded_model_image,omitempty"`
	SelectedModels           []AIModel       `json:"selected_models,omitempty"`
	PromptedModelDescription string          `json:"prompted_model_description,omitempty"`
	ModelReferenceImage      string          `json:"model_reference_image,omitempty"`
}

func (*ProductParams) studioMode() string { return "product" }

// DesignParams - 디자인 목업 모드 파라미터
type DesignParams struct {
	Common
	MockupImage     string         `json:"mockup_image"`
	DesignImage     string         `json:"design_image"`
	BackDesignImage string         `json:"back_design_image,omitempty"`
	Controls        DesignControls `json:"controls"`
	Scene           Scene          `json:"scene"`
	ShotView        string         `json:"shot_view"` // "front" | "back"
}

func (*DesignParams) studioMode() string { return "design" }

// ReimagineParams - 리이매진 모드 파라미터
type ReimagineParams struct {
	Common
	SourcePhoto   string            `json:"source_photo"`
	NewModelPhoto string            `json:"new_model_photo,omitempty"`
	Controls      ReimagineControls `json:"controls"`
}

func (*ReimagineParams) studioMode() string { return "reimagine" }

// HasModel - 모델 소스(업로드/카탈로그/텍스트 설명) 중 하나라도 있는지
func (p *ApparelParams) HasModel() bool {
	return p.UploadedModelImage != "" || len(p.SelectedModels) > 0 || trimmed(p.PromptedModelDescription) != ""
}

// HasModel - 제품 모드에서 온모델 샷 여부를 가르는 기준
func (p *ProductParams) HasModel() bool {
	return p.UploadedModelImage != "" || len(p.SelectedModels) > 0 || trimmed(p.PromptedModelDescription) != ""
}
