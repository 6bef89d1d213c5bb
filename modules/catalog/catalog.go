// Package catalog - 촬영 옵션 라이브러리 (샷 타입, 조명, 카메라, 팩 정의)
// 모든 테이블은 불변 데이터. 프롬프트 컴파일러와 스튜디오 엔진이 읽기만 함.
package catalog

// Option - 선택 가능한 옵션 레코드
// ID는 머신 식별자, Description은 프롬프트에 직접 삽입되는 효과 설명
type Option struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// 기본값 ID - 이 값이면 해당 프롬프트 라인을 생략함
const (
	DefaultFabricID            = "fab1"
	DefaultColorGradeID        = "cg_none"
	DefaultLightingDirectionID = "ld1"
	DefaultLightQualityID      = "lq1"
)

// CustomID - 사용자 업로드 배경 / 커스텀 인터랙션 표시자
const CustomID = "custom"

// TimeOfDayDescriptions - 시간대 선택 시 조명 설명을 통째로 대체하는 문장
var TimeOfDayDescriptions = map[string]string{
	"Sunrise":     "The lighting should evoke early morning sunrise, with soft, warm, low-angle light creating long, gentle shadows.",
	"Midday":      "The lighting should be bright, direct midday sun from high above, creating harsh, defined shadows.",
	"Golden Hour": "The lighting must be warm, golden hour sunlight from the side, creating a beautiful, soft glow.",
	"Twilight":    "The scene is lit by the cool, soft, ambient light of twilight (blue hour), with very soft or no distinct shadows.",
	"Night":       "The scene is set at night, with dramatic, artificial light sources like streetlights or neon signs, creating high contrast.",
}

// ShotTypeOptions - 전신/상반신 등 샷 구도
var ShotTypeOptions = []Option{
	{ID: "st1", Name: "Full Body", Description: "a full-body shot showing the model from head to toe"},
	{ID: "st2", Name: "Three-Quarter", Description: "a three-quarter shot framing the model from the knees up"},
	{ID: "st3", Name: "Half Body", Description: "a half-body shot framing the model from the waist up"},
	{ID: "st4", Name: "Close-Up", Description: "a close-up shot focusing on the upper chest and face"},
	{ID: "st5", Name: "Detail", Description: "an extreme close-up detail shot of the garment's fabric and stitching"},
}

// ExpressionOptions - 모델 표정
var ExpressionOptions = []Option{
	{ID: "ex1", Name: "Neutral", Description: "a calm, neutral expression"},
	{ID: "ex2", Name: "Soft Smile", Description: "a soft, natural smile"},
	{ID: "ex3", Name: "Confident", Description: "a confident, editorial gaze directly into the camera"},
	{ID: "ex4", Name: "Candid Laugh", Description: "a candid, mid-laugh expression"},
	{ID: "ex5", Name: "Serene", Description: "a serene, looking-away expression"},
}

// CameraAngleOptions - 카메라 앵글
var CameraAngleOptions = []Option{
	{ID: "ca1", Name: "Eye Level", Description: "shot at eye level for a natural perspective"},
	{ID: "ca2", Name: "Low Angle", Description: "shot from a low angle looking up for a powerful silhouette"},
	{ID: "ca3", Name: "High Angle", Description: "shot from a high angle looking down"},
	{ID: "ca4", Name: "Dutch Angle", Description: "shot with a slight dutch tilt for editorial energy"},
	{ID: "ca5", Name: "Top Down", Description: "shot directly from above, flat-lay style"},
}

// ApertureOptions - 조리개 (피사계 심도)
var ApertureOptions = []Option{
	{ID: "ap1", Name: "f/1.8", Description: "a wide f/1.8 aperture with creamy background bokeh"},
	{ID: "ap2", Name: "f/4", Description: "an f/4 aperture with a gently softened background"},
	{ID: "ap3", Name: "f/8", Description: "an f/8 aperture keeping the subject and background crisp"},
	{ID: "ap4", Name: "f/16", Description: "a narrow f/16 aperture with deep front-to-back sharpness"},
}

// FocalLengthOptions - 초점 거리
var FocalLengthOptions = []Option{
	{ID: "fl1", Name: "35mm", Description: "a 35mm lens with a natural environmental perspective"},
	{ID: "fl2", Name: "50mm", Description: "a 50mm lens with a true-to-eye perspective"},
	{ID: "fl3", Name: "85mm", Description: "an 85mm portrait lens with flattering compression"},
	{ID: "fl4", Name: "100mm Macro", Description: "a 100mm macro lens capturing fine material detail"},
}

// FabricOptions - 원단 질감 (fab1 = 기본, 생략)
var FabricOptions = []Option{
	{ID: DefaultFabricID, Name: "As Uploaded", Description: "the fabric exactly as shown in the uploaded image"},
	{ID: "fab2", Name: "Heavy Cotton", Description: "heavyweight brushed cotton with visible weave"},
	{ID: "fab3", Name: "Silk", Description: "fluid silk with a soft sheen and delicate draping"},
	{ID: "fab4", Name: "Denim", Description: "rigid raw denim with pronounced twill lines"},
	{ID: "fab5", Name: "Knit", Description: "chunky knit wool with deep, tactile texture"},
}

// ColorGradeOptions - 컬러 그레이드 (cg_none = 기본, 생략)
var ColorGradeOptions = []Option{
	{ID: DefaultColorGradeID, Name: "None", Description: "no additional color grading"},
	{ID: "cg_warm", Name: "Warm Film", Description: "a warm, film-inspired grade with lifted blacks and golden midtones"},
	{ID: "cg_cool", Name: "Cool Editorial", Description: "a cool, desaturated editorial grade with clean whites"},
	{ID: "cg_vivid", Name: "Vivid Commerce", Description: "a punchy, high-saturation commercial grade"},
	{ID: "cg_mono", Name: "Monochrome", Description: "a rich black-and-white conversion with deep contrast"},
}

// LightingDirectionOptions - 주광 방향 (ld1 = 기본, 생략)
var LightingDirectionOptions = []Option{
	{ID: DefaultLightingDirectionID, Name: "Auto", Description: "wherever the scene naturally suggests"},
	{ID: "ld2", Name: "Front", Description: "directly in front of the subject"},
	{ID: "ld3", Name: "Side Left", Description: "to the left of the subject at roughly 45 degrees"},
	{ID: "ld4", Name: "Side Right", Description: "to the right of the subject at roughly 45 degrees"},
	{ID: "ld5", Name: "Backlit", Description: "behind the subject, rim-lighting the silhouette"},
}

// LightQualityOptions - 광질 (lq1 = 기본, 생략)
var LightQualityOptions = []Option{
	{ID: DefaultLightQualityID, Name: "Auto", Description: "matched to the scene"},
	{ID: "lq2", Name: "Soft", Description: "soft and diffused, as if through a large softbox"},
	{ID: "lq3", Name: "Hard", Description: "hard and specular, with crisp shadow edges"},
	{ID: "lq4", Name: "Dappled", Description: "dappled, as if filtered through foliage"},
}

// CatchlightOptions - 눈 캐치라이트 (항상 프롬프트에 포함)
var CatchlightOptions = []Option{
	{ID: "cl1", Name: "Natural", Description: "natural, subtle catchlights in the model's eyes"},
	{ID: "cl2", Name: "Ring", Description: "distinct circular ring-light catchlights in the model's eyes"},
	{ID: "cl3", Name: "Window", Description: "soft rectangular window-shaped catchlights in the model's eyes"},
}

// ModelInteractionOptions - 제품 온모델 인터랙션
var ModelInteractionOptions = []Option{
	{ID: "mi1", Name: "Holding", Description: "holding the product in their hands, presenting it towards the camera"},
	{ID: "mi2", Name: "Using", Description: "naturally using the product as intended"},
	{ID: "mi3", Name: "Wearing", Description: "wearing the product"},
	{ID: "mi4", Name: "Beside", Description: "standing beside the product, gesturing towards it"},
	{ID: CustomID, Name: "Custom", Description: ""},
}

// FabricStyleOptions - 디자인 목업 원단
var FabricStyleOptions = []Option{
	{ID: "fs1", Name: "standard cotton", Description: "standard cotton"},
	{ID: "fs2", Name: "heavyweight cotton", Description: "heavyweight cotton"},
	{ID: "fs3", Name: "tri-blend jersey", Description: "tri-blend jersey"},
	{ID: "fs4", Name: "french terry", Description: "french terry"},
}

// MockupStyleOptions - 디자인 목업 연출 방식
var MockupStyleOptions = []Option{
	{ID: "ms1", Name: "hanging", Description: "hanging"},
	{ID: "ms2", Name: "flat lay", Description: "flat lay"},
	{ID: "ms3", Name: "folded", Description: "folded"},
	{ID: "ms4", Name: "on mannequin", Description: "on mannequin"},
}

// DesignLightingStyleOptions - 디자인 목업 조명
var DesignLightingStyleOptions = []Option{
	{ID: "dl1", Name: "studio softbox lighting", Description: "studio softbox lighting"},
	{ID: "dl2", Name: "natural window light", Description: "natural window light"},
	{ID: "dl3", Name: "dramatic rim lighting", Description: "dramatic rim lighting"},
}

// DesignCameraAngleOptions - 디자인 목업 카메라 앵글
// "detail" ID는 프린트 영역 극단 클로즈업 전용 디렉티브로 처리됨
var DesignCameraAngleOptions = []Option{
	{ID: "front", Name: "eye-level front view", Description: "a straight-on front view at eye level"},
	{ID: "angled", Name: "three-quarter angled view", Description: "a slightly angled three-quarter view"},
	{ID: "detail", Name: "detail close-up", Description: "an extreme close-up of the print area"},
}

// DesignDetailCameraAngleID - 디테일 샷 전용 브랜치를 트리거하는 ID
const DesignDetailCameraAngleID = "detail"

// PrintStyleOptions - 프린트 기법
var PrintStyleOptions = []Option{
	{ID: "ps1", Name: "screen printed", Description: "screen printed"},
	{ID: "ps2", Name: "embroidered", Description: "embroidered"},
	{ID: "ps3", Name: "vintage cracked print", Description: "vintage cracked print"},
	{ID: "ps4", Name: "puff printed", Description: "puff printed"},
}

// DesignPlacementOptions - 디자인 배치 위치
var DesignPlacementOptions = []Option{
	{ID: "dp_center", Name: "center", Description: "centered on the chest"},
	{ID: "dp_left", Name: "left chest", Description: "on the left chest"},
	{ID: "dp_back", Name: "full back", Description: "across the full back"},
	{ID: "dp_sleeve", Name: "sleeve", Description: "on the sleeve"},
}

// FindOption - ID로 옵션 검색. 없으면 nil
func FindOption(options []Option, id string) *Option {
	for i := range options {
		if options[i].ID == id {
			return &options[i]
		}
	}
	return nil
}

// OptionName - ID로 이름 검색, 없으면 fallback 반환
func OptionName(options []Option, id, fallback string) string {
	if opt := FindOption(options, id); opt != nil {
		return opt.Name
	}
	return fallback
}
