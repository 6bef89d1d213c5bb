package catalog

// PackShot - 팩 한 컷의 컨트롤 오버라이드
// 빈 문자열 필드는 현재 사용자 설정을 그대로 유지
type PackShot struct {
	ShotTypeID    string `json:"shot_type_id,omitempty"`
	ExpressionID  string `json:"expression_id,omitempty"`
	CameraAngleID string `json:"camera_angle_id,omitempty"`
	FocalLengthID string `json:"focal_length_id,omitempty"`
}

// Pack - 이름 붙은 순서 있는 샷 시퀀스
type Pack struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Shots []PackShot `json:"shots"`
}

// EcommercePacks - 온모델 촬영용 팩 (shot type / expression / camera angle 오버라이드)
var EcommercePacks = map[string]Pack{
	"studio5": {
		ID:   "studio5",
		Name: "Studio Essentials",
		Shots: []PackShot{
			{ShotTypeID: "st1", ExpressionID: "ex1", CameraAngleID: "ca1"},
			{ShotTypeID: "st2", ExpressionID: "ex2", CameraAngleID: "ca1"},
			{ShotTypeID: "st3", ExpressionID: "ex3", CameraAngleID: "ca2"},
			{ShotTypeID: "st4", ExpressionID: "ex2", CameraAngleID: "ca1"},
			{ShotTypeID: "st5", ExpressionID: "ex1", CameraAngleID: "ca1"},
		},
	},
	"lifestyle3": {
		ID:   "lifestyle3",
		Name: "Lifestyle Trio",
		Shots: []PackShot{
			{ShotTypeID: "st1", ExpressionID: "ex4", CameraAngleID: "ca1"},
			{ShotTypeID: "st3", ExpressionID: "ex5", CameraAngleID: "ca3"},
			{ShotTypeID: "st4", ExpressionID: "ex2", CameraAngleID: "ca1"},
		},
	},
	"editorial4": {
		ID:   "editorial4",
		Name: "Editorial Set",
		Shots: []PackShot{
			{ShotTypeID: "st1", ExpressionID: "ex3", CameraAngleID: "ca2"},
			{ShotTypeID: "st2", ExpressionID: "ex5", CameraAngleID: "ca4"},
			{ShotTypeID: "st3", ExpressionID: "ex3", CameraAngleID: "ca1"},
			{ShotTypeID: "st4", ExpressionID: "ex1", CameraAngleID: "ca4"},
		},
	},
}

// ProductEcommercePacks - 제품 단독 촬영용 팩 (camera angle / focal length 오버라이드)
var ProductEcommercePacks = map[string]Pack{
	"product4": {
		ID:   "product4",
		Name: "Product Essentials",
		Shots: []PackShot{
			{CameraAngleID: "ca1", FocalLengthID: "fl2"},
			{CameraAngleID: "ca2", FocalLengthID: "fl1"},
			{CameraAngleID: "ca5", FocalLengthID: "fl2"},
			{CameraAngleID: "ca1", FocalLengthID: "fl4"},
		},
	},
	"detail3": {
		ID:   "detail3",
		Name: "Detail Focus",
		Shots: []PackShot{
			{CameraAngleID: "ca1", FocalLengthID: "fl4"},
			{CameraAngleID: "ca4", FocalLengthID: "fl4"},
			{CameraAngleID: "ca3", FocalLengthID: "fl3"},
		},
	},
}

// FindEcommercePack - 온모델 팩 조회
func FindEcommercePack(id string) (Pack, bool) {
	p, ok := EcommercePacks[id]
	return p, ok
}

// FindProductEcommercePack - 제품 단독 팩 조회
func FindProductEcommercePack(id string) (Pack, bool) {
	p, ok := ProductEcommercePacks[id]
	return p, ok
}
