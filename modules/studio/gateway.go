package studio

import (
	"context"

	"virtual-studio-server/modules/common/gemini"
)

// Gateway - 생성 백엔드 인터페이스
// 프로덕션에서는 *gemini.Client, 테스트에서는 페이크 구현
type Gateway interface {
	// GenerateImages - 배치 생성. onImage는 도착 순서대로 호출되며
	// 인덱스 단위로 독립 안전해야 함
	GenerateImages(ctx context.Context, req gemini.ImageRequest, onImage func(index int, data []byte, mimeType string)) (int, error)

	// GenerativeEdit - 마스크 기반 부분 수정, 새 이미지 한 장 반환
	GenerativeEdit(ctx context.Context, req gemini.EditRequest) ([]byte, string, error)

	// StartVideo / PollVideo / FetchVideo - 비디오 작업 3단계
	StartVideo(ctx context.Context, req gemini.VideoRequest) (*gemini.VideoOperation, error)
	PollVideo(ctx context.Context, op *gemini.VideoOperation) (*gemini.VideoOperation, error)
	FetchVideo(ctx context.Context, op *gemini.VideoOperation) ([]byte, error)

	// GenerateBackground - 텍스트로 배경 이미지 생성
	GenerateBackground(ctx context.Context, promptText, aspectRatio string) ([]byte, string, error)

	// GenerateText - 이미지 분석 등 보조 텍스트 생성
	GenerateText(ctx context.Context, promptText string, image []byte, mimeType string) (string, error)
}
