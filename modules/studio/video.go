package studio

import (
	"context"
	"strings"
	"time"

	"virtual-studio-server/modules/common/gemini"
	"virtual-studio-server/modules/common/utils"
	"virtual-studio-server/modules/prompt"
)

// GenerateVideoFromImage - 활성 이미지를 시작 프레임으로 비디오 생성
// 제출, 폴링, 다운로드 세 단계로 진행되며 각 대기 지점에서 취소를 확인함
func (e *Engine) GenerateVideoFromImage(ctx context.Context, animation *prompt.Animation, onComplete CompleteFunc) error {
	snap := e.Snapshot()

	reference, err := activeImage(&snap, "No reference image selected to generate a video from.")
	if err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}

	var params prompt.Params
	switch snap.StudioMode {
	case ModeApparel:
		params = e.apparelParams(&snap, prompt.OutputVideo, animation, "")
	case ModeProduct:
		params = e.productParams(&snap, prompt.OutputVideo, animation, "")
	default:
		err = &UnsupportedOperationError{Message: "Video generation is not supported in this mode."}
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}

	if err := e.checkRateLimit(); err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}
	e.recordRequestTimestamp()
	passCtx, cancel := e.beginPass(ctx)
	defer e.endPass(cancel)

	e.apply(func(s *State) {
		s.IsGenerating = true
		s.Error = ""
		s.GeneratedVideoURL = ""
		s.VideoSourceImage = reference
		s.ActiveImageIndex = nil
		s.LoadingMessage = "Animating your image..."
	})

	err = e.runVideoPass(passCtx, &snap, params, reference)
	if err != nil {
		return e.finishPass(ctx, 0, err, nil)
	}
	return e.finishPass(ctx, 1, nil, onComplete)
}

// runVideoPass - 비디오 워크플로우 본체
func (e *Engine) runVideoPass(ctx context.Context, snap *State, params prompt.Params, reference string) error {
	segments, err := prompt.Compile(params)
	if err != nil {
		return err
	}

	promptText := textPrompt(segments)
	if promptText == "" {
		return prompt.NewValidationError("Could not generate a valid prompt for video generation.")
	}

	imageData, imageMIME, err := utils.ParseDataURL(reference)
	if err != nil {
		return &prompt.MalformedInputError{Field: "video reference image", Err: err}
	}

	e.apply(func(s *State) {
		s.LoadingMessage = "Sending to video model..."
	})

	op, err := e.gateway.StartVideo(ctx, gemini.VideoRequest{
		Prompt:         promptText,
		Image:          imageData,
		ImageMIME:      imageMIME,
		AspectRatio:    snap.AspectRatio,
		NegativePrompt: negativePromptFor(snap),
		OnRetry:        e.onRetryMessage,
	})
	if err != nil {
		return err
	}
	if e.isCancelled(ctx) {
		return context.Canceled
	}

	e.apply(func(s *State) {
		s.LoadingMessage = "Video is processing... This may take a few minutes."
	})

	for !op.Done {
		select {
		case <-ctx.Done():
			return context.Canceled
		case <-time.After(e.pollInterval):
		}
		if e.isCancelled(ctx) {
			return context.Canceled
		}

		op, err = e.gateway.PollVideo(ctx, op)
		if err != nil {
			return err
		}
	}

	if op.VideoURI == "" {
		return prompt.NewValidationError("Video generation completed but no video URL was returned.")
	}

	e.apply(func(s *State) {
		s.LoadingMessage = "Fetching final video..."
	})

	videoData, err := e.gateway.FetchVideo(ctx, op)
	if err != nil {
		return err
	}

	ref := e.blobs.Put(videoData, "video/mp4")
	if e.isCancelled(ctx) {
		e.blobs.Release(ref.ID)
		return context.Canceled
	}

	e.apply(func(s *State) {
		s.GeneratedVideoURL = ref.URL
	})
	return nil
}

// textPrompt - 컴파일 결과에서 텍스트 세그먼트만 이어붙임
func textPrompt(segments []prompt.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Kind == prompt.SegmentText {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(seg.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
