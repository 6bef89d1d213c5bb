package studio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/common/blob"
	"virtual-studio-server/modules/common/gemini"
	"virtual-studio-server/modules/common/utils"
	"virtual-studio-server/modules/prompt"
)

// fakeGateway - 백엔드 호출을 기록하고 미리 정한 응답을 돌려줌
type fakeGateway struct {
	mu         sync.Mutex
	imageCalls []gemini.ImageRequest

	imageFn      func(call int, req gemini.ImageRequest, onImage func(int, []byte, string)) (int, error)
	editFn       func(req gemini.EditRequest) ([]byte, string, error)
	startVideoFn func(req gemini.VideoRequest) (*gemini.VideoOperation, error)
	pollVideoFn  func(op *gemini.VideoOperation) (*gemini.VideoOperation, error)
	fetchVideoFn func(op *gemini.VideoOperation) ([]byte, error)
	backgroundFn func(promptText, aspectRatio string) ([]byte, string, error)
	textFn       func(promptText string) (string, error)
}

func (f *fakeGateway) GenerateImages(ctx context.Context, req gemini.ImageRequest, onImage func(index int, data []byte, mimeType string)) (int, error) {
	f.mu.Lock()
	f.imageCalls = append(f.imageCalls, req)
	call := len(f.imageCalls)
	f.mu.Unlock()

	if f.imageFn != nil {
		return f.imageFn(call, req, onImage)
	}
	for i := 0; i < req.Count; i++ {
		onImage(i, []byte(fmt.Sprintf("img-%d-%d", call, i)), "image/png")
	}
	return req.Count, nil
}

func (f *fakeGateway) GenerativeEdit(ctx context.Context, req gemini.EditRequest) ([]byte, string, error) {
	if f.editFn != nil {
		return f.editFn(req)
	}
	return []byte("edited"), "image/png", nil
}

func (f *fakeGateway) StartVideo(ctx context.Context, req gemini.VideoRequest) (*gemini.VideoOperation, error) {
	if f.startVideoFn != nil {
		return f.startVideoFn(req)
	}
	return &gemini.VideoOperation{Name: "op-1"}, nil
}

func (f *fakeGateway) PollVideo(ctx context.Context, op *gemini.VideoOperation) (*gemini.VideoOperation, error) {
	if f.pollVideoFn != nil {
		return f.pollVideoFn(op)
	}
	return &gemini.VideoOperation{Name: op.Name, Done: true, VideoURI: "https://example.com/video.mp4"}, nil
}

func (f *fakeGateway) FetchVideo(ctx context.Context, op *gemini.VideoOperation) ([]byte, error) {
	if f.fetchVideoFn != nil {
		return f.fetchVideoFn(op)
	}
	return []byte("video-bytes"), nil
}

func (f *fakeGateway) GenerateBackground(ctx context.Context, promptText, aspectRatio string) ([]byte, string, error) {
	if f.backgroundFn != nil {
		return f.backgroundFn(promptText, aspectRatio)
	}
	return []byte("bg-bytes"), "image/png", nil
}

func (f *fakeGateway) GenerateText(ctx context.Context, promptText string, image []byte, mimeType string) (string, error) {
	if f.textFn != nil {
		return f.textFn(promptText)
	}
	return "soft window light from the left", nil
}

func (f *fakeGateway) calls() []gemini.ImageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gemini.ImageRequest(nil), f.imageCalls...)
}

func testDataURL(payload string) string {
	return utils.ToDataURL([]byte(payload), "image/png")
}

func newTestEngine(t *testing.T, gw Gateway) *Engine {
	t.Helper()
	e := NewEngine("session-1", "user-1", gw, nil, blob.NewStore())
	e.SetPollInterval(time.Millisecond)
	return e
}

func apparelControlsFixture() prompt.ApparelControls {
	return prompt.ApparelControls{
		ShotType:          catalog.ShotTypeOptions[0],
		Expression:        catalog.ExpressionOptions[0],
		Aperture:          catalog.ApertureOptions[0],
		FocalLength:       catalog.FocalLengthOptions[0],
		Fabric:            catalog.FabricOptions[0],
		CameraAngle:       catalog.CameraAngleOptions[0],
		LightingDirection: catalog.LightingDirectionOptions[0],
		LightQuality:      catalog.LightQualityOptions[0],
		CatchlightStyle:   catalog.CatchlightOptions[0],
		ColorGrade:        catalog.ColorGradeOptions[0],
		StyleStrength:     50,
	}
}

func productControlsFixture() prompt.ProductControls {
	return prompt.ProductControls{
		ShotType:             catalog.ShotTypeOptions[0],
		Expression:           catalog.ExpressionOptions[0],
		Aperture:             catalog.ApertureOptions[0],
		FocalLength:          catalog.FocalLengthOptions[0],
		CameraAngle:          catalog.CameraAngleOptions[0],
		LightingDirection:    catalog.LightingDirectionOptions[0],
		LightQuality:         catalog.LightQualityOptions[0],
		CatchlightStyle:      catalog.CatchlightOptions[0],
		ColorGrade:           catalog.ColorGradeOptions[0],
		ModelInteractionType: catalog.ModelInteractionOptions[0],
		Surface:              catalog.Option{ID: "sf1", Description: "brushed concrete"},
		ProductMaterial:      catalog.Option{ID: "pm1", Description: "matte anodized aluminum."},
		StyleStrength:        50,
	}
}

func setupApparel(e *Engine, count int) {
	e.Update(func(s *State) {
		s.StudioMode = ModeApparel
		s.NumberOfImages = count
		s.PromptedModelDescription = "a tall model with short dark hair"
		s.Apparel = []prompt.ApparelItem{{Base64: testDataURL("shirt"), Description: "linen shirt"}}
		s.ApparelControls = apparelControlsFixture()
	})
}

func setupProductOnModel(e *Engine) {
	e.Update(func(s *State) {
		s.StudioMode = ModeProduct
		s.NumberOfImages = 1
		s.UploadedModelImage = testDataURL("model")
		s.ProductImage = testDataURL("product")
		s.ProductControls = productControlsFixture()
	})
}

func TestGenerateAssetApparelBatch(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	setupApparel(e, 3)

	var completed int
	err := e.GenerateAsset(context.Background(), func(ctx context.Context, count int) error {
		completed = count
		return nil
	})
	require.NoError(t, err)

	calls := gw.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].Count)
	assert.Equal(t, 3, completed)

	snap := e.Snapshot()
	require.Len(t, snap.GeneratedImages, 3)
	for i, img := range snap.GeneratedImages {
		assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"), "slot %d should hold a data URL", i)
	}
	assert.False(t, snap.IsGenerating)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 1, snap.GenerationCount)
	require.NotNil(t, snap.ActiveImageIndex)
	assert.Equal(t, 0, *snap.ActiveImageIndex)
}

func TestGenerateAssetProductOnModelPack(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	setupProductOnModel(e)
	e.Update(func(s *State) {
		s.EcommercePack = "studio5"
	})

	var completed int
	err := e.GenerateAsset(context.Background(), func(ctx context.Context, count int) error {
		completed = count
		return nil
	})
	require.NoError(t, err)

	calls := gw.calls()
	require.Len(t, calls, 5)
	for i, call := range calls {
		assert.Equal(t, 1, call.Count, "shot %d should request one image", i)
	}
	assert.Equal(t, 5, completed)

	snap := e.Snapshot()
	require.Len(t, snap.GeneratedImages, 5)
	for i, img := range snap.GeneratedImages {
		assert.NotEmpty(t, img, "slot %d should be filled", i)
	}
}

func TestGenerateAssetProductOnlyPack(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	e.Update(func(s *State) {
		s.StudioMode = ModeProduct
		s.ProductEcommercePack = "product4"
		s.StagedAssets = []prompt.StagedAsset{
			{ID: "product", Base64: testDataURL("bottle"), X: 50, Y: 50, Scale: 100, Z: 1},
		}
		s.ProductControls = productControlsFixture()
	})

	err := e.GenerateAsset(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, gw.calls(), 4)
	assert.Len(t, e.Snapshot().GeneratedImages, 4)
}

func TestGenerateAssetPackPartialFailureKeepsImages(t *testing.T) {
	gw := &fakeGateway{}
	gw.imageFn = func(call int, req gemini.ImageRequest, onImage func(int, []byte, string)) (int, error) {
		if call >= 3 {
			return 0, fmt.Errorf("backend exploded")
		}
		onImage(0, []byte(fmt.Sprintf("img-%d", call)), "image/png")
		return 1, nil
	}
	e := newTestEngine(t, gw)
	setupProductOnModel(e)
	e.Update(func(s *State) {
		s.EcommercePack = "studio5"
	})

	err := e.GenerateAsset(context.Background(), nil)
	require.Error(t, err)

	snap := e.Snapshot()
	assert.NotEmpty(t, snap.GeneratedImages[0])
	assert.NotEmpty(t, snap.GeneratedImages[1])
	assert.Empty(t, snap.GeneratedImages[2])
	assert.Equal(t, "backend exploded", snap.Error)
	assert.False(t, snap.IsGenerating)
}

func TestGenerateAssetBatchShortfallFailsPass(t *testing.T) {
	// 배치에서 요청보다 적게 도착하면 게이트웨이가 에러를 내고
	// 패스는 실패로 끝나되 이미 채운 슬롯은 남아야 함
	gw := &fakeGateway{}
	gw.imageFn = func(call int, req gemini.ImageRequest, onImage func(int, []byte, string)) (int, error) {
		for i := 0; i < req.Count-1; i++ {
			onImage(i, []byte(fmt.Sprintf("img-%d", i)), "image/png")
		}
		return req.Count - 1, fmt.Errorf("backend produced %d of %d images", req.Count-1, req.Count)
	}
	e := newTestEngine(t, gw)
	setupApparel(e, 3)

	completed := -1
	err := e.GenerateAsset(context.Background(), func(ctx context.Context, count int) error {
		completed = count
		return nil
	})
	require.Error(t, err)

	snap := e.Snapshot()
	assert.Equal(t, "backend produced 2 of 3 images", snap.Error)
	assert.Equal(t, -1, completed, "completion hook must not fire on a failed pass")
	require.Len(t, snap.GeneratedImages, 3)
	assert.NotEmpty(t, snap.GeneratedImages[0])
	assert.NotEmpty(t, snap.GeneratedImages[1])
	assert.Empty(t, snap.GeneratedImages[2])
	assert.False(t, snap.IsGenerating)
}

func TestGenerateAssetCancelledStaysSilent(t *testing.T) {
	gw := &fakeGateway{}
	gw.imageFn = func(call int, req gemini.ImageRequest, onImage func(int, []byte, string)) (int, error) {
		return 0, context.Canceled
	}
	e := newTestEngine(t, gw)
	setupApparel(e, 2)

	err := e.GenerateAsset(context.Background(), nil)
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Empty(t, snap.Error)
	assert.False(t, snap.IsGenerating)
}

func TestGenerateAssetValidationErrorSurfaced(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	e.Update(func(s *State) {
		s.StudioMode = ModeApparel
		s.NumberOfImages = 1
		s.ApparelControls = apparelControlsFixture()
		// 의류 없음
	})

	err := e.GenerateAsset(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "At least one apparel item is required.", e.Snapshot().Error)
	assert.Empty(t, gw.calls())
}

func TestRateLimitWindowPrunesAndCaps(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	e.RequestsPerMinute = 2
	setupApparel(e, 1)

	stale := time.Now().Add(-2 * time.Minute).UnixMilli()
	e.Update(func(s *State) {
		s.RequestTimestamps = []int64{stale, stale, stale}
	})

	require.NoError(t, e.GenerateAsset(context.Background(), nil))
	require.NoError(t, e.GenerateAsset(context.Background(), nil))

	snap := e.Snapshot()
	assert.Len(t, snap.RequestTimestamps, 2, "stale entries should be pruned")

	err := e.GenerateAsset(context.Background(), nil)
	require.Error(t, err)
	var validationErr *prompt.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Len(t, gw.calls(), 2)
}

func TestGeneratePackFromReferenceApparel(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	setupApparel(e, 1)
	zero := 0
	e.Update(func(s *State) {
		s.EcommercePack = "studio5"
		s.GeneratedImages = []string{testDataURL("reference")}
		s.ActiveImageIndex = &zero
	})

	var completed int
	err := e.GeneratePackFromReference(context.Background(), func(ctx context.Context, count int) error {
		completed = count
		return nil
	})
	require.NoError(t, err)

	calls := gw.calls()
	require.Len(t, calls, 5)
	assert.Equal(t, 5, completed)

	// 일관성 브랜치로 컴파일되어야 함
	require.NotEmpty(t, calls[0].Segments)
	first := calls[0].Segments[0]
	assert.Equal(t, prompt.SegmentText, first.Kind)
	assert.Contains(t, first.Text, "APPAREL RE-POSE DIRECTIVE")
}

func TestGeneratePackFromReferenceErrors(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		setup   func(s *State)
		message string
	}{
		{
			name:    "no reference image",
			setup:   func(s *State) { s.StudioMode = ModeApparel },
			message: "No reference image selected to generate a pack.",
		},
		{
			name: "apparel without pack",
			setup: func(s *State) {
				s.StudioMode = ModeApparel
				s.GeneratedImages = []string{testDataURL("ref")}
				s.ActiveImageIndex = &zero
			},
			message: "No e-commerce pack is selected in the settings.",
		},
		{
			name: "product without model",
			setup: func(s *State) {
				s.StudioMode = ModeProduct
				s.GeneratedImages = []string{testDataURL("ref")}
				s.ActiveImageIndex = &zero
			},
			message: "Generating a pack from a reference image is for on-model shots. Please select a model and choose a pack from the 'E-commerce Pack' options.",
		},
		{
			name: "product with prompted description only",
			setup: func(s *State) {
				s.StudioMode = ModeProduct
				s.PromptedModelDescription = "a tall model with short dark hair"
				s.EcommercePack = "studio5"
				s.GeneratedImages = []string{testDataURL("ref")}
				s.ActiveImageIndex = &zero
			},
			message: "Generating a pack from a reference image is for on-model shots. Please select a model and choose a pack from the 'E-commerce Pack' options.",
		},
		{
			name: "product without pack",
			setup: func(s *State) {
				s.StudioMode = ModeProduct
				s.UploadedModelImage = testDataURL("model")
				s.GeneratedImages = []string{testDataURL("ref")}
				s.ActiveImageIndex = &zero
			},
			message: "Select an E-commerce Pack in Settings for on-model pack generation.",
		},
		{
			name: "unsupported mode",
			setup: func(s *State) {
				s.StudioMode = ModeDesign
				s.GeneratedImages = []string{testDataURL("ref")}
				s.ActiveImageIndex = &zero
			},
			message: "Pack generation is not available in this mode.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			e := newTestEngine(t, gw)
			e.Update(tt.setup)

			err := e.GeneratePackFromReference(context.Background(), nil)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.message, e.Snapshot().Error)
			assert.Empty(t, gw.calls())
		})
	}
}

func setupVideoReady(e *Engine) {
	zero := 0
	e.Update(func(s *State) {
		s.StudioMode = ModeApparel
		s.PromptedModelDescription = "a tall model with short dark hair"
		s.Apparel = []prompt.ApparelItem{{Base64: testDataURL("shirt")}}
		s.ApparelControls = apparelControlsFixture()
		s.GeneratedImages = []string{testDataURL("still")}
		s.ActiveImageIndex = &zero
	})
}

func TestGenerateVideoFromImage(t *testing.T) {
	polls := 0
	gw := &fakeGateway{}
	gw.pollVideoFn = func(op *gemini.VideoOperation) (*gemini.VideoOperation, error) {
		polls++
		if polls < 3 {
			return &gemini.VideoOperation{Name: op.Name}, nil
		}
		return &gemini.VideoOperation{Name: op.Name, Done: true, VideoURI: "https://example.com/v.mp4"}, nil
	}
	e := newTestEngine(t, gw)
	setupVideoReady(e)

	var completed int
	animation := &prompt.Animation{ID: "anim1", Name: "Turn", Description: "slowly turns toward the camera"}
	err := e.GenerateVideoFromImage(context.Background(), animation, func(ctx context.Context, count int) error {
		completed = count
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, polls)
	assert.Equal(t, 1, completed)

	snap := e.Snapshot()
	assert.True(t, strings.HasPrefix(snap.GeneratedVideoURL, "/blobs/"))
	assert.NotEmpty(t, snap.VideoSourceImage)
	assert.Nil(t, snap.ActiveImageIndex)
	assert.False(t, snap.IsGenerating)
	assert.Empty(t, snap.Error)
}

func TestGenerateVideoCancelledDuringPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gw := &fakeGateway{}
	gw.pollVideoFn = func(op *gemini.VideoOperation) (*gemini.VideoOperation, error) {
		cancel()
		return &gemini.VideoOperation{Name: op.Name}, nil
	}
	e := newTestEngine(t, gw)
	setupVideoReady(e)

	err := e.GenerateVideoFromImage(ctx, nil, nil)
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Empty(t, snap.GeneratedVideoURL)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.IsGenerating)
}

func TestGenerateVideoUnsupportedMode(t *testing.T) {
	zero := 0
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	e.Update(func(s *State) {
		s.StudioMode = ModeDesign
		s.GeneratedImages = []string{testDataURL("still")}
		s.ActiveImageIndex = &zero
	})

	err := e.GenerateVideoFromImage(context.Background(), nil, nil)
	require.Error(t, err)
	var unsupported *UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Video generation is not supported in this mode.", e.Snapshot().Error)
}

func TestGenerateVideoRequiresActiveImage(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	e.Update(func(s *State) { s.StudioMode = ModeApparel })

	err := e.GenerateVideoFromImage(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, "No reference image selected to generate a video from.", err.Error())
}

func TestEditRoundTrip(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	original := testDataURL("original")
	zero := 0
	e.Update(func(s *State) {
		s.GeneratedImages = []string{original}
		s.ActiveImageIndex = &zero
	})

	require.NoError(t, e.StartEditing(0))
	snap := e.Snapshot()
	assert.True(t, snap.IsEditing)
	require.NotNil(t, snap.ImageBeingEdited)
	assert.Equal(t, original, snap.ImageBeingEdited.Original)

	err := e.ApplyGenerativeEdit(context.Background(), testDataURL("mask"), "remove the logo", "")
	require.NoError(t, err)

	snap = e.Snapshot()
	assert.NotEqual(t, original, snap.GeneratedImages[0])
	assert.Equal(t, 1, snap.GenerationCount)
	assert.False(t, snap.IsApplyingEdit)

	// 되돌리면 원본 바이트로 복원되고 세션은 유지됨
	e.RevertEdit()
	snap = e.Snapshot()
	assert.Equal(t, original, snap.GeneratedImages[0])
	assert.Equal(t, 2, snap.GenerationCount)
	assert.True(t, snap.IsEditing)

	e.CancelEditing()
	snap = e.Snapshot()
	assert.Equal(t, original, snap.GeneratedImages[0])
	assert.False(t, snap.IsEditing)
	assert.Nil(t, snap.ImageBeingEdited)
}

func TestCancelEditingRestoresAfterEdit(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	original := testDataURL("original")
	zero := 0
	e.Update(func(s *State) {
		s.GeneratedImages = []string{original}
		s.ActiveImageIndex = &zero
	})

	require.NoError(t, e.StartEditing(0))
	require.NoError(t, e.ApplyGenerativeEdit(context.Background(), "", "brighten it", ""))
	require.NotEqual(t, original, e.Snapshot().GeneratedImages[0])

	e.CancelEditing()
	assert.Equal(t, original, e.Snapshot().GeneratedImages[0])
}

func TestGenerateAIBackground(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)

	err := e.GenerateAIBackground(context.Background(), "a misty pine forest at dawn with golden light")
	require.NoError(t, err)

	snap := e.Snapshot()
	bg := snap.Scene.Background
	assert.Equal(t, catalog.CustomID, bg.ID)
	assert.Equal(t, "AI: a misty pine forest ...", bg.Name)
	assert.Equal(t, "image", bg.Type)
	assert.True(t, strings.HasPrefix(bg.Value, "data:image/png;base64,"))
	assert.False(t, snap.IsGeneratingBackground)
}

func TestGenerateAIBackgroundMultibyteName(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)

	// 멀티바이트 프롬프트도 문자 단위로 잘려야 함
	err := e.GenerateAIBackground(context.Background(), "황금빛 노을이 지는 한적한 해변과 야자수 그리고 잔잔한 파도")
	require.NoError(t, err)

	name := e.Snapshot().Scene.Background.Name
	assert.True(t, utf8.ValidString(name), "background name must stay valid UTF-8")
	assert.Equal(t, "AI: 황금빛 노을이 지는 한적한 해변과 야...", name)
}

func TestGenerateAIBackgroundFailure(t *testing.T) {
	gw := &fakeGateway{}
	gw.backgroundFn = func(promptText, aspectRatio string) ([]byte, string, error) {
		return nil, "", fmt.Errorf("model offline")
	}
	e := newTestEngine(t, gw)

	err := e.GenerateAIBackground(context.Background(), "beach")
	require.Error(t, err)
	assert.Equal(t, "Failed to generate AI background. model offline", e.Snapshot().Error)
}

func TestStyleReferenceSetsStyleDescription(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	setupApparel(e, 1)
	e.Update(func(s *State) {
		s.StyleReferenceImage = testDataURL("style")
	})

	require.NoError(t, e.GenerateAsset(context.Background(), nil))

	calls := gw.calls()
	require.Len(t, calls, 1)
	require.NotEmpty(t, calls[0].Segments)
	assert.Contains(t, calls[0].Segments[0].Text, "User provided style reference")
}

func TestSubscribeReceivesStateUpdates(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)

	updates, unsubscribe := e.Subscribe()
	defer unsubscribe()

	e.Update(func(s *State) { s.NumberOfImages = 4 })

	select {
	case snap := <-updates:
		assert.Equal(t, 4, snap.NumberOfImages)
	case <-time.After(time.Second):
		t.Fatal("expected a state update")
	}
}

func TestSelectImageClearsVideo(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)
	e.Update(func(s *State) {
		s.GeneratedImages = []string{testDataURL("a"), testDataURL("b")}
		s.GeneratedVideoURL = "/blobs/some-video"
		s.VideoSourceImage = testDataURL("a")
	})

	require.NoError(t, e.SelectImage(1))

	snap := e.Snapshot()
	require.NotNil(t, snap.ActiveImageIndex)
	assert.Equal(t, 1, *snap.ActiveImageIndex)
	assert.Empty(t, snap.GeneratedVideoURL)
	assert.Empty(t, snap.VideoSourceImage)

	assert.Error(t, e.SelectImage(5))
}

func TestOnRetryMessageFormat(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, gw)

	e.onRetryMessage(2, 4*time.Second)
	assert.Equal(t, "API is busy. Retrying in 4s... (Attempt 2)", e.Snapshot().LoadingMessage)
}
