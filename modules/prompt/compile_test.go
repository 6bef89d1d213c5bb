package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/common/utils"
)

func testDataURL(payload string) string {
	return utils.ToDataURL([]byte(payload), "image/png")
}

func defaultScene() Scene {
	return Scene{
		Background: BackgroundRef{ID: "bg_white", Name: "White", Type: "color"},
		Lighting:   LightingRef{ID: "light1", Name: "Softbox", Description: "soft, even studio softbox lighting"},
	}
}

func defaultApparelControls() ApparelControls {
	return ApparelControls{
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

func defaultProductControls() ProductControls {
	return ProductControls{
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

func imageCount(segments []Segment) int {
	n := 0
	for _, s := range segments {
		if s.Kind == SegmentImage {
			n++
		}
	}
	return n
}

func TestCompileApparelStandard(t *testing.T) {
	p := &ApparelParams{
		Common:         Common{AspectRatio: "3:4", Output: OutputImage},
		SelectedModels: []AIModel{{ID: "m1", Description: "a tall model with short dark hair"}},
		Apparel:        []ApparelItem{{Base64: testDataURL("front"), Description: "White linen shirt"}},
		Scene:          defaultScene(),
		Controls:       defaultApparelControls(),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, SegmentText, segments[0].Kind)
	assert.Equal(t, SegmentImage, segments[1].Kind)

	text := segments[0].Text
	assert.Contains(t, text, "**APPAREL PHOTOSHOOT DIRECTIVE**")
	assert.Contains(t, text, "a tall model with short dark hair")
	assert.Contains(t, text, "White linen shirt")
	assert.Contains(t, text, "aspect ratio of exactly 3:4")
	// 캐치라이트 라인은 항상 포함
	assert.Contains(t, text, "The final image should feature")
}

func TestCompileApparelDefaultIDsOmitLines(t *testing.T) {
	p := &ApparelParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		Apparel:        []ApparelItem{{Base64: testDataURL("a")}},
		Scene:          defaultScene(),
		Controls:       defaultApparelControls(),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	text := segments[0].Text
	assert.NotContains(t, text, "FABRIC TEXTURE")
	assert.NotContains(t, text, "The main light source is positioned")
	assert.NotContains(t, text, "The light quality is")
	assert.NotContains(t, text, "COLOR GRADE")
}

func TestCompileApparelNonDefaultControls(t *testing.T) {
	c := defaultApparelControls()
	c.Fabric = catalog.FabricOptions[2]                       // silk
	c.LightingDirection = catalog.LightingDirectionOptions[4] // backlit
	c.LightQuality = catalog.LightQualityOptions[1]           // soft
	c.ColorGrade = catalog.ColorGradeOptions[1]               // warm film
	c.CinematicLook = true
	c.IsHyperRealismEnabled = true

	p := &ApparelParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage, StyleDescription: "vintage film editorial"},
		SelectedModels: []AIModel{{Description: "a model"}},
		Apparel:        []ApparelItem{{Base64: testDataURL("a")}},
		Scene:          defaultScene(),
		Controls:       c,
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	text := segments[0].Text
	assert.Contains(t, text, "FABRIC TEXTURE")
	assert.Contains(t, text, "The main light source is positioned")
	assert.Contains(t, text, "The light quality is")
	assert.Contains(t, text, "COLOR GRADE")
	assert.Contains(t, text, "CINEMATIC LOOK (ENABLED)")
	assert.Contains(t, text, "HYPER-REALISM MODE (ENABLED)")
	// 의류 비팩 브랜치는 스타일 강도 퍼센트 포함
	assert.Contains(t, text, "influence of approximately 50%")
}

func TestCompileApparelTimeOfDayReplacesLighting(t *testing.T) {
	scene := defaultScene()
	scene.TimeOfDay = "Golden Hour"

	p := &ApparelParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		Apparel:        []ApparelItem{{Base64: testDataURL("a")}},
		Scene:          scene,
		Controls:       defaultApparelControls(),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	text := segments[0].Text
	assert.Contains(t, text, "golden hour sunlight from the side")
	assert.NotContains(t, text, "Apply soft, even studio softbox lighting")
}

func TestCompileApparelUnknownTimeOfDay(t *testing.T) {
	scene := defaultScene()
	scene.TimeOfDay = "Dusk"

	p := &ApparelParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		Apparel:        []ApparelItem{{Base64: testDataURL("a")}},
		Scene:          scene,
		Controls:       defaultApparelControls(),
	}

	_, err := Compile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCompileApparelCustomBackgroundLast(t *testing.T) {
	scene := defaultScene()
	scene.Background = BackgroundRef{ID: catalog.CustomID, Name: "Uploaded", Type: "image", Value: testDataURL("bg")}

	p := &ApparelParams{
		Common:             Common{AspectRatio: "1:1", Output: OutputImage},
		UploadedModelImage: testDataURL("model"),
		Apparel: []ApparelItem{
			{Base64: testDataURL("item1"), BackViewBase64: testDataURL("back1")},
			{Base64: testDataURL("item2")},
		},
		Scene:    scene,
		Controls: defaultApparelControls(),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	// [텍스트, 모델, 의류1, 의류1 뒷면, 의류2, 커스텀 배경]
	require.Len(t, segments, 6)
	assert.Contains(t, segments[0].Text, "the environment depicted in the FINAL image provided")
	last := segments[len(segments)-1]
	assert.Equal(t, []byte("bg"), last.Data)
}

func TestCompileApparelRequiresModelAndItems(t *testing.T) {
	p := &ApparelParams{
		Common:   Common{AspectRatio: "1:1", Output: OutputImage},
		Apparel:  []ApparelItem{{Base64: testDataURL("a")}},
		Scene:    defaultScene(),
		Controls: defaultApparelControls(),
	}
	_, err := Compile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	p2 := &ApparelParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		Scene:          defaultScene(),
		Controls:       defaultApparelControls(),
	}
	_, err = Compile(p2)
	require.ErrorAs(t, err, &verr)
}

func TestCompileApparelVideoRequiresModel(t *testing.T) {
	p := &ApparelParams{
		Common:   Common{AspectRatio: "1:1", Output: OutputVideo},
		Apparel:  []ApparelItem{{Base64: testDataURL("a")}},
		Scene:    defaultScene(),
		Controls: defaultApparelControls(),
	}
	_, err := Compile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "A model must be selected to generate a video.")
}

func TestCompileCustomPromptOverride(t *testing.T) {
	c := defaultApparelControls()
	c.CustomPrompt = "Make it look like a 90s magazine ad."

	p := &ApparelParams{
		Common:             Common{AspectRatio: "1:1", Output: OutputImage},
		UploadedModelImage: testDataURL("model"),
		Apparel: []ApparelItem{
			{Base64: testDataURL("item1")},
			{Base64: testDataURL("item2")},
		},
		Scene:    defaultScene(),
		Controls: c,
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	// [텍스트, 모델, 의류1, 의류2] - 카탈로그 라인 없음
	require.Len(t, segments, 4)
	assert.Contains(t, segments[0].Text, "Make it look like a 90s magazine ad.")
	assert.NotContains(t, segments[0].Text, "APPAREL PHOTOSHOOT DIRECTIVE")
	assert.Equal(t, []byte("model"), segments[1].Data)
	assert.Equal(t, []byte("item1"), segments[2].Data)
	assert.Equal(t, []byte("item2"), segments[3].Data)
}

func TestCompileApparelReposePrecedesCustomPrompt(t *testing.T) {
	c := defaultApparelControls()
	c.CustomPrompt = "ignored in repose"

	p := &ApparelParams{
		Common:        Common{AspectRatio: "1:1", Output: OutputImage},
		Apparel:       []ApparelItem{{Base64: testDataURL("a")}},
		Scene:         defaultScene(),
		Controls:      c,
		BaseLookImage: testDataURL("baselook"),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	assert.Contains(t, segments[0].Text, "**APPAREL RE-POSE DIRECTIVE**")
	assert.NotContains(t, segments[0].Text, "ignored in repose")
	require.Len(t, segments, 2)
	assert.Equal(t, []byte("baselook"), segments[1].Data)
}

func TestCompileProductRepose(t *testing.T) {
	p := &ProductParams{
		Common:              Common{AspectRatio: "4:3", Output: OutputImage},
		Scene:               defaultScene(),
		Controls:            defaultProductControls(),
		ModelReferenceImage: testDataURL("ref"),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	assert.Contains(t, segments[0].Text, "**ON-MODEL PRODUCT RE-POSE DIRECTIVE**")
	require.Len(t, segments, 2)
	assert.Equal(t, []byte("ref"), segments[1].Data)
}

func TestCompileOnModelProductRequiresProductImage(t *testing.T) {
	p := &ProductParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		Scene:          defaultScene(),
		Controls:       defaultProductControls(),
	}
	_, err := Compile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Product image is required")
}

func TestCompileOnModelProductCustomInteractionFallback(t *testing.T) {
	c := defaultProductControls()
	c.ModelInteractionType = catalog.Option{ID: catalog.CustomID, Name: "Custom"}
	c.CustomModelInteraction = "   "

	p := &ProductParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		ProductImage:   testDataURL("product"),
		Scene:          defaultScene(),
		Controls:       c,
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	assert.Contains(t, segments[0].Text, "holding the product in their hands, presenting it towards the camera.")
}

func TestCompileStagedProductSortsProductFirst(t *testing.T) {
	p := &ProductParams{
		Common: Common{AspectRatio: "1:1", Output: OutputImage},
		StagedAssets: []StagedAsset{
			{ID: "prop-1", Base64: testDataURL("prop"), X: 20, Y: 30, Scale: 40, Z: 1},
			{ID: "product", Base64: testDataURL("product"), X: 50, Y: 50, Scale: 80, Z: 2},
		},
		Scene:    defaultScene(),
		Controls: defaultProductControls(),
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	require.Equal(t, 2, imageCount(segments))
	assert.Equal(t, []byte("product"), segments[1].Data)
	assert.Equal(t, []byte("prop"), segments[2].Data)

	text := segments[0].Text
	assert.Contains(t, text, "**PRODUCT PHOTOSHOOT DIRECTIVE**")
	assert.Contains(t, text, "Asset 'product' is at (x: 50%, y: 50%) with a scale of 80% and z-index of 2.")
	assert.Contains(t, text, "COMPANION ASSETS")
}

func TestCompileStagedProductRequiresAssets(t *testing.T) {
	p := &ProductParams{
		Common:   Common{AspectRatio: "1:1", Output: OutputImage},
		Scene:    defaultScene(),
		Controls: defaultProductControls(),
	}
	_, err := Compile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCompileReimagine(t *testing.T) {
	p := &ReimagineParams{
		Common:        Common{AspectRatio: "9:16", Output: OutputImage},
		SourcePhoto:   testDataURL("source"),
		NewModelPhoto: testDataURL("newmodel"),
		Controls:      ReimagineControls{NewBackgroundDescription: "a neon-lit alley at night"},
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Contains(t, segments[0].Text, "**PHOTO RE-IMAGINE DIRECTIVE**")
	assert.Contains(t, segments[0].Text, "MODEL SWAP BY PHOTO")
	assert.Contains(t, segments[0].Text, "a neon-lit alley at night")
	assert.Equal(t, []byte("source"), segments[1].Data)
	assert.Equal(t, []byte("newmodel"), segments[2].Data)
}

func TestCompileReimagineRequiresSomething(t *testing.T) {
	p := &ReimagineParams{
		Common:      Common{AspectRatio: "1:1", Output: OutputImage},
		SourcePhoto: testDataURL("source"),
	}
	_, err := Compile(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Please describe or upload a new model")
}

func TestCompileDesignFrontAndBack(t *testing.T) {
	p := &DesignParams{
		Common:          Common{AspectRatio: "1:1", Output: OutputImage},
		MockupImage:     testDataURL("mockup"),
		DesignImage:     testDataURL("front-design"),
		BackDesignImage: testDataURL("back-design"),
		Controls: DesignControls{
			ApparelType: "oversized heavyweight tee",
			ShirtColor:  "#ffffff",
			FabricBlend: 80,
			Front:       DesignPlacement{Placement: "dp_center", Scale: 50},
			Back:        DesignPlacement{Placement: "dp_back", Scale: 100, Rotation: 10, OffsetX: -5, OffsetY: 3},
		},
		Scene:    defaultScene(),
		ShotView: "front",
	}

	segments, err := Compile(p)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Contains(t, segments[0].Text, "FRONT VIEW")
	assert.Equal(t, []byte("front-design"), segments[2].Data)

	p.ShotView = "back"
	segments, err = Compile(p)
	require.NoError(t, err)
	assert.Contains(t, segments[0].Text, "CRITICAL BACK VIEW")
	assert.Contains(t, segments[0].Text, "rotate the design by exactly 10 degrees")
	assert.Equal(t, []byte("back-design"), segments[2].Data)
}

func TestCompileDesignSizeDescriptors(t *testing.T) {
	cases := []struct {
		scale float64
		want  string
	}{
		{10, "tag-sized logo"},
		{30, "standard chest logo"},
		{50, "standard graphic for the front"},
		{90, "covering a significant portion"},
		{100, "extra-large"},
	}
	for _, tc := range cases {
		assert.Contains(t, sizeDescriptor(tc.scale), tc.want, "scale %.0f", tc.scale)
	}
}

func TestCompileMalformedDataURL(t *testing.T) {
	p := &ApparelParams{
		Common:         Common{AspectRatio: "1:1", Output: OutputImage},
		SelectedModels: []AIModel{{Description: "a model"}},
		Apparel:        []ApparelItem{{Base64: "not-a-data-url"}},
		Scene:          defaultScene(),
		Controls:       defaultApparelControls(),
	}
	_, err := Compile(p)
	var merr *MalformedInputError
	require.ErrorAs(t, err, &merr)
	assert.True(t, strings.Contains(merr.Field, "apparel item 1"))
}
