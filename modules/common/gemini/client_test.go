package gemini

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/genai"
)

func imageResponse(count int) *genai.GenerateContentResponse {
	candidates := make([]*genai.Candidate, 0, count)
	for i := 0; i < count; i++ {
		candidates = append(candidates, &genai.Candidate{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{InlineData: &genai.Blob{Data: []byte(fmt.Sprintf("img-%d", i)), MIMEType: "image/png"}},
				},
			},
		})
	}
	return &genai.GenerateContentResponse{Candidates: candidates}
}

func TestDeliverImagesFullBatch(t *testing.T) {
	var got []int
	produced, err := deliverImages(imageResponse(3), 3, func(index int, data []byte, mimeType string) {
		got = append(got, index)
		assert.Equal(t, "image/png", mimeType)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, produced)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestDeliverImagesShortfallFails(t *testing.T) {
	// 모델이 요청보다 적게 반환하면 에러, 도착한 이미지는 그래도 전달됨
	delivered := 0
	produced, err := deliverImages(imageResponse(2), 3, func(index int, data []byte, mimeType string) {
		delivered++
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced 2 of 3")
	assert.Equal(t, 2, produced)
	assert.Equal(t, 2, delivered)
}

func TestDeliverImagesEmptyResponseFails(t *testing.T) {
	empty := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry, no image"}}}},
		},
	}
	produced, err := deliverImages(empty, 1, func(int, []byte, string) {
		t.Fatal("no image should be delivered")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image data")
	assert.Zero(t, produced)
}
