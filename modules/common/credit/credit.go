// Package credit - 생성 사용량 과금 처리
// 오케스트레이터의 onGenerationComplete 훅이 여기로 연결됨
package credit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"virtual-studio-server/modules/common/config"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Credit 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{supabase: supabaseClient}
}

// RecordUsage - 성공한 생성 패스당 한 번 호출 (이미지 1장 = 1, 팩 = N, 비디오 = 1)
// 크레딧을 차감하고 트랜잭션을 기록함
func (c *Client) RecordUsage(ctx context.Context, userID string, generationCount int) error {
	if c == nil || c.supabase == nil {
		log.Printf("⚠️  Credit client unavailable, skipping usage record for user %s", userID)
		return nil
	}
	if generationCount <= 0 {
		return nil
	}

	cfg := config.GetConfig()
	totalCredits := generationCount * cfg.ImagePerPrice

	log.Printf("💰 Recording usage: User=%s, Generations=%d, Total=%d credits", userID, generationCount, totalCredits)

	// 1. 현재 크레딧 조회
	var members []struct {
		StudioMemberCredit int `json:"studio_member_credit"`
	}

	data, _, err := c.supabase.From("studio_member").
		Select("studio_member_credit", "", false).
		Eq("studio_member_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to fetch user credits: %w", err)
	}
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("failed to parse member data: %w", err)
	}
	if len(members) == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	currentCredits := members[0].StudioMemberCredit
	newBalance := currentCredits - totalCredits

	log.Printf("💰 Credit balance: %d → %d (-%d)", currentCredits, newBalance, totalCredits)

	// 2. 크레딧 차감
	_, _, err = c.supabase.From("studio_member").
		Update(map[string]interface{}{
			"studio_member_credit": newBalance,
		}, "", "").
		Eq("studio_member_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to deduct credits: %w", err)
	}

	// 3. 트랜잭션 기록
	transactionData := map[string]interface{}{
		"user_id":          userID,
		"transaction_type": "DEDUCT",
		"amount":           -totalCredits,
		"balance_after":    newBalance,
		"description":      "Studio generation",
		"generation_count": generationCount,
	}

	_, _, err = c.supabase.From("studio_credits").
		Insert(transactionData, false, "", "", "").
		Execute()
	if err != nil {
		log.Printf("⚠️  Failed to record credit transaction for user %s: %v", userID, err)
	}

	log.Printf("✅ Usage recorded: %d credits from user %s", totalCredits, userID)
	return nil
}
