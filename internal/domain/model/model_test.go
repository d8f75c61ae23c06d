package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPurchaseStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   PurchaseStatus
		value string
	}{
		{"new", PurchaseStatusNew, "NEW"},
		{"processing", PurchaseStatusProcessing, "PROCESSING"},
		{"invalid", PurchaseStatusInvalid, "INVALID"},
		{"processed", PurchaseStatusProcessed, "PROCESSED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestVerificationStatusValues(t *testing.T) {
	cases := []struct {
		status VerificationStatus
		value  string
	}{
		{VerificationStatusRegistered, "REGISTERED"},
		{VerificationStatusInvalid, "INVALID"},
		{VerificationStatusProcessing, "PROCESSING"},
		{VerificationStatusProcessed, "PROCESSED"},
	}

	for _, tc := range cases {
		if string(tc.status) != tc.value {
			t.Fatalf("expected %s, got %s", tc.value, tc.status)
		}
	}
}

func TestRewardTermsValidate(t *testing.T) {
	ten := 10
	tooMuch := 120
	amount := decimal.NewFromInt(5)
	item := "coffee"
	empty := ""

	cases := []struct {
		name  string
		terms RewardTerms
		ok    bool
	}{
		{"percent", RewardTerms{Kind: RewardKindPercentOff, PercentOff: &ten}, true},
		{"percent over 100", RewardTerms{Kind: RewardKindPercentOff, PercentOff: &tooMuch}, false},
		{"amount", RewardTerms{Kind: RewardKindAmountOff, AmountOff: &amount}, true},
		{"free item", RewardTerms{Kind: RewardKindFreeItem, ItemName: &item}, true},
		{"empty item", RewardTerms{Kind: RewardKindFreeItem, ItemName: &empty}, false},
		{"kind mismatch", RewardTerms{Kind: RewardKindAmountOff, PercentOff: &ten}, false},
		{"two fields", RewardTerms{Kind: RewardKindPercentOff, PercentOff: &ten, ItemName: &item}, false},
		{"no fields", RewardTerms{Kind: RewardKindPercentOff}, false},
		{"unknown kind", RewardTerms{Kind: "mystery", ItemName: &item}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.terms.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid terms, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRewardAvailableAt(t *testing.T) {
	shop := int64(7)
	other := int64(8)

	global := Reward{IsGlobal: true, IsActive: true}
	if !global.AvailableAt(nil) || !global.AvailableAt(&shop) {
		t.Fatal("expected global reward to be available everywhere")
	}

	scoped := Reward{BusinessID: &shop, IsActive: true}
	if !scoped.AvailableAt(&shop) {
		t.Fatal("expected scoped reward at its business")
	}
	if scoped.AvailableAt(&other) || scoped.AvailableAt(nil) {
		t.Fatal("expected scoped reward to be unavailable elsewhere")
	}

	inactive := Reward{IsGlobal: true}
	if inactive.AvailableAt(nil) {
		t.Fatal("expected inactive reward to be unavailable")
	}
}

func TestNewRedeemedReward(t *testing.T) {
	shop := int64(3)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reward := Reward{ID: 5, Title: "10% off", PointsCost: 100, BusinessID: &shop}

	redeemed := NewRedeemedReward(reward, 42, "code", now)
	if redeemed.RewardID != 5 || redeemed.CustomerID != 42 || redeemed.PointsUsed != 100 {
		t.Fatalf("unexpected redemption: %+v", redeemed)
	}
	if redeemed.BusinessID == nil || *redeemed.BusinessID != shop {
		t.Fatalf("expected business copied from reward, got %v", redeemed.BusinessID)
	}
	if !redeemed.ExpirationDate.Equal(now.AddDate(0, 0, 30)) {
		t.Fatalf("expected expiration in 30 days, got %v", redeemed.ExpirationDate)
	}
	if redeemed.IsUsed {
		t.Fatal("expected new redemption to be unused")
	}
	if redeemed.Expired(now.AddDate(0, 0, 29)) {
		t.Fatal("did not expect redemption to be expired after 29 days")
	}
	if !redeemed.Expired(now.AddDate(0, 0, 30)) {
		t.Fatal("expected redemption to expire after 30 days")
	}
}

func TestTierValues(t *testing.T) {
	for tier, value := range map[Tier]string{
		TierBronze:   "bronze",
		TierSilver:   "silver",
		TierGold:     "gold",
		TierPlatinum: "platinum",
	} {
		if string(tier) != value {
			t.Fatalf("expected %s, got %s", value, tier)
		}
	}
}
