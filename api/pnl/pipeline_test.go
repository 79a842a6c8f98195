package pnl

import (
	"testing"

	"SellerLedgerSaas/api/constants"
)

func TestPipelineConfigNormalize(t *testing.T) {
	cfg := PipelineConfig{}
	cfg.normalize()
	if len(cfg.Platforms) != 3 {
		t.Fatalf("empty config should default to all platforms, got %v", cfg.Platforms)
	}

	cfg = PipelineConfig{Platforms: []string{" tiktok ", "Shopee"}}
	cfg.normalize()
	if cfg.Platforms[0] != constants.PlatformTikTok || cfg.Platforms[1] != constants.PlatformShopee {
		t.Errorf("platforms should be trimmed and upper-cased, got %v", cfg.Platforms)
	}
}

func TestShopAllowed(t *testing.T) {
	tests := []struct {
		name     string
		cfg      PipelineConfig
		platform string
		shop     string
		want     bool
	}{
		{"no filter allows all", PipelineConfig{}, "TIKTOK", "any", true},
		{
			"listed shop allowed",
			PipelineConfig{Shops: map[string][]string{"TIKTOK": {"Main Shop"}}},
			"TIKTOK", "Main Shop", true,
		},
		{
			"case and whitespace folded",
			PipelineConfig{Shops: map[string][]string{"TIKTOK": {" main shop "}}},
			"TIKTOK", "Main Shop", true,
		},
		{
			"unlisted shop rejected",
			PipelineConfig{Shops: map[string][]string{"TIKTOK": {"Main Shop"}}},
			"TIKTOK", "Other Shop", false,
		},
		{
			"platform without filter allows all shops",
			PipelineConfig{Shops: map[string][]string{"TIKTOK": {"Main Shop"}}},
			"SHOPEE", "Other Shop", true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.shopAllowed(tt.platform, tt.shop); got != tt.want {
				t.Errorf("shopAllowed(%q, %q) = %v, want %v", tt.platform, tt.shop, got, tt.want)
			}
		})
	}
}

func TestBuildUploadS3Key(t *testing.T) {
	key := buildUploadS3Key("TIKTOK", "orders", "My Shop/TH", "abc123", ".xlsx")
	want := "marketplace-exports/tiktok/orders/My_Shop_TH/abc123.xlsx"
	if key != want {
		t.Errorf("key = %q, want %q", key, want)
	}

	key = buildUploadS3Key("SHOPEE", "income", "", "deadbeef", "")
	want = "marketplace-exports/shopee/income/unknown/deadbeef.bin"
	if key != want {
		t.Errorf("key = %q, want %q", key, want)
	}
}
