package domain

import "testing"

func TestRegionOf(t *testing.T) {
	cases := []struct {
		address string
		want    string
	}{
		{"123 Láng Hạ, Ba Đình, Hà Nội", "Hà Nội"},
		{"45 Nguyễn Huệ, Quận 1, TP.HCM", "Hồ Chí Minh"},
		{"12 Bạch Đằng, Hải Châu, Da Nang", "Đà Nẵng"},
		{"88 Trần Phú, Phường 5, Tỉnh Lâm Đồng", "Tỉnh Lâm Đồng"},
		{"Khu công nghiệp  ", "Khu công nghiệp"},
		{"", RegionOther},
		{"12 Phường Thuận, Kon Tum", "Kon Tum"},
	}
	for _, tc := range cases {
		if got := RegionOf(tc.address); got != tc.want {
			t.Fatalf("RegionOf(%q) = %q, want %q", tc.address, got, tc.want)
		}
	}
}

func TestFoldAccents(t *testing.T) {
	if got := foldAccents("  Đà   Nẵng "); got != "da nang" {
		t.Fatalf("foldAccents = %q", got)
	}
}
