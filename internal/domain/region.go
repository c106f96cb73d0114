package domain

import (
	"strings"
	"unicode"

	"dealerhub/internal/utils"
)

// RegionOther labels agencies whose address is empty.
const RegionOther = "Khác"

type city struct {
	name    string
	aliases []string
}

// Order matters: the first city found in the address wins.
var knownCities = []city{
	{name: "Hà Nội", aliases: []string{"ha noi", "hanoi"}},
	{name: "Hồ Chí Minh", aliases: []string{"ho chi minh", "tp.hcm", "tp hcm", "tphcm", "sai gon", "saigon"}},
	{name: "Đà Nẵng", aliases: []string{"da nang", "danang"}},
	{name: "Hải Phòng", aliases: []string{"hai phong", "haiphong"}},
	{name: "Cần Thơ", aliases: []string{"can tho", "cantho"}},
	{name: "Bình Dương", aliases: []string{"binh duong"}},
	{name: "Đồng Nai", aliases: []string{"dong nai"}},
	{name: "Khánh Hòa", aliases: []string{"khanh hoa", "nha trang"}},
	{name: "Thừa Thiên Huế", aliases: []string{"thua thien hue", "tp hue", "thanh pho hue"}},
	{name: "Quảng Ninh", aliases: []string{"quang ninh", "ha long"}},
	{name: "Nghệ An", aliases: []string{"nghe an"}},
	{name: "Bà Rịa - Vũng Tàu", aliases: []string{"vung tau", "ba ria"}},
}

// RegionOf derives the region of an agency from its free-text address.
// A recognized city name wins; otherwise the last comma-separated segment is used.
func RegionOf(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return RegionOther
	}

	segments := strings.Split(address, ",")
	normalizedSegments := make([]string, len(segments))
	for i, seg := range segments {
		normalizedSegments[i] = foldAccents(seg)
	}

	for _, c := range knownCities {
		for _, alias := range c.aliases {
			for _, seg := range normalizedSegments {
				if containsWord(seg, alias) {
					return c.name
				}
			}
		}
	}

	last := strings.TrimSpace(segments[len(segments)-1])
	if last == "" {
		return RegionOther
	}
	return last
}

// foldAccents lowercases and strips Vietnamese diacritics ("Đà Nẵng" -> "da nang").
func foldAccents(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(utils.Unaccent(s))), " ")
}

// containsWord matches alias on word boundaries only.
func containsWord(haystack, needle string) bool {
	for from := 0; from <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if isBoundary(haystack, start-1) && isBoundary(haystack, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
