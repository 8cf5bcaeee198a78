package discovery

import (
	"math"
	"strings"
	"testing"
)

const scoreEps = 1e-9

func scoreDefaults(content, title string) float64 {
	cfg := DefaultConfig()
	return Score(content, title, cfg.TargetDomain, cfg.LeakKeywords)
}

func TestScoreEmptyContent(t *testing.T) {
	if got := scoreDefaults("", ""); got != 0 {
		t.Fatalf("empty content should score 0, got %f", got)
	}
}

func TestScoreDomainMentionCapped(t *testing.T) {
	// 5 sebutan × 0.15 = 0.75, cap komponen 0.3
	content := strings.Repeat("situs ui.ac.id disebut. ", 5)
	if got := scoreDefaults(content, ""); math.Abs(got-0.3) > scoreEps {
		t.Fatalf("domain component should cap at 0.3, got %f", got)
	}
}

func TestScoreTitleCountsForDomain(t *testing.T) {
	// sebutan domain di title ikut dihitung
	if got := scoreDefaults("tidak ada apa-apa", "data ui.ac.id bocor"); math.Abs(got-0.15) > scoreEps {
		t.Fatalf("single mention in title should score 0.15, got %f", got)
	}
}

func TestScoreGenericEmails(t *testing.T) {
	content := "a@example.com b@example.org c@example.net"
	if got := scoreDefaults(content, ""); math.Abs(got-0.15) > scoreEps {
		t.Fatalf("3 generic emails should score 0.15, got %f", got)
	}
}

func TestScoreTargetEmailStacks(t *testing.T) {
	// 1 email target: domain 0.15 + email 0.05 + target email 0.1 = 0.30
	if got := scoreDefaults("kontak admin@ui.ac.id", ""); math.Abs(got-0.30) > scoreEps {
		t.Fatalf("single target email should score 0.30, got %f", got)
	}
}

func TestScoreKeywordsDistinct(t *testing.T) {
	// 5 keyword berbeda × 0.04 = 0.2 (pas di cap); repetisi tidak menambah
	content := "password leaked dump breach exposed password password"
	if got := scoreDefaults(content, ""); math.Abs(got-0.2) > scoreEps {
		t.Fatalf("5 distinct keywords should score 0.2, got %f", got)
	}
}

func TestScoreStructuralPIICapped(t *testing.T) {
	// numeric id 0.1 + phone intl 0.05 + phone lokal 0.05 + alamat 0.05 = 0.25 → cap 0.2
	content := "id 2106754321 telp +62 812 3456 7890 atau 0812-3456-7890 alamat terlampir"
	if got := scoreDefaults(content, ""); math.Abs(got-0.2) > scoreEps {
		t.Fatalf("structural PII should cap at 0.2, got %f", got)
	}
}

func TestScoreTotalCappedAtOne(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("user")
		sb.WriteByte(byte('a' + i))
		sb.WriteString("@ui.ac.id ")
	}
	sb.WriteString("password leaked dump breach exposed ")
	sb.WriteString("id 2106754321 telp +62 812 3456 7890 alamat jalan mawar")
	got := scoreDefaults(sb.String(), "")
	if got != 1.0 {
		t.Fatalf("saturated content should score exactly 1.0, got %f", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	content := "admin@ui.ac.id password leaked 2106754321"
	first := scoreDefaults(content, "judul")
	for i := 0; i < 10; i++ {
		if got := scoreDefaults(content, "judul"); got != first {
			t.Fatalf("score not deterministic: %f vs %f", got, first)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		strings.Repeat("ui.ac.id password leaked a@ui.ac.id 2106754321 ", 50),
	}
	for _, in := range inputs {
		got := scoreDefaults(in, in)
		if got < 0 || got > 1 {
			t.Fatalf("score out of bounds for %q: %f", in, got)
		}
	}
}
