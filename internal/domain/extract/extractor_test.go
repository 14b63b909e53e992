package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/545426946/travel-planning2.0-sub000/internal/domain/gazetteer"
	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

func newTestExtractor(t *testing.T, entries []types.GazetteerEntry) *Extractor {
	t.Helper()
	g, err := gazetteer.New(entries, slog.Default())
	require.NoError(t, err)
	return NewExtractor(g, slog.Default())
}

func beijingEntries() []types.GazetteerEntry {
	return []types.GazetteerEntry{
		{Name: "故宫博物院", Latitude: 39.9163, Longitude: 116.3972, Address: "北京市东城区景山前街4号"},
		{Name: "颐和园", Latitude: 39.9990, Longitude: 116.2754, Address: "北京市海淀区新建宫门路19号"},
		{Name: "天坛公园", Latitude: 39.8822, Longitude: 116.4066, Address: "北京市东城区天坛路甲1号"},
		{Name: "南锣鼓巷", Latitude: 39.9367, Longitude: 116.4033, Address: "北京市东城区南锣鼓巷胡同"},
	}
}

func TestExtractPreservesEncounterOrder(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	got := e.Extract(context.Background(), "上午参观故宫博物院，下午游览颐和园", "北京")
	assert.Equal(t, []string{"故宫博物院", "颐和园"}, got)
}

func TestExtractNoPlaceNames(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	got := e.Extract(context.Background(), "上午自由活动，下午休息", "北京")
	assert.Empty(t, got)
}

func TestExtractVerbObjectResolvableViaGazetteer(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	// 故宫 is not a gazetteer key but is contained in 故宫博物院; the
	// verb-scan candidate survives the filter and comes back under the
	// gazetteer's canonical spelling.
	got := e.Extract(context.Background(), "早上八点去故宫，记得提前预约", "北京")
	assert.Equal(t, []string{"故宫博物院"}, got)
}

func TestExtractDiscardsUnmatchableSuffixCandidates(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	// Looks like an attraction name but has no relation to any gazetteer
	// entry, so it is discarded at extraction, not left to fail later.
	got := e.Extract(context.Background(), "下午参观月球陨石博物馆", "北京")
	assert.Empty(t, got)
}

func TestExtractRejectsStopwordCandidates(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	got := e.Extract(context.Background(), "傍晚去酒店办理入住，然后去车站取票", "北京")
	assert.Empty(t, got)
}

func TestExtractCollapsesSubstringDuplicates(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	// Dictionary scan finds 故宫博物院, the verb scan captures the same span;
	// only the single most specific form must survive.
	got := e.Extract(context.Background(), "参观故宫博物院是今天的重点", "北京")
	assert.Equal(t, []string{"故宫博物院"}, got)
}

func TestExtractQuotedNames(t *testing.T) {
	e := newTestExtractor(t, beijingEntries())

	got := e.Extract(context.Background(), "晚上逛一逛“南锣鼓巷”感受胡同气息", "北京")
	assert.Equal(t, []string{"南锣鼓巷"}, got)
}

func TestExtractContainsEveryGazetteerNameInText(t *testing.T) {
	entries := beijingEntries()
	e := newTestExtractor(t, entries)

	text := "第一天：故宫博物院、颐和园；第二天：天坛公园、南锣鼓巷。"
	got := e.Extract(context.Background(), text, "北京")

	for _, entry := range entries {
		found := false
		for _, name := range got {
			if strings.Contains(name, entry.Name) {
				found = true
				break
			}
		}
		assert.True(t, found, "expected %s (or a longer name containing it) in output", entry.Name)
	}
}

func TestExtractCapsAtFifteen(t *testing.T) {
	var entries []types.GazetteerEntry
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("第%c十景", rune('一'+i))
		entries = append(entries, types.GazetteerEntry{
			Name: name, Latitude: 30 + float64(i)*0.01, Longitude: 120 + float64(i)*0.01, Address: "测试地址",
		})
		sb.WriteString(name)
		sb.WriteString("，")
	}
	e := newTestExtractor(t, entries)

	got := e.Extract(context.Background(), sb.String(), "测试")
	assert.Len(t, got, 15)
}

func TestDedupeBySubstringIdempotent(t *testing.T) {
	in := []string{"西湖", "西湖风景名胜区", "雷峰塔", "灵隐寺", "灵隐"}

	once := dedupeBySubstring(in)
	twice := dedupeBySubstring(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"西湖风景名胜区", "雷峰塔", "灵隐寺"}, once)
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid place", "故宫博物院", true},
		{"too short", "园", false},
		{"too long", strings.Repeat("很", 21), false},
		{"no CJK", "Tower Bridge", false},
		{"equals stopword", "晚餐", false},
		{"contains stopword", "附近小巷", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isValidName(tc.input))
		})
	}
}
