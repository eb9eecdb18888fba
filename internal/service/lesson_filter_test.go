package service

import (
	"examprep_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []model.LessonCatalogEntry {
	return []model.LessonCatalogEntry{
		{ID: "l1", Title: "Introduction to Sets", Description: "Sets and membership", DurationLabel: "8:45"},
		{ID: "l2", Title: "Basics of Logic", Description: "Propositions and truth tables", DurationLabel: "12:30"},
		{ID: "l3", Title: "Algebraic Expressions", Description: "Working with variables", DurationLabel: "6:10"},
		{ID: "l4", Title: "Number Patterns", Description: "Sequences and series", DurationLabel: "10:00"},
	}
}

func lookupFrom(records map[string]model.ProgressRecord) ProgressLookup {
	return func(lessonID string) (model.ProgressRecord, bool) {
		rec, ok := records[lessonID]
		return rec, ok
	}
}

func ids(lessons []model.LessonCatalogEntry) []string {
	out := make([]string, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, l.ID)
	}
	return out
}

func allBuckets() model.FilterSpec {
	return model.FilterSpec{
		Completed:  true,
		InProgress: true,
		NotStarted: true,
		SortBy:     model.SortByTitle,
		SortOrder:  model.SortAsc,
	}
}

func TestClassifyLesson(t *testing.T) {
	tests := []struct {
		name string
		rec  model.ProgressRecord
		ok   bool
		want model.LessonStatus
	}{
		{"无记录即未开始", model.ProgressRecord{}, false, model.StatusNotStarted},
		{"有记录但时间为 0", model.ProgressRecord{CurrentTime: 0, Duration: 100}, true, model.StatusNotStarted},
		{"观看中", model.ProgressRecord{CurrentTime: 30, Duration: 100}, true, model.StatusInProgress},
		{"已完成", model.ProgressRecord{CurrentTime: 95, Duration: 100, Completed: true}, true, model.StatusCompleted},
		{"手动标记完成优先于时间", model.ProgressRecord{CurrentTime: 10, Duration: 100, Completed: true}, true, model.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLesson(tt.rec, tt.ok))
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name string
		rec  model.ProgressRecord
		ok   bool
		want float64
	}{
		{"无记录为 0", model.ProgressRecord{}, false, 0},
		{"时长未知为 0", model.ProgressRecord{CurrentTime: 50, Duration: 0}, true, 0},
		{"一半", model.ProgressRecord{CurrentTime: 50, Duration: 100}, true, 50},
		{"看完", model.ProgressRecord{CurrentTime: 100, Duration: 100}, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercent(tt.rec, tt.ok))
		})
	}
}

func TestFilterSortLessons_TitleSort(t *testing.T) {
	got := FilterSortLessons(testCatalog(), "", allBuckets(), nil)
	assert.Equal(t, []string{"l3", "l2", "l1", "l4"}, ids(got))

	spec := allBuckets()
	spec.SortOrder = model.SortDesc
	got = FilterSortLessons(testCatalog(), "", spec, nil)
	assert.Equal(t, []string{"l4", "l1", "l2", "l3"}, ids(got))
}

func TestFilterSortLessons_TextSearch(t *testing.T) {
	// 大小写不敏感，标题命中
	got := FilterSortLessons(testCatalog(), "ALGEBRA", allBuckets(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "l3", got[0].ID)

	// 描述命中也算
	got = FilterSortLessons(testCatalog(), "truth tables", allBuckets(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "l2", got[0].ID)

	// 首尾空白忽略，空查询匹配全部
	got = FilterSortLessons(testCatalog(), "   ", allBuckets(), nil)
	assert.Len(t, got, 4)

	// 无命中返回空，不报错
	got = FilterSortLessons(testCatalog(), "geometry", allBuckets(), nil)
	assert.Empty(t, got)
}

func TestFilterSortLessons_StatusBuckets(t *testing.T) {
	records := map[string]model.ProgressRecord{
		"l1": {CurrentTime: 100, Duration: 100, Completed: true},
		"l2": {CurrentTime: 30, Duration: 750},
	}
	lookup := lookupFrom(records)

	spec := allBuckets()
	spec.Completed = false
	got := FilterSortLessons(testCatalog(), "", spec, lookup)
	assert.NotContains(t, ids(got), "l1")
	assert.Len(t, got, 3)

	spec = model.FilterSpec{InProgress: true, SortBy: model.SortByTitle, SortOrder: model.SortAsc}
	got = FilterSortLessons(testCatalog(), "", spec, lookup)
	require.Len(t, got, 1)
	assert.Equal(t, "l2", got[0].ID)

	// 三个开关全关：合法输入，结果为空
	spec = model.FilterSpec{SortBy: model.SortByTitle, SortOrder: model.SortAsc}
	got = FilterSortLessons(testCatalog(), "", spec, lookup)
	assert.Empty(t, got)
}

func TestFilterSortLessons_CompletedExcludedFromInProgress(t *testing.T) {
	// 已完成但 currentTime < duration 的记录只归 completed 桶
	records := map[string]model.ProgressRecord{
		"l1": {CurrentTime: 40, Duration: 100, Completed: true},
	}

	spec := model.FilterSpec{InProgress: true, NotStarted: true, SortBy: model.SortByTitle, SortOrder: model.SortAsc}
	got := FilterSortLessons(testCatalog(), "", spec, lookupFrom(records))
	assert.NotContains(t, ids(got), "l1")
	assert.Len(t, got, 3)
}

func TestFilterSortLessons_DurationSort(t *testing.T) {
	spec := allBuckets()
	spec.SortBy = model.SortByDuration
	got := FilterSortLessons(testCatalog(), "", spec, nil)
	assert.Equal(t, []string{"l3", "l1", "l4", "l2"}, ids(got))

	spec.SortOrder = model.SortDesc
	got = FilterSortLessons(testCatalog(), "", spec, nil)
	assert.Equal(t, []string{"l2", "l4", "l1", "l3"}, ids(got))
}

func TestFilterSortLessons_MalformedDurationSortsFirst(t *testing.T) {
	catalog := []model.LessonCatalogEntry{
		{ID: "a", Title: "A", DurationLabel: "5:00"},
		{ID: "b", Title: "B", DurationLabel: "abc"},
	}

	spec := allBuckets()
	spec.SortBy = model.SortByDuration
	got := FilterSortLessons(catalog, "", spec, nil)
	// 无法解析的标签按 0 秒参与排序
	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestFilterSortLessons_ProgressSort(t *testing.T) {
	records := map[string]model.ProgressRecord{
		"l1": {CurrentTime: 80, Duration: 100},
		"l2": {CurrentTime: 20, Duration: 100},
		"l4": {CurrentTime: 50, Duration: 100},
	}

	spec := allBuckets()
	spec.SortBy = model.SortByProgress
	got := FilterSortLessons(testCatalog(), "", spec, lookupFrom(records))
	assert.Equal(t, []string{"l3", "l2", "l4", "l1"}, ids(got))

	spec.SortOrder = model.SortDesc
	got = FilterSortLessons(testCatalog(), "", spec, lookupFrom(records))
	assert.Equal(t, []string{"l1", "l4", "l2", "l3"}, ids(got))
}

func TestFilterSortLessons_StableOnEqualKeys(t *testing.T) {
	catalog := []model.LessonCatalogEntry{
		{ID: "x", Title: "Same", DurationLabel: "5:00"},
		{ID: "y", Title: "Same", DurationLabel: "5:00"},
		{ID: "z", Title: "Same", DurationLabel: "5:00"},
	}

	for _, sortBy := range []model.SortKey{model.SortByTitle, model.SortByDuration, model.SortByProgress} {
		for _, order := range []model.SortOrder{model.SortAsc, model.SortDesc} {
			spec := allBuckets()
			spec.SortBy = sortBy
			spec.SortOrder = order
			got := FilterSortLessons(catalog, "", spec, nil)
			assert.Equal(t, []string{"x", "y", "z"}, ids(got),
				"sortBy=%s order=%s 排序键相同应保持目录原序", sortBy, order)
		}
	}
}

func TestFilterSortLessons_ReapplyOnOutputIsNoop(t *testing.T) {
	// 混入排序键相同的条目，重复求值不能打乱已排好的并列顺序
	catalog := append(testCatalog(),
		model.LessonCatalogEntry{ID: "l5", Title: "Number Patterns", Description: "Duplicate title", DurationLabel: "10:00"},
	)
	records := map[string]model.ProgressRecord{
		"l1": {CurrentTime: 80, Duration: 100},
		"l4": {CurrentTime: 50, Duration: 100},
		"l5": {CurrentTime: 50, Duration: 100},
	}

	for _, sortBy := range []model.SortKey{model.SortByTitle, model.SortByDuration, model.SortByProgress} {
		for _, order := range []model.SortOrder{model.SortAsc, model.SortDesc} {
			spec := allBuckets()
			spec.SortBy = sortBy
			spec.SortOrder = order

			once := FilterSortLessons(catalog, "", spec, lookupFrom(records))
			twice := FilterSortLessons(once, "", spec, lookupFrom(records))
			assert.Equal(t, once, twice, "sortBy=%s order=%s 对输出再求值应当是恒等", sortBy, order)
		}
	}
}

func TestFilterSortLessons_PureFunction(t *testing.T) {
	catalog := testCatalog()
	spec := allBuckets()
	spec.SortBy = model.SortByDuration

	first := FilterSortLessons(catalog, "", spec, nil)
	// 输入目录不被改动
	assert.Equal(t, []string{"l1", "l2", "l3", "l4"}, ids(catalog))

	// 同样输入的重复求值结果一致
	second := FilterSortLessons(catalog, "", spec, nil)
	assert.Equal(t, first, second)
}
