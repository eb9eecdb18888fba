package service

import (
	"examprep_backend/internal/model"
	"examprep_backend/internal/util"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProgressLookup 按课时查询进度，不存在即未开始
type ProgressLookup func(lessonID string) (model.ProgressRecord, bool)

// ClassifyLesson 将课时归入唯一的状态桶
// 已完成的记录永远只算 completed，即使 currentTime < duration（手动标记完成的场景）
func ClassifyLesson(rec model.ProgressRecord, ok bool) model.LessonStatus {
	if ok && rec.Completed {
		return model.StatusCompleted
	}
	if ok && rec.CurrentTime > 0 {
		return model.StatusInProgress
	}
	return model.StatusNotStarted
}

// ProgressPercent 观看百分比，记录不存在或时长未知时为 0
func ProgressPercent(rec model.ProgressRecord, ok bool) float64 {
	if !ok || rec.Duration <= 0 {
		return 0
	}
	return rec.CurrentTime / rec.Duration * 100
}

// FilterSortLessons 由目录、搜索词、筛选排序指令和进度查询推导可见课时列表
// 纯函数：返回新切片，不改动输入目录也不写进度。
//  1. 大小写不敏感的子串匹配，命中标题或描述即可，空查询匹配全部
//  2. 按状态桶筛选，三个开关全关时结果为空（不是错误）
//  3. 稳定排序，排序键相同的课时保持目录原序
func FilterSortLessons(lessons []model.LessonCatalogEntry, query string, spec model.FilterSpec, lookup ProgressLookup) []model.LessonCatalogEntry {
	if lookup == nil {
		lookup = func(string) (model.ProgressRecord, bool) { return model.ProgressRecord{}, false }
	}

	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]model.LessonCatalogEntry, 0, len(lessons))
	for _, l := range lessons {
		if q != "" &&
			!strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}

		rec, ok := lookup(l.ID)
		switch ClassifyLesson(rec, ok) {
		case model.StatusCompleted:
			if !spec.Completed {
				continue
			}
		case model.StatusInProgress:
			if !spec.InProgress {
				continue
			}
		default:
			if !spec.NotStarted {
				continue
			}
		}

		out = append(out, l)
	}

	desc := spec.SortOrder == model.SortDesc

	switch spec.SortBy {
	case model.SortByTitle:
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			cmp := col.CompareString(out[i].Title, out[j].Title)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	case model.SortByDuration:
		sort.SliceStable(out, func(i, j int) bool {
			a := util.ParseDurationLabel(out[i].DurationLabel)
			b := util.ParseDurationLabel(out[j].DurationLabel)
			if desc {
				return a > b
			}
			return a < b
		})
	case model.SortByProgress:
		pct := func(id string) float64 {
			rec, ok := lookup(id)
			return ProgressPercent(rec, ok)
		}
		sort.SliceStable(out, func(i, j int) bool {
			a := pct(out[i].ID)
			b := pct(out[j].ID)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	return out
}
