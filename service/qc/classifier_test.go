/*
 * @module service/qc/classifier_test
 * @description 记录分类器单元测试：排除规则、特殊机器、模块集合与名称回退
 * @architecture 单元测试
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 测试准备 -> 分类执行 -> 结果验证
 * @rules 每条规则独立断言，排除规则必须压过所有其他匹配路径
 * @dependencies testing, testify
 * @refs classifier.go, ../meta/qc_meta.go
 */

package qc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qctrack-service/service/meta"
	"qctrack-service/service/models"
	"qctrack-service/testutil"
)

func weeklyRule(t *testing.T, m *meta.QCMeta) *meta.CategoryRule {
	t.Helper()
	rule, ok := m.Category(meta.CategoryWeekly)
	require.True(t, ok)
	return rule
}

func monthlyRule(t *testing.T, m *meta.QCMeta) *meta.CategoryRule {
	t.Helper()
	rule, ok := m.Category(meta.CategoryMonthly)
	require.True(t, ok)
	return rule
}

func TestClassifier_ModuleIDMatch(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)

	rec := models.RawRecord{ObjectID: 159, ModuleID: 64, Name: "Mesure dosimétrie"}
	assert.True(t, classifier.Matches(rec, weeklyRule(t, m)))
}

func TestClassifier_ExclusionOverridesModuleMatch(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)
	rule := weeklyRule(t, m)

	tests := []struct {
		name       string
		recordName string
	}{
		{"test关键字", "CQH test dosimétrie"},
		{"à supprimer", "CQH à supprimer"},
		{"a supp缩写", "CQH a supp"},
		{"essai", "Essai faisceau"},
		{"粘连写法", "CQHàsupprimer"},
		{"大小写不敏感", "CQH TEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.RawRecord{ObjectID: 159, ModuleID: 64, Name: tt.recordName}
			assert.False(t, classifier.Matches(rec, rule), "排除规则应压过模块匹配: %q", tt.recordName)
		})
	}
}

func TestClassifier_SpecialMachineNameOnly(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)

	// TOMO机器(99/121)即使模块标识在月控集合内，也只按名称判定
	inSet := models.RawRecord{ObjectID: 99, ModuleID: 97, Name: "Calibration quotidienne"}
	assert.False(t, classifier.Matches(inSet, monthlyRule(t, m)), "特殊机器不得走模块集合匹配")

	// 模块标识在任何集合之外，但名称命中月控写法
	byName := models.RawRecord{ObjectID: 99, ModuleID: 999, Name: "Contrôle qualité mensuelle TOMO1"}
	assert.True(t, classifier.Matches(byName, monthlyRule(t, m)))

	byNameCompact := models.RawRecord{ObjectID: 121, ModuleID: 999, Name: "CQM TOMO2"}
	assert.True(t, classifier.Matches(byNameCompact, monthlyRule(t, m)))
}

func TestClassifier_WeeklyNoNameFallback(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)

	// 常规机器、模块集合外、名称写着CQH：周控不回退
	rec := models.RawRecord{ObjectID: 159, ModuleID: 999, Name: "CQH Versa HD 1"}
	assert.False(t, classifier.Matches(rec, weeklyRule(t, m)))

	// 同样的情形月控允许名称回退
	recMonthly := models.RawRecord{ObjectID: 159, ModuleID: 999, Name: "CQM Versa HD 1"}
	assert.True(t, classifier.Matches(recMonthly, monthlyRule(t, m)))
}

func TestClassifier_Classify_SkipsNilDates(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)

	records := []models.RawRecord{
		{StudyID: 1, ObjectID: 159, ModuleID: 64, Name: "CQH", StudyDate: nil},
		{StudyID: 2, ObjectID: 159, ModuleID: 64, Name: "CQH", StudyDate: testutil.DatePtr(2025, 3, 4)},
	}

	classified, audit := classifier.Classify(records, weeklyRule(t, m))
	require.Len(t, classified, 1)
	assert.Equal(t, 2, classified[0].StudyID)
	assert.Equal(t, "Versa HD 1", classified[0].Machine.Name)
	assert.Empty(t, audit)
}

func TestClassifier_Classify_UnknownMachineGoesToAudit(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)

	records := []models.RawRecord{
		{StudyID: 7, ObjectID: 777, ModuleID: 64, Name: "CQH machine inconnue", StudyDate: testutil.DatePtr(2025, 3, 4)},
	}

	classified, audit := classifier.Classify(records, weeklyRule(t, m))
	assert.Empty(t, classified)
	require.Len(t, audit, 1)
	assert.Equal(t, 777, audit[0].ObjectID)
	assert.Equal(t, 64, audit[0].ModuleID)
	assert.Equal(t, meta.CategoryWeekly, audit[0].Category)
}

func TestClassifier_CategoriesIndependent(t *testing.T) {
	m := meta.Default()
	classifier := NewClassifier(m)

	// 名称同时命中月控与半年控写法的记录在两个类别下都有效
	rec := models.RawRecord{
		StudyID:   3,
		ObjectID:  159,
		ModuleID:  999,
		Name:      "CQM et CQS combinés",
		StudyDate: testutil.DatePtr(2025, 3, 4),
	}

	monthly, _ := classifier.Classify([]models.RawRecord{rec}, monthlyRule(t, m))
	semestral, ok := m.Category(meta.CategorySemestral)
	require.True(t, ok)
	semestralHits, _ := classifier.Classify([]models.RawRecord{rec}, semestral)

	assert.Len(t, monthly, 1)
	assert.Len(t, semestralHits, 1)
}
