package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTaskType(t *testing.T) {
	// 封闭集合内的类型全部合法
	for _, taskType := range AllTaskTypes {
		assert.True(t, IsValidTaskType(taskType), "task type %s should be valid", taskType)
	}

	// 集合外的类型一律拒绝
	assert.False(t, IsValidTaskType("unknown_task"))
	assert.False(t, IsValidTaskType(""))
	assert.False(t, IsValidTaskType("Lesson_Content"))
}

func TestAllTaskTypes_Count(t *testing.T) {
	assert.Len(t, AllTaskTypes, 15)
}

func TestClassOf(t *testing.T) {
	// 评估类：快速批改、知识缺口分析
	assert.Equal(t, TaskClassEvaluation, ClassOf(TaskQuickGrading))
	assert.Equal(t, TaskClassEvaluation, ClassOf(TaskGapAnalysis))

	// 其余全部为内容生成类
	assert.Equal(t, TaskClassGeneration, ClassOf(TaskLessonContent))
	assert.Equal(t, TaskClassGeneration, ClassOf(TaskCodeGeneration))
	assert.Equal(t, TaskClassGeneration, ClassOf(TaskVoiceNarration))
}

func TestIsSupportedModel(t *testing.T) {
	assert.True(t, IsSupportedModel("gpt-5.2"))
	assert.True(t, IsSupportedModel("claude-sonnet-4.5"))
	assert.True(t, IsSupportedModel("dall-e-4"))

	assert.False(t, IsSupportedModel("gpt-2"))
	assert.False(t, IsSupportedModel(""))
	assert.False(t, IsSupportedModel("GPT-5.2"))
}

func TestIsValidContentType(t *testing.T) {
	assert.True(t, IsValidContentType(""))
	assert.True(t, IsValidContentType(ContentTypeText))
	assert.True(t, IsValidContentType(ContentTypeCode))
	assert.True(t, IsValidContentType(ContentTypeAudio))
	assert.True(t, IsValidContentType(ContentTypeImage))

	assert.False(t, IsValidContentType("video"))
}
