package stats

import (
	"testing"
	"time"

	"github.com/edupath/aigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_IncrementRequests(t *testing.T) {
	collector := NewCollector(time.Minute)

	for i := 0; i < 5; i++ {
		collector.IncrementRequests()
	}

	snapshot := collector.GetSnapshot()
	assert.Equal(t, int64(5), snapshot.TotalRequests)
	assert.GreaterOrEqual(t, snapshot.CurrentQPS, 0.0)
}

func TestCollector_RecordOutcome(t *testing.T) {
	collector := NewCollector(time.Minute)

	collector.RecordSubmitted(models.TaskLessonContent)
	collector.RecordSubmitted(models.TaskLessonContent)
	collector.RecordCacheHit(models.TaskLessonContent)
	collector.RecordOutcome(models.TaskLessonContent, models.StatusCompleted)
	collector.RecordOutcome(models.TaskQuickGrading, models.StatusFailed)
	collector.RecordOutcome(models.TaskQuickGrading, models.StatusTimeout)

	snapshot := collector.GetSnapshot()

	lesson := snapshot.ByTaskType[string(models.TaskLessonContent)]
	require.NotNil(t, lesson)
	assert.Equal(t, int64(2), lesson.Submitted)
	assert.Equal(t, int64(1), lesson.CacheHits)
	assert.Equal(t, int64(1), lesson.Completed)

	grading := snapshot.ByTaskType[string(models.TaskQuickGrading)]
	require.NotNil(t, grading)
	assert.Equal(t, int64(1), grading.Failed)
	assert.Equal(t, int64(1), grading.Timeout)
}

func TestCollector_NonTerminalStatusIgnored(t *testing.T) {
	collector := NewCollector(time.Minute)

	// 只统计终态，中间状态不计数
	collector.RecordOutcome(models.TaskLessonContent, models.StatusPending)
	collector.RecordOutcome(models.TaskLessonContent, models.StatusProcessing)

	snapshot := collector.GetSnapshot()
	counters := snapshot.ByTaskType[string(models.TaskLessonContent)]
	require.NotNil(t, counters)
	assert.Zero(t, counters.Completed)
	assert.Zero(t, counters.Failed)
	assert.Zero(t, counters.Timeout)
}

func TestCollector_SnapshotIsCopy(t *testing.T) {
	collector := NewCollector(time.Minute)

	collector.RecordSubmitted(models.TaskLessonContent)
	snapshot := collector.GetSnapshot()

	// 修改快照不影响收集器内部状态
	snapshot.ByTaskType[string(models.TaskLessonContent)].Submitted = 99

	fresh := collector.GetSnapshot()
	assert.Equal(t, int64(1), fresh.ByTaskType[string(models.TaskLessonContent)].Submitted)
}

func TestCollector_WindowRotation(t *testing.T) {
	collector := NewCollector(50 * time.Millisecond)

	collector.IncrementRequests()
	time.Sleep(80 * time.Millisecond)

	// 窗口过期后 QPS 计数归零，总数保留
	snapshot := collector.GetSnapshot()
	assert.Equal(t, int64(1), snapshot.TotalRequests)
	assert.Zero(t, snapshot.CurrentQPS)
}
