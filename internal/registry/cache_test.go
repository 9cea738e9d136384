package registry

import (
	"testing"
	"time"

	"github.com/edupath/aigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *CandidateCache {
	cache := NewCandidateCache(&CandidateCacheConfig{
		TTL:         ttl,
		CleanupTime: time.Minute,
	})
	t.Cleanup(cache.Close)
	return cache
}

func TestCandidateCache_SetGet(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	candidates := []*Candidate{
		{TaskType: models.TaskLessonContent, ModelName: "gpt-5.2", Priority: 0},
	}
	cache.Set(models.TaskLessonContent, candidates)

	got, found := cache.Get(models.TaskLessonContent)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "gpt-5.2", got[0].ModelName)

	// 未写入的键未命中
	_, found = cache.Get(models.TaskCodeGeneration)
	assert.False(t, found)
}

func TestCandidateCache_Expiry(t *testing.T) {
	cache := newTestCache(t, 10*time.Millisecond)

	cache.Set(models.TaskLessonContent, []*Candidate{
		{TaskType: models.TaskLessonContent, ModelName: "gpt-5.2"},
	})

	time.Sleep(20 * time.Millisecond)

	_, found := cache.Get(models.TaskLessonContent)
	assert.False(t, found)
}

func TestCandidateCache_Invalidate(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	cache.Set(models.TaskLessonContent, []*Candidate{
		{TaskType: models.TaskLessonContent, ModelName: "gpt-5.2"},
	})
	cache.Invalidate(models.TaskLessonContent)

	_, found := cache.Get(models.TaskLessonContent)
	assert.False(t, found)
}

func TestCandidateCache_GetReturnsCopy(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	cache.Set(models.TaskLessonContent, []*Candidate{
		{TaskType: models.TaskLessonContent, ModelName: "gpt-5.2"},
	})

	got, found := cache.Get(models.TaskLessonContent)
	require.True(t, found)

	// 修改返回值不应影响缓存内容
	got[0].ModelName = "mutated"

	again, found := cache.Get(models.TaskLessonContent)
	require.True(t, found)
	assert.Equal(t, "gpt-5.2", again[0].ModelName)
}

func TestCandidateCache_SetCopiesInput(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	candidates := []*Candidate{
		{TaskType: models.TaskLessonContent, ModelName: "gpt-5.2"},
	}
	cache.Set(models.TaskLessonContent, candidates)

	// 写入后修改调用方持有的候选不应污染缓存
	candidates[0].ModelName = "mutated"

	got, found := cache.Get(models.TaskLessonContent)
	require.True(t, found)
	assert.Equal(t, "gpt-5.2", got[0].ModelName)
}
