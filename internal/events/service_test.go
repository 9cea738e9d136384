package events

import (
	"testing"
	"time"

	"github.com/edupath/aigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.SystemEvent{}))
	return db
}

func TestService_LogEvent(t *testing.T) {
	service := NewService(setupTestDB(t))

	err := service.LogInfo(models.EventTypeConfigChange, "创建模型配置", map[string]interface{}{
		"task_type": "lesson_content",
		"model":     "gpt-5.2",
	})
	require.NoError(t, err)

	events, err := service.GetRecentEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, models.EventTypeConfigChange, events[0].Type)
	assert.Equal(t, models.EventLevelInfo, events[0].Level)
	assert.Contains(t, events[0].Metadata, "gpt-5.2")
}

func TestService_LogFailover(t *testing.T) {
	service := NewService(setupTestDB(t))

	err := service.LogFailover(models.TaskLessonContent, "gpt-5.2", "claude-sonnet-4.5", "重试耗尽")
	require.NoError(t, err)

	events, err := service.GetEventsByType(models.EventTypeFailover, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, models.EventLevelWarning, events[0].Level)
	assert.Contains(t, events[0].Message, "gpt-5.2")
	assert.Contains(t, events[0].Message, "claude-sonnet-4.5")
	assert.Contains(t, events[0].Metadata, "重试耗尽")
}

func TestService_GetEventsByLevel(t *testing.T) {
	service := NewService(setupTestDB(t))

	require.NoError(t, service.LogInfo(models.EventTypeConfigChange, "info 事件", nil))
	require.NoError(t, service.LogError(models.EventTypeGenerateFailed, "error 事件", nil))

	errorEvents, err := service.GetEventsByLevel(models.EventLevelError, 10)
	require.NoError(t, err)
	require.Len(t, errorEvents, 1)
	assert.Equal(t, models.EventTypeGenerateFailed, errorEvents[0].Type)
}

func TestService_CleanupOldEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	require.NoError(t, service.LogInfo(models.EventTypeConfigChange, "近期事件", nil))

	// 直接插入一条 10 天前的事件
	old := &models.SystemEvent{
		Type:      models.EventTypeRetention,
		Message:   "陈旧事件",
		Level:     models.EventLevelInfo,
		CreatedAt: time.Now().AddDate(0, 0, -10),
	}
	require.NoError(t, db.Create(old).Error)

	deleted, err := service.CleanupOldEvents(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := service.GetRecentEvents(10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "近期事件", remaining[0].Message)
}
