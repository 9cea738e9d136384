package registry

import (
	"testing"

	"github.com/edupath/aigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// 直接创建内存数据库
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 手动迁移只需要的模型
	err = db.AutoMigrate(&models.ModelConfig{})
	require.NoError(t, err)

	return db
}

func TestRepository_Create(t *testing.T) {
	database := setupTestDB(t)
	repo := NewRepository(database)

	config := &models.ModelConfig{
		TaskType:  models.TaskLessonContent,
		ModelName: "gpt-5.2",
		Priority:  0,
		Enabled:   true,
	}

	err := repo.Create(config)
	assert.NoError(t, err)
	assert.NotZero(t, config.ID)
	assert.NotZero(t, config.CreatedAt)
}

func TestRepository_FindByID(t *testing.T) {
	database := setupTestDB(t)
	repo := NewRepository(database)

	config := &models.ModelConfig{
		TaskType:  models.TaskLessonContent,
		ModelName: "gpt-5.2",
		Enabled:   true,
	}
	require.NoError(t, repo.Create(config))

	// 测试成功查找
	found, err := repo.FindByID(config.ID)
	assert.NoError(t, err)
	assert.Equal(t, config.ModelName, found.ModelName)
	assert.Equal(t, config.TaskType, found.TaskType)

	// 测试不存在的 ID
	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestRepository_FindEnabledByTaskType_Ordering(t *testing.T) {
	database := setupTestDB(t)
	repo := NewRepository(database)

	// 乱序插入，验证排序规则：priority 升序，相同优先级按 ID 升序
	require.NoError(t, repo.Create(&models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "claude-sonnet-4.5", Priority: 1, Enabled: true,
	}))
	require.NoError(t, repo.Create(&models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "gpt-5.2", Priority: 0, Enabled: true,
	}))
	require.NoError(t, repo.Create(&models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "gemini-2.5-pro", Priority: 1, Enabled: true,
	}))
	// 禁用的配置不应出现
	require.NoError(t, repo.Create(&models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "deepseek-v3.2", Priority: 0, Enabled: false,
	}))
	// 其他任务类型的配置不应出现
	require.NoError(t, repo.Create(&models.ModelConfig{
		TaskType: models.TaskCodeGeneration, ModelName: "qwen3-coder", Priority: 0, Enabled: true,
	}))

	configs, err := repo.FindEnabledByTaskType(models.TaskLessonContent)
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, "gpt-5.2", configs[0].ModelName)
	assert.Equal(t, "claude-sonnet-4.5", configs[1].ModelName)
	assert.Equal(t, "gemini-2.5-pro", configs[2].ModelName)
}

func TestRepository_FindByTaskTypeAndModel(t *testing.T) {
	database := setupTestDB(t)
	repo := NewRepository(database)

	require.NoError(t, repo.Create(&models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "gpt-5.2", Enabled: true,
	}))

	found, err := repo.FindByTaskTypeAndModel(models.TaskLessonContent, "gpt-5.2")
	assert.NoError(t, err)
	assert.Equal(t, "gpt-5.2", found.ModelName)

	// 同模型名但不同任务类型查不到
	_, err = repo.FindByTaskTypeAndModel(models.TaskCodeGeneration, "gpt-5.2")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestRepository_Delete(t *testing.T) {
	database := setupTestDB(t)
	repo := NewRepository(database)

	config := &models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "gpt-5.2", Enabled: true,
	}
	require.NoError(t, repo.Create(config))

	assert.NoError(t, repo.Delete(config.ID))
	assert.ErrorIs(t, repo.Delete(config.ID), ErrConfigNotFound)
}

func TestRepository_CheckExists(t *testing.T) {
	database := setupTestDB(t)
	repo := NewRepository(database)

	config := &models.ModelConfig{
		TaskType: models.TaskLessonContent, ModelName: "gpt-5.2", Enabled: true,
	}
	require.NoError(t, repo.Create(config))

	exists, err := repo.CheckExists(models.TaskLessonContent, "gpt-5.2", 0)
	assert.NoError(t, err)
	assert.True(t, exists)

	// 排除自身后不算存在
	exists, err = repo.CheckExists(models.TaskLessonContent, "gpt-5.2", config.ID)
	assert.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.CheckExists(models.TaskCodeGeneration, "gpt-5.2", 0)
	assert.NoError(t, err)
	assert.False(t, exists)
}
