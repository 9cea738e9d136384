package ledger

import (
	"testing"

	"github.com/edupath/aigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Interaction{}))

	return NewRepository(db)
}

func createTestInteraction(t *testing.T, repo *Repository) *models.Interaction {
	interaction := &models.Interaction{
		RequestID: "req-1",
		TaskType:  models.TaskLessonContent,
		Prompt:    "explain recursion",
	}
	require.NoError(t, repo.Create(interaction))
	return interaction
}

func TestRepository_Create(t *testing.T) {
	repo := setupTestRepo(t)

	interaction := createTestInteraction(t, repo)
	assert.NotZero(t, interaction.ID)
	assert.Equal(t, models.StatusPending, interaction.Status)
}

func TestRepository_Create_EmptyPrompt(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Create(&models.Interaction{TaskType: models.TaskLessonContent})
	assert.ErrorIs(t, err, ErrPromptEmpty)
}

func TestRepository_Lifecycle_Completed(t *testing.T) {
	repo := setupTestRepo(t)
	interaction := createTestInteraction(t, repo)

	// pending → processing → completed
	require.NoError(t, repo.MarkProcessing(interaction.ID, "gpt-5.2"))

	found, err := repo.FindByID(interaction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, found.Status)
	assert.Equal(t, "gpt-5.2", found.Model)

	require.NoError(t, repo.MarkCompleted(interaction.ID, 120, 900))

	found, err = repo.FindByID(interaction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, found.Status)
	assert.Equal(t, 120, found.CostCents)
	assert.Equal(t, 900, found.LatencyMs)
	assert.Equal(t, 1.2, found.CostDollars())
	assert.Equal(t, 0.9, found.LatencySeconds())
}

func TestRepository_Reprocessing_AcrossCandidates(t *testing.T) {
	repo := setupTestRepo(t)
	interaction := createTestInteraction(t, repo)

	// 降级场景：同一条记录在不同候选模型间多次进入 processing
	require.NoError(t, repo.MarkProcessing(interaction.ID, "gpt-5.2"))
	require.NoError(t, repo.MarkProcessing(interaction.ID, "claude-sonnet-4.5"))

	found, err := repo.FindByID(interaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4.5", found.Model)
}

func TestRepository_TerminalMonotonicity(t *testing.T) {
	repo := setupTestRepo(t)

	testCases := []struct {
		name     string
		expected models.InteractionStatus
	}{
		{
			name:     "completed stays completed",
			expected: models.StatusCompleted,
		},
		{
			name:     "failed stays failed",
			expected: models.StatusFailed,
		},
		{
			name:     "timeout stays timeout",
			expected: models.StatusTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			interaction := createTestInteraction(t, repo)

			// 进入终态
			switch tc.expected {
			case models.StatusCompleted:
				require.NoError(t, repo.MarkCompleted(interaction.ID, 10, 100))
			case models.StatusFailed:
				require.NoError(t, repo.MarkFailed(interaction.ID, "provider error"))
			case models.StatusTimeout:
				require.NoError(t, repo.MarkTimeout(interaction.ID, "deadline exceeded"))
			}

			// 终态之后的任何转换都被拒绝
			assert.ErrorIs(t, repo.MarkProcessing(interaction.ID, "gpt-5.2"), ErrTerminalState)
			assert.ErrorIs(t, repo.MarkCompleted(interaction.ID, 999, 999), ErrTerminalState)
			assert.ErrorIs(t, repo.MarkFailed(interaction.ID, "again"), ErrTerminalState)
			assert.ErrorIs(t, repo.MarkTimeout(interaction.ID, "again"), ErrTerminalState)

			// 状态保持不变
			found, err := repo.FindByID(interaction.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found.Status)
		})
	}
}

func TestRepository_MarkProcessing_UnsupportedModel(t *testing.T) {
	repo := setupTestRepo(t)
	interaction := createTestInteraction(t, repo)

	// 模型标识符不在支持集合内：拒绝写入，记录保持 pending
	err := repo.MarkProcessing(interaction.ID, "totally-made-up-model")
	assert.ErrorIs(t, err, ErrModelUnsupported)

	found, err := repo.FindByID(interaction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)
	assert.Empty(t, found.Model)
}

func TestRepository_Transition_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	assert.ErrorIs(t, repo.MarkProcessing(9999, "gpt-5.2"), ErrInteractionNotFound)
}

func TestRepository_FindByRequestID(t *testing.T) {
	repo := setupTestRepo(t)
	createTestInteraction(t, repo)

	found, err := repo.FindByRequestID("req-1")
	assert.NoError(t, err)
	assert.Equal(t, "req-1", found.RequestID)

	_, err = repo.FindByRequestID("req-missing")
	assert.ErrorIs(t, err, ErrInteractionNotFound)
}

func TestRepository_ListByStatus(t *testing.T) {
	repo := setupTestRepo(t)

	first := createTestInteraction(t, repo)
	createTestInteraction(t, repo)
	require.NoError(t, repo.MarkProcessing(first.ID, "gpt-5.2"))
	require.NoError(t, repo.MarkCompleted(first.ID, 10, 100))

	completed, err := repo.ListByStatus(models.StatusCompleted, 10)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	pending, err := repo.ListByStatus(models.StatusPending, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRepository_TotalCostCents(t *testing.T) {
	repo := setupTestRepo(t)

	first := createTestInteraction(t, repo)
	require.NoError(t, repo.MarkProcessing(first.ID, "gpt-5.2"))
	require.NoError(t, repo.MarkCompleted(first.ID, 120, 900))

	second := &models.Interaction{
		RequestID: "req-2",
		TaskType:  models.TaskCodeGeneration,
		Prompt:    "write a sort",
	}
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.MarkProcessing(second.ID, "qwen3-coder"))
	require.NoError(t, repo.MarkCompleted(second.ID, 30, 500))

	// 失败记录不计入成本汇总
	third := createTestInteraction(t, repo)
	require.NoError(t, repo.MarkFailed(third.ID, "boom"))

	total, err := repo.TotalCostCents("")
	require.NoError(t, err)
	assert.Equal(t, int64(150), total)

	total, err = repo.TotalCostCents(models.TaskCodeGeneration)
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
}
