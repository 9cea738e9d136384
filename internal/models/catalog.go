package models

// TaskType 任务类型
// 封闭枚举：模型选择按任务类型进行，未知类型视为配置错误
type TaskType string

const (
	TaskAssessmentQuestions     TaskType = "assessment_questions"     // 测评题目生成
	TaskRouteGeneration         TaskType = "route_generation"         // 学习路线生成
	TaskLessonContent           TaskType = "lesson_content"           // 课程内容生成
	TaskCodeGeneration          TaskType = "code_generation"          // 代码生成
	TaskExamQuestions           TaskType = "exam_questions"           // 考试题目生成
	TaskQuickGrading            TaskType = "quick_grading"            // 快速批改
	TaskVoiceNarration          TaskType = "voice_narration"          // 语音讲解
	TaskImageGeneration         TaskType = "image_generation"         // 图片生成
	TaskQuickImages             TaskType = "quick_images"             // 快速配图
	TaskGapAnalysis             TaskType = "gap_analysis"             // 知识缺口分析
	TaskReinforcementGeneration TaskType = "reinforcement_generation" // 巩固练习生成
	TaskExplainDifferently      TaskType = "explain_differently"      // 换种方式讲解
	TaskGiveExample             TaskType = "give_example"             // 举例说明
	TaskSimplifyContent         TaskType = "simplify_content"         // 内容简化
	TaskExerciseHint            TaskType = "exercise_hint"            // 习题提示
)

// AllTaskTypes 所有任务类型（按字典序固定）
var AllTaskTypes = []TaskType{
	TaskAssessmentQuestions,
	TaskRouteGeneration,
	TaskLessonContent,
	TaskCodeGeneration,
	TaskExamQuestions,
	TaskQuickGrading,
	TaskVoiceNarration,
	TaskImageGeneration,
	TaskQuickImages,
	TaskGapAnalysis,
	TaskReinforcementGeneration,
	TaskExplainDifferently,
	TaskGiveExample,
	TaskSimplifyContent,
	TaskExerciseHint,
}

// validTaskTypes 任务类型查找表
var validTaskTypes = func() map[TaskType]bool {
	m := make(map[TaskType]bool, len(AllTaskTypes))
	for _, t := range AllTaskTypes {
		m[t] = true
	}
	return m
}()

// IsValidTaskType 检查任务类型是否在封闭集合内
func IsValidTaskType(t TaskType) bool {
	return validTaskTypes[t]
}

// TaskClass 任务类别
// 用于区分重试策略：内容生成类重试次数多、间隔长，评估类反之
type TaskClass string

const (
	TaskClassGeneration TaskClass = "generation" // 内容生成类
	TaskClassEvaluation TaskClass = "evaluation" // 评估批改类
)

// ClassOf 返回任务类型所属的任务类别
func ClassOf(t TaskType) TaskClass {
	switch t {
	case TaskQuickGrading, TaskGapAnalysis:
		return TaskClassEvaluation
	default:
		return TaskClassGeneration
	}
}

// SupportedModels 支持的模型标识符（封闭集合）
// 由运维人员维护，未知标识符在写入时拒绝
var SupportedModels = []string{
	// 文本模型
	"gpt-5.2",
	"gpt-5.2-mini",
	"claude-sonnet-4.5",
	"claude-haiku-4.5",
	"gemini-2.5-pro",
	"deepseek-v3.2",
	// 代码模型
	"gpt-5.2-codex",
	"qwen3-coder",
	// 语音模型
	"gpt-4o-mini-tts",
	"elevenlabs-v3",
	// 图片模型
	"gemini-2.5-flash-image",
	"flux-1.1-pro",
	"dall-e-4",
}

// supportedModels 模型标识符查找表
var supportedModels = func() map[string]bool {
	m := make(map[string]bool, len(SupportedModels))
	for _, name := range SupportedModels {
		m[name] = true
	}
	return m
}()

// IsSupportedModel 检查模型标识符是否受支持
func IsSupportedModel(name string) bool {
	return supportedModels[name]
}

// ContentType 缓存内容分类
type ContentType string

const (
	ContentTypeText  ContentType = "text"  // 文本内容
	ContentTypeCode  ContentType = "code"  // 代码内容
	ContentTypeAudio ContentType = "audio" // 音频内容
	ContentTypeImage ContentType = "image" // 图片内容
)

// IsValidContentType 检查内容分类是否合法（空值允许）
func IsValidContentType(t ContentType) bool {
	switch t {
	case "", ContentTypeText, ContentTypeCode, ContentTypeAudio, ContentTypeImage:
		return true
	default:
		return false
	}
}
