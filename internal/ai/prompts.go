package ai

// Профили системного промпта. Выбираются через PROMPT_PROFILE.
const (
	ProfileDefault   = "default"
	ProfileInterview = "interview"
)

var systemPrompts = map[string]string{
	ProfileDefault: "You are an expert programming assistant. Provide simple commenting, hints, and code response only.",
	ProfileInterview: `You are an expert Data Science and Technical Interview assistant.
Structure your response into 3 CLEAR sections:
1. LOGIC: A brief explanation of the approach. For DS: Mention the specific algorithm, SQL join type, or Pandas method used (1-2 sentences).
2. PSEUDOCODE: Simple logic steps to guide the implementation.
3. CODE: The optimized solution (Python/Pandas/SQL).
Always aim for memory-efficient and readable code. Keep it concise.`,
}

// PromptFor возвращает системный промпт профиля; неизвестный профиль — default.
func PromptFor(profile string) string {
	if p, ok := systemPrompts[profile]; ok {
		return p
	}
	return systemPrompts[ProfileDefault]
}

// DefaultModel — модель по умолчанию для запросов.
const DefaultModel = "gpt-4o-mini"

// KnownModels — модели, проверенные с этим приложением. Другие имена не
// запрещены, но по ним стоит предупредить в логе.
var KnownModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"}

func KnownModel(name string) bool {
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

// OCRPrompt — инструкция для vision-модели при извлечении текста с экрана.
const OCRPrompt = "Extract all visible text from this screenshot. Return only the extracted text, without commentary or formatting."
