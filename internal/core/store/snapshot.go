package store

import (
	"recipe-cleaner/internal/core/workflow"
	"recipe-cleaner/internal/pkg/common"
)

// StepView 渲染用的步驟：結構化步驟的食材提及已對回正式清單並套用縮放
type StepView struct {
	Kind        common.StepKind `json:"kind"`
	Text        string          `json:"text,omitempty"`
	Instruction string          `json:"instruction,omitempty"`
	Ingredients []string        `json:"ingredients,omitempty"`
	Done        bool            `json:"done"`
}

// Snapshot 前端一次拉走的完整 UI 狀態投影
// 縮放與步驟食材對照都在這裡算（渲染時），食譜實體本身不動。
type Snapshot struct {
	HasRecipe          bool           `json:"has_recipe"`
	Recipe             *common.Recipe `json:"recipe,omitempty"`
	DisplayIngredients []string       `json:"display_ingredients,omitempty"`
	Steps              []StepView     `json:"display_steps,omitempty"`
	TargetServings     int            `json:"target_servings,omitempty"`

	Phase                workflow.Phase `json:"phase"`
	IngredientsDone      []int          `json:"ingredients_done"`
	StepsDone            []int          `json:"steps_done"`
	IngredientsRemaining []int          `json:"ingredients_remaining"`
	StepsRemaining       []int          `json:"steps_remaining"`
	AllIngredientsDone   bool           `json:"all_ingredients_done"`
	AllStepsDone         bool           `json:"all_steps_done"`

	InputKind  InputKind `json:"input_kind"`
	URLInput   string    `json:"url_input"`
	VideoInput string    `json:"video_input"`
	PhotoCount int       `json:"photo_count"`

	Loading        bool   `json:"loading"`
	LoadingMessage string `json:"loading_message,omitempty"`
	Translating    bool   `json:"translating"`
	AuthLoading    bool   `json:"auth_loading"`
	SavingRecipe   bool   `json:"saving_recipe"`

	FeedbackSent bool `json:"feedback_sent"`
	HasRated     bool `json:"has_rated_this_session"`

	InlineError   string `json:"inline_error,omitempty"`
	ShowSignup    bool   `json:"show_signup"`
	ShowPricing   bool   `json:"show_pricing"`
	UpgradePrompt bool   `json:"upgrade_prompt"`
}

// Snapshot 在鎖內組出目前狀態的投影
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:         s.progress.Phase,
		InputKind:     s.inputKind,
		URLInput:      s.urlInput,
		VideoInput:    s.videoInput,
		PhotoCount:    s.photoCount,
		Loading:       s.loading,
		Translating:   s.translating,
		AuthLoading:   s.authLoading,
		SavingRecipe:  s.savingRecipe,
		FeedbackSent:  s.feedbackSent,
		HasRated:      s.hasRatedThisSession,
		InlineError:   s.inlineError,
		ShowSignup:    s.showSignup,
		ShowPricing:   s.showPricing,
		UpgradePrompt: s.upgradePrompt,
	}
	if s.loading {
		snap.LoadingMessage = s.loadingMessage
	}

	if s.recipe == nil {
		snap.IngredientsDone = []int{}
		snap.StepsDone = []int{}
		snap.IngredientsRemaining = []int{}
		snap.StepsRemaining = []int{}
		return snap
	}

	r := s.recipe
	snap.HasRecipe = true
	snap.Recipe = r
	snap.TargetServings = s.targetServings
	snap.DisplayIngredients = workflow.ScaleLines(r.Ingredients, s.targetServings, r.Servings)

	snap.Steps = make([]StepView, len(r.Steps))
	for i, step := range r.Steps {
		view := StepView{
			Kind:        step.Kind,
			Text:        step.Text,
			Instruction: step.Instruction,
			Done:        s.progress.Steps[i],
		}
		if step.Kind == common.StepStructured {
			resolved := workflow.ResolveMentions(step.Ingredients, r.Ingredients)
			view.Ingredients = workflow.ScaleLines(resolved, s.targetServings, r.Servings)
		}
		snap.Steps[i] = view
	}

	totalIng := len(r.Ingredients)
	totalSteps := len(r.Steps)
	snap.IngredientsDone = s.progress.DoneIndices(workflow.KindIngredient)
	snap.StepsDone = s.progress.DoneIndices(workflow.KindStep)
	snap.IngredientsRemaining = s.progress.Remaining(workflow.KindIngredient, totalIng)
	snap.StepsRemaining = s.progress.Remaining(workflow.KindStep, totalSteps)
	snap.AllIngredientsDone = s.progress.AllDone(workflow.KindIngredient, totalIng)
	snap.AllStepsDone = s.progress.AllDone(workflow.KindStep, totalSteps)

	return snap
}
