package i18n

// 靜態 UI 字串查找表。任何語系缺鍵時保證回退到 BaseLocale，
// 連 BaseLocale 都沒有的鍵原樣返回（開發期能直接看出漏翻）。
var uiStrings = map[Locale]map[string]string{
	LocaleEN: {
		"input.empty_url":     "Please paste a recipe link first",
		"input.empty_photos":  "Please add at least one photo",
		"input.empty_video":   "Please paste a video link first",
		"phase.prep":          "Gather ingredients",
		"phase.cook":          "Start cooking",
		"quota.remaining":     "cleanings left",
		"quota.unlimited":     "unlimited",
		"error.generic":       "Something went wrong, please try again",
		"prompt.upgrade":      "Translation is a premium feature — upgrade to unlock it",
		"feedback.thanks":     "Thanks for your feedback!",
		"rating.already":      "You already rated this session",
		"saved.signin_needed": "Sign in to save recipes",
	},
	LocaleZhTW: {
		"input.empty_url":     "請先貼上食譜連結",
		"input.empty_photos":  "請至少加入一張照片",
		"input.empty_video":   "請先貼上影片連結",
		"phase.prep":          "備齊食材",
		"phase.cook":          "開始烹飪",
		"quota.remaining":     "次清理額度",
		"quota.unlimited":     "無上限",
		"error.generic":       "發生錯誤，請再試一次",
		"prompt.upgrade":      "翻譯是進階功能，升級後即可使用",
		"feedback.thanks":     "感謝您的回饋！",
		"rating.already":      "本次已送出過評分",
		"saved.signin_needed": "登入後才能收藏食譜",
	},
	LocaleJA: {
		"input.empty_url":    "先にレシピのリンクを貼り付けてください",
		"input.empty_photos": "写真を1枚以上追加してください",
		"input.empty_video":  "先に動画のリンクを貼り付けてください",
		"phase.prep":         "材料をそろえる",
		"phase.cook":         "調理をはじめる",
		"error.generic":      "エラーが発生しました。もう一度お試しください",
	},
	LocaleES: {
		"input.empty_url":    "Primero pega el enlace de la receta",
		"input.empty_photos": "Agrega al menos una foto",
		"input.empty_video":  "Primero pega el enlace del video",
		"phase.prep":         "Reunir ingredientes",
		"phase.cook":         "Empezar a cocinar",
		"error.generic":      "Algo salió mal, inténtalo de nuevo",
	},
}

// T 查找 UI 字串，缺鍵時回退 BaseLocale
func T(locale Locale, key string) string {
	if table, ok := uiStrings[locale]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := uiStrings[BaseLocale][key]; ok {
		return s
	}
	return key
}

// 載入訊息序列：每種輸入模式一組，固定間隔推進到最後一則後停住。
// 序列在新擷取開始、或載入中切換輸入模式/語系時重頭開始。
var loadingSequences = map[Locale]map[string][]string{
	LocaleEN: {
		"url": {
			"Fetching the page…",
			"Cutting through the life story…",
			"Extracting the actual recipe…",
			"Almost there…",
		},
		"photo": {
			"Reading your photos…",
			"Deciphering the handwriting…",
			"Assembling the recipe…",
			"Almost there…",
		},
		"video": {
			"Fetching the video…",
			"Listening for the ingredients…",
			"Writing the steps down…",
			"Almost there…",
		},
	},
	LocaleZhTW: {
		"url": {
			"正在抓取頁面…",
			"跳過冗長的前言…",
			"擷取真正的食譜…",
			"快好了…",
		},
		"photo": {
			"正在讀取照片…",
			"辨認手寫字跡…",
			"組合食譜內容…",
			"快好了…",
		},
		"video": {
			"正在抓取影片…",
			"聆聽食材清單…",
			"整理烹飪步驟…",
			"快好了…",
		},
	},
}

// LoadingMessages 取得載入訊息序列，語系或模式缺失時回退 BaseLocale
func LoadingMessages(locale Locale, kind string) []string {
	if table, ok := loadingSequences[locale]; ok {
		if seq, ok := table[kind]; ok {
			return seq
		}
	}
	if seq, ok := loadingSequences[BaseLocale][kind]; ok {
		return seq
	}
	return []string{T(locale, "phase.prep")}
}
