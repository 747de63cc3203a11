package workflow

import "strings"

// ResolveMention 把結構化步驟裡的簡短食材提及對回正式食材清單，
// 讓步驟顯示完整的份量文字。
// 比對方式：不分大小寫、雙向子字串包含，取文件順序第一個命中；
// 沒有命中就原樣退回提及文字。這是啟發式而非精確匹配，模糊或
// 缺席的情況一律靜默退回。
func ResolveMention(mention string, ingredients []string) string {
	needle := strings.ToLower(strings.TrimSpace(mention))
	if needle == "" {
		return mention
	}

	for _, ingredient := range ingredients {
		hay := strings.ToLower(ingredient)
		if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
			return ingredient
		}
	}
	return mention
}

// ResolveMentions 解析一個步驟的全部提及
func ResolveMentions(mentions, ingredients []string) []string {
	out := make([]string, len(mentions))
	for i, m := range mentions {
		out[i] = ResolveMention(m, ingredients)
	}
	return out
}
