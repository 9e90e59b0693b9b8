package dispatch

import "fmt"

// Fixed replies returned without consulting retrieval or the LLM.
const (
	replyUnsupportedLanguage = "Xin lỗi, tôi không hỗ trợ ngôn ngữ này. Vui lòng sử dụng tiếng Việt hoặc tiếng Anh."
	replyInappropriate       = "Xin lỗi, tôi không thể xử lý tin nhắn chứa ngôn từ không phù hợp. Vui lòng sử dụng ngôn từ lịch sự để tôi có thể hỗ trợ bạn tốt hơn."
	replyGenericError        = "Xin lỗi, có lỗi xảy ra. Vui lòng thử lại."
)

func replyNoInformation(hotline string) string {
	return fmt.Sprintf("Xin lỗi, tôi không tìm thấy thông tin cụ thể. Vui lòng liên hệ hotline %s để được hỗ trợ.", hotline)
}

func replyUpgradingService(hotline string) string {
	return fmt.Sprintf("Dịch vụ này hiện đang được nâng cấp và chưa có giá cụ thể. Vui lòng liên hệ hotline %s để được tư vấn.", hotline)
}

func replyCookingCapacity(hotline string) string {
	return fmt.Sprintf("Dịch vụ nấu ăn chỉ hỗ trợ tối đa 8 người. Vui lòng liên hệ hotline %s để được tư vấn.", hotline)
}

// Prompt templates for LLM-backed answers.

func knowledgePrompt(context, query, hotline string) string {
	return fmt.Sprintf(`SUPPORTING DATA:
%s

USER QUESTION: %s

STRICT INSTRUCTIONS:
- Answer directly to the content, NEVER start with "Here's the answer" or "Answer:" or any introductory phrase.
- DO NOT repeat the question in the answer.
- DO NOT include any formatting like "Question:" or "Answer:" in the response.
- Rely ONLY on the data in the "SUPPORTING DATA" section above.
- Answer accurately, CONCISELY, and CLEARLY.
- If pricing calculations are needed, perform the calculations clearly.
- If no relevant information is found in the data, answer: "Please contact hotline %s for support."
- If the question is in Vietnamese, answer in Vietnamese. If in English, answer in English.

REPLY FORMAT: Just provide the direct answer without any preamble or question repetition.`, context, query, hotline)
}

func generalPrompt(query string) string {
	return fmt.Sprintf(`Answer the following question helpfully: %s
STRICT INSTRUCTIONS:
1. Answer directly to the content, briefly and clearly.
2. If the question is in Vietnamese, answer in Vietnamese. If in English, answer in English.`, query)
}
