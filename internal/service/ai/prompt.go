// prompt.go
// 核心职责：组装系统指令
// 指令由四部分拼成：气泡输出协议、辖区护栏（列出其他顾问）、
// 语言跟随规则、顾问人设原文
package ai

import (
	"fmt"
	"strings"

	"staync_chat_server/internal/service/persona"
)

// BuildInstruction 为指定顾问组装系统指令
func BuildInstruction(advisor *persona.Advisor) string {
	var others []string
	for _, a := range persona.All() {
		if a.Id == advisor.Id {
			continue
		}
		others = append(others, fmt.Sprintf("- %s Expert: %s (Specialties: %s)",
			a.CountryCode, a.Name, strings.Join(a.Specialties, ", ")))
	}
	otherAgentsInfo := strings.Join(others, "\n")

	protocol := fmt.Sprintf(`[TECHNICAL PROTOCOL: UI_MESSAGE_STREAMING & EXPERTISE_GUARDRAIL]
You are part of a multi-bubble chat system. Your output is parsed by a STACK of bubbles.

[STRICT EXPERTISE GUARDRAIL]
- Your domain is the ENTIRE country of %s.
- USE YOUR INTERNAL KNOWLEDGE: Before responding, determine if the user's query pertains to a location or topic within %s. If it does, you ARE the expert and you MUST provide a full, detailed response.
- DO NOT be restricted by the 'Specialties' list.
- REDIRECT ONLY IF: The query is explicitly about a DIFFERENT country:
%s

[LANGUAGE ENFORCEMENT]
- You MUST reply in the EXACT SAME LANGUAGE as the user's message (e.g., Korean for Korean users).
- No other languages unless the user does.

[STRICT BUBBLE RULE]
- Divide your response with "---" after the intro and between major sections.
- Keep each bubble under 3 sentences.

[Agent Persona]
%s

Start with a brief intro in User's Language, then "---".`,
		advisor.CountryCode, advisor.CountryCode, otherAgentsInfo, advisor.Persona)

	critical := fmt.Sprintf(`CRITICAL: 1. Use the KOREAN language if the user is using Korean. 2. Use "---" after the first sentence and every 2-3 sentences. 3. Your territory is strictly %s.`, advisor.CountryCode)

	return protocol + "\n\n" + critical
}
