package prompt

import "fmt"

// maxContentChars batas konten yang dikirim ke model per item.
const maxContentChars = 4000

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior threat intelligence analyst assessing leaked content found on public paste sites. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- vulnerability_score is a number from 0 to 100: how damaging this content is if it belongs to the monitored organization (working credentials, bulk PII, internal data score high; public or junk content scores low).
- alerts must be exactly one of: LOW, MEDIUM, HIGH.
- signals lists the concrete indicators you relied on (e.g. "plaintext passwords", "student identity numbers", "database dump header").
- Keep summary under 2 sentences and rationale under 4 sentences.
- Be conservative: if the content looks fabricated, truncated, or already public, lower the score and say so in the rationale.

Schema (example with empty values):
{
  "vulnerability_score": 0,
  "summary": "<string>",
  "rationale": "<string>",
  "alerts": "<LOW|MEDIUM|HIGH>",
  "signals": ["<string>"]
}`
}

// GetUserPrompt bungkus satu item temuan jadi prompt penilaian.
func GetUserPrompt(url, timestamp, content string) string {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return fmt.Sprintf(`Assess the following content discovered at %s (first seen %s).

--- BEGIN CONTENT ---
%s
--- END CONTENT ---

Return the JSON object now.`, url, timestamp, content)
}
