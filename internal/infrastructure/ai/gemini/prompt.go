package gemini

func buildDocumentPrompt() string {
	return `Analyze the entire attached document.
Return a single JSON object with keys:
summary (string), key_insights (array of strings), sections (array of strings), entities (array of strings), sentiment (string), category (string).

Rules:
- Use only document content
- Do NOT add external knowledge
- If information is missing, mark it as null
- Output valid JSON only, no markdown fences`
}

func buildTextPrompt(text string) string {
	const maxSnippet = 30000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return `You are an expert document analyst. Analyze the document text below.
Return a single JSON object with keys:
summary (string), key_insights (array of strings), sections (array of strings), entities (array of strings), sentiment (string), category (string).

Rules:
- Use only document content
- Do NOT add external knowledge
- If information is missing, mark it as null
- Output valid JSON only, no markdown fences

Document text:
` + snippet
}
