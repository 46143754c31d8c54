package classifier

import "fmt"

const analysisPromptTemplate = `You are an expert business analyst. Analyze the following AI response for mentions of the business "%[1]s" and determine the sentiment.

RESPONSE TO ANALYZE:
%[2]s

BUSINESS NAME: %[1]s

IMPORTANT: You must respond with ONLY valid JSON. Do not include any other text before or after the JSON.

Respond with this exact JSON format:
{
    "business_mentioned": true/false,
    "mention_context": "exact text around the mention (if mentioned)",
    "sentiment": "positive/negative/neutral",
    "confidence_score": 0.0-1.0,
    "reasoning": "brief explanation of your analysis"
}

Rules:
1. Only mark business_mentioned as true if "%[1]s" is explicitly mentioned in the response
2. If mentioned, extract the exact text around the mention (about 100 characters before and after)
3. Sentiment should be based on how the business is described/mentioned
4. Confidence score should reflect how certain you are about the sentiment
5. Provide clear reasoning for your analysis
6. Respond with ONLY the JSON object, no other text`

// BuildPrompt renders the analysis prompt for a model response and the
// business under watch.
func BuildPrompt(response, businessName string) string {
	return fmt.Sprintf(analysisPromptTemplate, businessName, response)
}
