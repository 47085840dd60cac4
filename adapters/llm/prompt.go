package llm

import "fmt"

// fashionPromptTemplate instructs the model to turn transcribed speech
// into shopping criteria. The sample object anchors the expected shape,
// though the model may add attributes beyond it.
const fashionPromptTemplate = `Transform the following transcribed speech into a structured query for a fashion e-commerce API.
The result should be a simple JSON object that captures the key product requirements.

Guidelines:
1. For clothing items, extract: product type, color, price range if mentioned, size, and any other relevant attributes.
2. Keep descriptions concise and to the point. Never use phrases like "same as the image" or brand slogans as descriptions.
3. If the user mentions modifications to items shown in the image, make those changes explicit in the query.
4. If the user asks for the same color as a product in the image, resolve the color from the image and state it explicitly.
5. If the user mentions relative pricing (e.g. "cheap", "affordable", "expensive"), convert it to an approximate numeric price range.
6. Capture style descriptions (e.g. "casual", "formal", "vintage") as attributes.
7. If multiple items are mentioned, include them as separate entries in the "items" array.
8. Focus only on actionable shopping criteria and ignore conversational elements.

Transcribed text: %s

Return ONLY a valid JSON object with no additional explanation or text.
The JSON should be formatted as follows:
{
  "items": [
    {
      "product_type": "shirt",
      "color": "blue",
      "description": "casual blue cotton shirt",
      "price_range": {"min": 0, "max": 30}
    }
  ]
}`

// BuildFashionPrompt embeds the transcription into the query generation
// prompt
func BuildFashionPrompt(transcription string) string {
	return fmt.Sprintf(fashionPromptTemplate, transcription)
}
