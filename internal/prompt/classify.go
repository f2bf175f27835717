package prompt

import "fmt"

// BuildClassificationPrompt asks the model to split already-detected objects
// into actual waste versus still-useful items. itemsJSON is the serialized
// input list.
func BuildClassificationPrompt(itemsJSON string) string {
	return fmt.Sprintf(`You are a waste classification expert. Analyze the following detected objects and determine if they are actual waste (items that should be disposed of or recycled) or useful objects (items that are still functional and valuable).

Detected items: %s

For each item, respond with a JSON object containing:
- name: the item name
- confidence: the original confidence score
- is_waste: true if it's actual waste, false if it's a useful object
- reasoning: brief explanation of your classification

Consider:
- Waste: bottles, cans, wrappers, broken items, expired food, disposable items
- Useful objects: phones, laptops, books, furniture, clothing, tools, electronics

Return only the JSON array of classified items.`, itemsJSON)
}
