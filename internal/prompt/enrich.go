package prompt

import "fmt"

// BuildDisposalPrompt asks for a short disposal method specific to one item.
func BuildDisposalPrompt(itemName string) string {
	return fmt.Sprintf(`You are a waste management expert. For the specific waste item "%[1]s", provide a SHORT disposal method (1-2 lines maximum).

CRITICAL: Keep it concise and specific to this exact item.

EXAMPLES BY ITEM TYPE:
- For "banana peel": "Green waste bin or home composting system"
- For "plastic bottle": "Blue recycling bin or plastic bottle bank"
- For "medicine": "Household Hazardous Waste facility"
- For "battery": "Battery recycling collection point"
- For "glass bottle": "Glass recycling bin or bottle bank"
- For "paper": "Paper recycling bin"
- For "electronics": "E-waste recycling facility"
- For "food waste": "Green waste bin or composting"
- For "aluminum can": "Metal recycling bin"
- For "cardboard": "Paper recycling bin"

For "%[1]s", provide a SHORT disposal method (1-2 lines only).
Respond with ONLY the disposal method, nothing else.`, itemName)
}

// BuildEcoTipsPrompt asks for 2-3 one-line eco tips as a JSON string array.
func BuildEcoTipsPrompt(itemName string) string {
	return fmt.Sprintf(`You are an environmental expert. For the specific waste item "%[1]s", provide 2-3 SHORT eco tips (1 line each).

CRITICAL: Keep tips concise and specific to this exact item.

EXAMPLES BY ITEM TYPE:
- For "banana peel": ["Use as natural fertilizer for plants", "Add to compost bin for organic waste"]
- For "plastic bottle": ["Rinse thoroughly before recycling", "Remove cap and recycle separately"]
- For "medicine": ["Do not flush down toilet", "Check pharmacy for disposal programs"]
- For "battery": ["Never throw in regular trash", "Use battery recycling points"]
- For "glass bottle": ["Rinse before recycling", "Remove labels and caps"]
- For "paper": ["Keep clean and dry", "Remove plastic attachments"]
- For "electronics": ["Donate if working", "Use e-waste facilities"]

For "%[1]s", provide 2-3 SHORT eco tips (1 line each).
Respond with ONLY a JSON array like: ["tip 1", "tip 2"]`, itemName)
}
