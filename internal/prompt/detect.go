package prompt

// DetectionPrompt instructs the vision model to return a bare JSON array of
// waste items. The bin descriptions it returns are placeholders: the enricher
// replaces them with dedicated per-item calls.
const DetectionPrompt = `Analyze this image and identify ALL visible waste items. ` +
	`For each waste item you can see, identify the item, estimate your confidence (0-100), ` +
	`provide its specific disposal method (be detailed and specific), 2-3 helpful disposal tips, describe its location in the image, ` +
	`and determine if it's reusable for crafting (true/false). ` +
	`Respond with ONLY a valid JSON array containing ALL waste items visible in the image (up to 5 items maximum). ` +
	`Each item should have: name, confidence (number), binDescription, tips (array), location (string), and isReusable (boolean). ` +
	`IMPORTANT: For binDescription, you MUST be very specific and detailed. DO NOT use generic terms like 'Recycling Bin'. Instead use specific descriptions like: ` +
	`- For medicine/pills: 'Household Hazardous Waste or designated pharmaceutical waste disposal' ` +
	`- For plastic bottles: 'Blue recycling bin for plastics or plastic bottle bank' ` +
	`- For electronics: 'Special electronics recycling facility or e-waste collection point' ` +
	`- For glass: 'Glass recycling bin or bottle bank for glass containers' ` +
	`- For batteries: 'Battery recycling collection point or hazardous waste facility' ` +
	`- For paper: 'Paper recycling bin or mixed paper collection' ` +
	`- For organic waste: 'Green waste bin for organic materials or compost bin' ` +
	`Example format: [{"name": "Medicine blister pack", "confidence": 90, "binDescription": "Household Hazardous Waste or designated pharmaceutical waste disposal", "tips": ["Do not flush medication down the toilet", "Check with your local pharmacy for proper disposal"], "location": "center", "isReusable": false}]. ` +
	`Include location descriptions like 'top left', 'center', 'bottom right', etc.`
