package mcpserver

// PayloadContract describes the JSON documents returned by get_diet_plan and
// get_timeline.
const PayloadContract = `# MomWise Payload Format

## Diet plan (get_diet_plan)

` + "```" + `json
{
  "weekNumber": 12,
  "dailyPlans": [
    {
      "breakfast": {"title": "...", "description": "...", "nutrients": {"protein": "15g"}},
      "lunch":     {"title": "...", "description": "..."},
      "dinner":    {"title": "...", "description": "..."},
      "snacks":    ["...", "..."]
    }
  ]
}
` + "```" + `

- dailyPlans holds seven entries, Monday through Sunday.
- nutrients is optional.

## Timeline (get_timeline)

` + "```" + `json
{
  "babyDevelopment": {"size": "...", "compareTo": "a lemon", "description": "..."},
  "motherChanges": {"physical": ["..."], "hormonal": ["..."]},
  "tipsForWeek": ["..."],
  "importantNotes": "..."
}
` + "```" + `

When the model's answer cannot be read, a generic placeholder document with
the same shape is returned ("Information not available").

Results are cached per user and week. Pass regenerate=true to replace them.
`
