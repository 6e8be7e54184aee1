package analysis

// Шаблоны инструкций для внешней модели. Формат ответа для ANALYSIS и REPORT -
// строгий JSON без Markdown, всё остальное отбрасывается при разборе.

const analysisPrompt = `You are a crisis response analyst. Analyze the input for disaster management.
Output Strict JSON:
{
  "type": "Incident Type",
  "severity": Number (1-10),
  "description": "Short summary",
  "location": { "address": "Approx address", "coordinates": [28.61, 77.20] },
  "breakdown": {
    "evidence_source": "Visual/Text",
    "acoustics": ["List"],
    "visual_clues": ["List"],
    "logistics_needed": ["Ambulance", "Fire"]
  },
  "action_plan": "Tactical advice."
}
DO NOT use Markdown. Just raw JSON.`

const advisoryPrompt = `You are a crisis response analyst.
Incident Details: %s
Task: Write a single, urgent, professional public safety advisory message (max 280 chars).
Output: Just the text. No quotes.`

const reportPrompt = `You are a crisis response analyst. Below is the current list of incidents as JSON:
%s
Task: Produce an operational situation report.
Output Strict JSON:
{
  "executive_summary": "2-3 sentences on the overall situation",
  "zone_analysis": [
    { "zone": "Area name", "incident_count": 1, "max_severity": 8, "summary": "Short note" }
  ],
  "recommendations": ["List of concrete actions"]
}
DO NOT use Markdown. Just raw JSON.`
