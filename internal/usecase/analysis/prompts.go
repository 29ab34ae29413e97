package analysis

import (
	"bytes"
	"text/template"
)

var contentPrompt = template.Must(template.New("content").Parse(`
Analyze this meeting transcript and extract the following information:

TRANSCRIPT:
{{.}}

Please provide a JSON response with the following structure:
{
  "summary": {
    "executive": "One sentence executive summary",
    "keyPoints": ["Key point 1", "Key point 2", "Key point 3"],
    "topics": ["Topic 1", "Topic 2", "Topic 3"]
  },
  "actionItems": [
    {
      "id": "action-1",
      "task": "Specific task description",
      "assignee": "Person responsible",
      "deadline": "When it's due",
      "priority": "high|medium|low",
      "context": "Additional context",
      "confidence": 0.95
    }
  ],
  "decisions": [
    {
      "id": "decision-1",
      "decision": "What was decided",
      "category": "strategic|operational|technical",
      "confidence": "high|medium|low",
      "context": "Context of the decision",
      "participants": ["Person1", "Person2"]
    }
  ]
}

Focus on:
1. Clear, actionable tasks with specific assignees
2. Important decisions made during the meeting
3. Key topics discussed
4. Executive summary that captures the essence
`))

var sentimentPrompt = template.Must(template.New("sentiment").Parse(`
Analyze the sentiment and engagement in this meeting transcript:

{{.}}

Provide a JSON response with:
{
  "overall": {
    "sentiment": "positive|neutral|negative",
    "score": 0.75,
    "confidence": 0.9
  },
  "speakers": {
    "Speaker1": {
      "averageSentiment": 0.8,
      "engagement": 0.85,
      "dominance": 30
    }
  }
}
`))

func renderPrompt(t *template.Template, transcript string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, transcript); err != nil {
		return "", err
	}
	return buf.String(), nil
}
