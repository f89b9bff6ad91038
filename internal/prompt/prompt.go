// Package prompt formats the instructions sent to the generative model.
package prompt

import (
	"fmt"
	"strings"
)

const questionTemplate = `You are an AI trained to generate technical interview questions for a %[1]s position.

Candidate Experience: %[2]s years
Focus Topics: %[3]s
Number of Questions: %[4]d

INSTRUCTIONS:
1. Generate exactly %[4]d interview questions based on the role and topics provided.
2. Return ONLY a simple numbered list of questions.
3. Each question should be on its own line, starting with a number and period.
4. Do NOT include any additional text, explanations, or formatting.
5. Ensure each question is clear, concise, and relevant to the role and topics.

REQUIRED FORMAT:
1. Question 1 here
2. Question 2 here
3. Question 3 here
... and so on for %[4]d questions

EXAMPLE:
1. What is the difference between let, const, and var in JavaScript?
2. Explain how prototypal inheritance works in JavaScript.
3. What are closures and how would you use them?

IMPORTANT: Your response must be EXACTLY %[4]d questions, nothing more, nothing less.`

const explanationTemplate = `You are an AI trained to explain technical interview concepts clearly.

Task:
Explain the following concept: "%[1]s"
Audience level: %[2]s
Write the explanation in %[3]s.
%[4]s
Your response must follow this markdown format:

# [Concept Title]

## Explanation
[2-3 sentences that clearly explain the core concept]

## Key Points
- [3-5 bullet points]

## Code Example
[A short, commented code example that demonstrates the concept]

## Real-world Analogy
[A clear, relatable analogy]

Keep the explanation focused, match the depth to the audience level, and return markdown only, not JSON.`

// BuildQuestionPrompt embeds role, experience, topics and count verbatim.
func BuildQuestionPrompt(role, experience, topics string, count int) string {
	return fmt.Sprintf(questionTemplate, role, experience, topics, count)
}

// BuildExplanationPrompt embeds the concept and options verbatim. An empty context adds no section.
func BuildExplanationPrompt(concept, difficulty, language, context string) string {
	var extra string
	if c := strings.TrimSpace(context); c != "" {
		extra = fmt.Sprintf("\nAdditional context from the candidate:\n%s\n", c)
	}
	return fmt.Sprintf(explanationTemplate, concept, difficulty, language, extra)
}
