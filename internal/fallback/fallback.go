// Package fallback provides template interview questions used when the model cannot answer.
package fallback

import "strings"

var templates = []string{
	"What are the key responsibilities of a {role}?",
	"How does your {experience} years of experience prepare you for this {role} role?",
	"What are the most important skills for a {role} to have?",
	"How do you stay updated with the latest trends in {topics} as a {role}?",
	"Can you describe a challenging {topics} project you worked on as a {role}?",
	"What tools and technologies are you most proficient with as a {role}?",
	"How do you approach problem-solving with {topics} in your work as a {role}?",
	"What experience do you have with {topics} in a professional {role} setting?",
	"How would you, as a {role}, explain {topics} to someone who is not technical?",
	"What are some common challenges a {role} faces when working with {topics}?",
}

// Size is the number of templates in the bank.
func Size() int {
	return len(templates)
}

// Questions returns min(count, Size()) questions, each naming the role.
func Questions(role, experience, topics string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	if count > len(templates) {
		count = len(templates)
	}
	r := strings.NewReplacer("{role}", role, "{experience}", experience, "{topics}", topics)
	out := make([]string, 0, count)
	for _, tmpl := range templates[:count] {
		out = append(out, r.Replace(tmpl))
	}
	return out
}
