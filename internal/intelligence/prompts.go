package intelligence

import (
	"fmt"
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

// templateSkeleton is the markdown layout the model fills in for fullTemplate.
const templateSkeleton = `# [Project Name]

## Project Summary and Tech Stack

**Purpose:**
[What the app does, which problem it solves, who it is for]

**File structure:**
- src/components/common/
- src/components/screens/
- src/services/
- src/context/
- src/utils/
- src/assets/

**Tech stack:**
- React Native
- React Navigation
- Firebase Auth
- Firestore
- AsyncStorage
- React Native Paper

---

**Project Status Tracking**

This file tracks the project's to-do list and progress.

**Instructions for the AI assistant:**
- Read the summary and tech stack above to understand the goal and the tools in use.
- Use the task list below as the reference for what to build.
- When a task is finished, change its [ ] marker to [x].
- Record notable changes in the Development Log below with a date.
- Log format: YYYY-MM-DD: description of the completed task or change.
- Save this file after every update.
- Keep the code modular so it can grow.

---

## To-Do List

### Phase 1: Foundation (1-2 weeks)
- [ ] Project setup and dependency management
- [ ] Navigation structure (stack + bottom tabs)
- [ ] Firebase project setup and config
- [ ] Authentication flow (sign-in/sign-up screens)
- [ ] Core UI components
- [ ] Base screen layouts

### Phase 2: Core Features (2-3 weeks)
- [ ] [Core feature 1]
- [ ] [Core feature 2]
- [ ] [Core feature 3]
- [ ] Firestore CRUD operations
- [ ] Form validation
- [ ] Error handling

### Phase 3: Polish (1 week)
- [ ] UI/UX improvements
- [ ] Performance tuning
- [ ] Tests
- [ ] App store preparation
- [ ] Final checks

---

## Development Log (maintained by the AI)

*Just getting started. Progress entries will appear here.*`

const readyShape = `{
  "isComplete": true,
  "message": "Your template is ready!",
  "template": {
    "title": "[Project name]",
    "description": "[Short description]",
    "category": "[Category]",
    "fullTemplate": "[Markdown template]"
  }
}`

func firstQuestionPrompt(idea string) string {
	return fmt.Sprintf(`The user shared this mobile app idea: %q

If the idea is detailed (10+ words), create the template right away.
If it is very short (3-5 words), ask one short question.

Reply in JSON.

For a detailed idea:
%s

For a short idea:
{
  "isComplete": false,
  "message": "[One question]"
}

Template format:
%s
`, idea, readyShape, templateSkeleton)
}

func processResponsePrompt(idea string, history []domain.Message) string {
	return fmt.Sprintf(`Original idea: %q
Conversation:
%s

There is enough information now. Create the template.

Reply in JSON:
%s

Template format:
%s
`, idea, transcript(history), readyShape, templateSkeleton)
}

// transcript replays the conversation as "Role: text" lines. Prediction
// summaries are not part of the acquisition dialogue and are skipped.
func transcript(history []domain.Message) string {
	var b strings.Builder
	for _, m := range history {
		if m.IsPrediction {
			continue
		}
		b.WriteString(m.Role())
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
