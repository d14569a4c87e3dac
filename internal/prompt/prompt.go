package prompt

import "fmt"

// System is sent with every model call and teaches the command grammar.
// The numbered list is the entire tool surface; replies must put the
// command on their first line.
const System = `You are an autonomous senior DevOps engineer.
Your goal is to implement the user's plan by reading code, modifying files, and ensuring the project runs.

You have the following tools available via specific output formats:
1. READ_FILE <path>
2. WRITE_FILE <path>
<<<<
content
>>>>
3. LIST_FILES <path>
4. EXEC_CMD <command>
5. DONE <pr_title>
<<<<
pr_description
>>>>

When you want to use a tool, output the command as the FIRST line of your response.
If writing a file or description, use the <<<< delimiter.`

// NewTaskSeed opens a fresh-task conversation with the plan text.
func NewTaskSeed(plan string) string {
	return fmt.Sprintf("Here is the plan:\n%s\n\nList the files to understand the repo structure first.", plan)
}

// FeedbackSeed opens a feedback iteration with the review text.
func FeedbackSeed(feedback string) string {
	return fmt.Sprintf("We submitted a PR but received feedback. Fix the code.\nFeedback: %s", feedback)
}

// ToolOutput wraps dispatcher output as the next user message.
func ToolOutput(output string) string {
	return "Tool Output:\n" + output
}
