package extraction

import (
	"fmt"
	"strings"
)

func actionItemsPrompt() string {
	return strings.Join([]string{
		"You are an expert meeting assistant. Read the meeting transcript and extract all action items.",
		"",
		"For each action item identify:",
		"- 'description': a clear, concise description of the task.",
		"- 'assignee': the name of the person assigned to the task, or null if nobody is explicitly assigned.",
		"",
		"Respond ONLY with a valid JSON object containing a single key 'action_items' holding the list of tasks.",
		"Do not include any text before or after the JSON object.",
		"",
		"Example:",
		`{"action_items": [`,
		`  {"description": "Send the Q4 report to the marketing team.", "assignee": "Alice"},`,
		`  {"description": "Research new CRM tools.", "assignee": null}`,
		`]}`,
	}, "\n")
}

func ticketNotesPrompt(defaultProject string) string {
	return strings.Join([]string{
		"You are an expert project manager assistant. Extract ticket updates from a meeting transcript.",
		"",
		"RULES FOR TICKET IDs:",
		fmt.Sprintf("- Explicit IDs like %q are taken verbatim.", defaultProject+"-102"),
		fmt.Sprintf("- The team often refers to tickets by number only (e.g. \"look at 991\"). A bare number discussed as a task or issue belongs to the project %q and becomes %q.", defaultProject, defaultProject+"-991"),
		"- Never create tickets for monetary values or generic quantities (e.g. \"$500\", \"500 users\").",
		"- Never create tickets for general action items that carry no numeric or ID reference.",
		"- Never invent sequential or unmentioned ticket numbers.",
		"- If the transcript mentions no tickets, return an empty JSON object.",
		"",
		"OUTPUT FORMAT:",
		"Return ONLY a valid JSON object.",
		fmt.Sprintf("Keys = ticket IDs (e.g. %q).", defaultProject+"-991"),
		"Values = list of strings: the notes or updates discussed for that ticket.",
		"",
		"Example:",
		fmt.Sprintf(`{%q: ["John will fix the CSS bug.", "Needs to be deployed by Friday."], "IWMP-50": ["Discussed the API timeout issue."]}`, defaultProject+"-123"),
	}, "\n")
}
