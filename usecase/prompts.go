package usecase

import "fmt"

const descriptionPromptTemplate = `You are about to do a 1-on-1 roleplay conversation with a student who is trying to learn the language of %[1]s.
The title of the roleplay is %[2]s.
Generate a detailed description of the scenario for the roleplay.
Include ideas about the setting, storyline, topics covered, and other details that would be helpful for the roleplay.
This will form a key part of the input to the AI voice agent that will actually perform the roleplay.
Return the description only. Do not include any other text. Do not use markdown. Use plain text. Do not exceed 100 words.
`

const openingPromptTemplate = `You are about to do a 1-on-1 roleplay conversation with a student who is trying to learn the language of %[1]s.
The title of the roleplay is %[2]s.
The description of the scenario is:
%[3]s

1. Generate the first line of speech the AI roleplay character would say to kick the roleplay off. Write in %[1]s.
This must be a single question. Do not include any other text. Do not use markdown. Keep it short. It must be written in %[1]s.
Surround it with <question> and </question> tags.

2. Generate an image of the roleplay scenario. This will serve as the background for the roleplay.
`

func descriptionPrompt(roleplayName, language string) string {
	return fmt.Sprintf(descriptionPromptTemplate, language, roleplayName)
}

func openingPrompt(roleplayName, scenario, language string) string {
	return fmt.Sprintf(openingPromptTemplate, language, roleplayName, scenario)
}
