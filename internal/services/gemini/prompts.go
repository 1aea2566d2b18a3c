package gemini

import "fmt"

// SummaryPrompt asks for a narrative recap of a session transcript.
func SummaryPrompt(transcript string) string {
	return fmt.Sprintf(
		"The following is a transcript of a tabletop roleplaying session. "+
			"Write a summary of around 200 words covering the key events, "+
			"decisions, and encounters, written in the past tense. Do not "+
			"include timestamps or speaker attributions.\n\n%s", transcript)
}

// ChaptersPrompt asks for a timestamped chapter list.
func ChaptersPrompt(transcript string) string {
	return fmt.Sprintf(
		"The following is a time-coded transcript of a tabletop roleplaying "+
			"session. Divide the session into 5 chapters. For each chapter "+
			"output one line in the form HH:MM:SS - Chapter title, using "+
			"timestamps that appear in the transcript.\n\n%s", transcript)
}

// SubtitlePrompt asks for a short episode subtitle based on a summary.
func SubtitlePrompt(summary string) string {
	return fmt.Sprintf(
		"Based on the following session summary, write a single podcast "+
			"episode subtitle of at most 50 characters. Output only the "+
			"subtitle with no quotes.\n\n%s", summary)
}
