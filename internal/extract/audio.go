package extract

import (
	"QuizSolver/internal/domain"
)

// TranscriptionInstruction is handed to the generic pathway alongside
// the resolved audio URL; no transcription capability exists in-core.
const TranscriptionInstruction = "Listen to the audio file and transcribe the spoken passphrase including the 3-digit code."

// AudioExtractor never produces a final answer; it only resolves the
// audio resource URL so the generic pathway can carry it as context.
type AudioExtractor struct{}

// ResolveURL joins the classified audio path against the quiz URL.
// Returns the empty string when the classifier found no path.
func (AudioExtractor) ResolveURL(task domain.TaskDescriptor, page domain.QuizPage) string {
	return resolveURL(page.URL, task.Param(domain.ParamFilePath))
}
