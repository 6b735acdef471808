package letters

import (
	_ "embed"
	"strings"
	"text/template"
	"time"
)

// DateLayout renders dates as "Jan 02, 2006".
const DateLayout = "Jan 02, 2006"

var (
	//go:embed prompts/cover_letter.txt
	coverLetterPrompt string

	promptTmpl = template.Must(template.New("cover_letter").Parse(coverLetterPrompt))
)

type promptData struct {
	Date           string
	JobDescription string
	Resume         string
}

// BuildPrompt renders the cover letter instruction with the date, the job
// description and the resume, in that order. Field values are inserted verbatim.
func BuildPrompt(jobDescription, resume string, now time.Time) string {
	var b strings.Builder
	// Executing a parsed template over string fields into a Builder cannot fail.
	_ = promptTmpl.Execute(&b, promptData{
		Date:           now.Format(DateLayout),
		JobDescription: jobDescription,
		Resume:         resume,
	})
	return b.String()
}
