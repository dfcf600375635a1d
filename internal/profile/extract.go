// File: internal/profile/extract.go
package profile

import (
	"regexp"
	"strings"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

var (
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe = regexp.MustCompile(`[\d\s\-\(\)\+]{10,}`)
	nameRe  = regexp.MustCompile(`^[A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z.]+)+`)
)

// ExtractBasicInfo is the local fallback when the remote resume parser is
// unavailable. It recovers the email address, a phone-like digit run, and a
// capitalized name from the first line of the resume text. Career sections
// stay empty so the merge keeps the static profile's baseline.
func ExtractBasicInfo(resumeText string) (schemas.PersonalInfo, schemas.ResumeSections) {
	var info schemas.PersonalInfo

	if m := emailRe.FindString(resumeText); m != "" {
		info.Email = m
	}
	if m := strings.TrimSpace(phoneRe.FindString(resumeText)); m != "" {
		info.Phone = m
	}

	firstLine := resumeText
	if idx := strings.IndexByte(resumeText, '\n'); idx >= 0 {
		firstLine = resumeText[:idx]
	}
	if m := nameRe.FindString(strings.TrimSpace(firstLine)); m != "" {
		info.FullName = m
		parts := strings.Fields(m)
		info.FirstName = parts[0]
		info.LastName = strings.Join(parts[1:], " ")
	}

	return info, schemas.ResumeSections{}
}
