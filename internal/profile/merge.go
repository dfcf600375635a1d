// File: internal/profile/merge.go

// Package profile assembles the user record consumed at fill time: a static
// identity profile combined with the career sections parsed from the current
// tailored resume.
package profile

import (
	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

// Merge combines the static profile with the parsed resume sections into one
// record. Identity always comes from the profile; each career section comes
// from the resume when it is non-empty, otherwise the profile's baseline is
// kept. An empty parsed section never blanks out a populated baseline.
//
// Merge must run fresh for every fill operation. The dynamic sections differ
// per target job, so the result is never reused across applications.
func Merge(staticProfile schemas.Profile, parsed schemas.ResumeSections) schemas.UserRecord {
	record := schemas.UserRecord{
		PersonalInfo: staticProfile.PersonalInfo,
		WorkHistory:  staticProfile.WorkHistory,
		Education:    staticProfile.Education,
		Skills:       staticProfile.Skills,
		Projects:     staticProfile.Projects,
		Summary:      staticProfile.Summary,
	}

	if len(parsed.WorkHistory) > 0 {
		record.WorkHistory = parsed.WorkHistory
	}
	if len(parsed.Education) > 0 {
		record.Education = parsed.Education
	}
	if len(parsed.Skills) > 0 {
		record.Skills = parsed.Skills
	}
	if len(parsed.Projects) > 0 {
		record.Projects = parsed.Projects
	}
	if parsed.Summary != "" {
		record.Summary = parsed.Summary
	}

	return record
}

// BackfillIdentity fills identity fields the static profile left empty from
// locally extracted resume info. A populated profile field always wins.
func BackfillIdentity(info *schemas.PersonalInfo, extracted schemas.PersonalInfo) {
	if info.FirstName == "" {
		info.FirstName = extracted.FirstName
	}
	if info.LastName == "" {
		info.LastName = extracted.LastName
	}
	if info.FullName == "" {
		info.FullName = extracted.FullName
	}
	if info.Email == "" {
		info.Email = extracted.Email
	}
	if info.Phone == "" {
		info.Phone = extracted.Phone
	}
}
