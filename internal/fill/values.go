// File: internal/fill/values.go

// Package fill resolves values for classified fields and performs the
// widget-specific fill routines in the page, with the event emission that
// framework-driven forms require to register a change.
package fill

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

// Fixed values for roles that are not derivable from profile data.
const (
	defaultPhoneType   = "Mobile"
	defaultAddressType = "Home"
	defaultCountry     = "United States"
	// Credentials are never sourced from the profile.
	passwordPlaceholder = "N/A"
	// Used for both an absent summary and unclassified required fields, so
	// non-emptiness validators pass without inventing data.
	summaryFallback    = "Please see attached resume for details."
	neutralPlaceholder = "N/A"
)

// ValueFor resolves the text value for a role against the merged record.
// An empty return means the field should be skipped.
func ValueFor(role schemas.FieldRole, record schemas.UserRecord) string {
	info := record.PersonalInfo

	switch role {
	case schemas.RoleFirstName:
		if info.FirstName != "" {
			return info.FirstName
		}
		first, _ := splitFullName(info.FullName)
		return first
	case schemas.RoleLastName:
		if info.LastName != "" {
			return info.LastName
		}
		_, last := splitFullName(info.FullName)
		return last
	case schemas.RoleFullName:
		if info.FullName != "" {
			return info.FullName
		}
		return strings.TrimSpace(info.FirstName + " " + info.LastName)
	case schemas.RoleEmail:
		return info.Email
	case schemas.RolePhone:
		return info.Phone
	case schemas.RolePhoneType:
		return defaultPhoneType
	case schemas.RoleLogin:
		return info.Email
	case schemas.RolePassword, schemas.RolePasswordConfirm:
		return passwordPlaceholder
	case schemas.RoleAddress:
		return info.Address.Street
	case schemas.RoleAddressType:
		return defaultAddressType
	case schemas.RoleCity:
		return info.Address.City
	case schemas.RoleState:
		return info.Address.State
	case schemas.RoleZip:
		return info.Address.Zip
	case schemas.RoleCountry:
		if info.Address.Country != "" {
			return info.Address.Country
		}
		return defaultCountry
	case schemas.RoleWorkHistory:
		return formatWorkHistory(record.WorkHistory)
	case schemas.RoleEducation:
		return formatEducation(record.Education)
	case schemas.RoleEduSchool:
		return firstEducation(record.Education, func(e schemas.EducationEntry) string { return e.School })
	case schemas.RoleEduDegree:
		return firstEducation(record.Education, func(e schemas.EducationEntry) string { return e.Degree })
	case schemas.RoleEduMajor:
		return firstEducation(record.Education, func(e schemas.EducationEntry) string { return e.Major })
	case schemas.RoleEduGpa:
		return firstEducation(record.Education, func(e schemas.EducationEntry) string { return e.Gpa })
	case schemas.RoleEduStartDate:
		return firstEducation(record.Education, func(e schemas.EducationEntry) string { return e.StartDate })
	case schemas.RoleEduEndDate, schemas.RoleEduGradDate:
		return firstEducation(record.Education, func(e schemas.EducationEntry) string { return e.EndDate })
	case schemas.RoleSkills:
		return strings.Join(record.Skills, ", ")
	case schemas.RoleProjects:
		return formatProjects(record.Projects)
	case schemas.RoleCoverLetter, schemas.RoleSummary:
		if record.Summary != "" {
			return record.Summary
		}
		return summaryFallback
	case schemas.RoleResume:
		// Resume fields are file uploads, handled separately.
		return ""
	default:
		return neutralPlaceholder
	}
}

func splitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func formatWorkHistory(entries []schemas.WorkEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		end := e.EndDate
		if end == "" || strings.EqualFold(end, "present") {
			end = "Present"
		}
		block := fmt.Sprintf("%s at %s (%s - %s)", e.Title, e.Company, e.StartDate, end)
		if e.Description != "" {
			block += "\n" + e.Description
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func formatEducation(entries []schemas.EducationEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		block := fmt.Sprintf("%s in %s", e.Degree, e.Major)
		if e.Gpa != "" {
			block += fmt.Sprintf(" (GPA: %s)", e.Gpa)
		}
		block += fmt.Sprintf(" from %s (%s - %s)", e.School, e.StartDate, e.EndDate)
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func formatProjects(projects []schemas.Project) string {
	blocks := make([]string, 0, len(projects))
	for _, p := range projects {
		block := p.Name
		if len(p.Technologies) > 0 {
			block += fmt.Sprintf(" (%s)", strings.Join(p.Technologies, ", "))
		}
		if p.Description != "" {
			block += "\n" + p.Description
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func firstEducation(entries []schemas.EducationEntry, get func(schemas.EducationEntry) string) string {
	if len(entries) == 0 {
		return ""
	}
	return get(entries[0])
}

var usDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// NormalizeDate converts MM/DD/YYYY input to the YYYY-MM-DD form native date
// inputs require. Anything else passes through unchanged.
func NormalizeDate(value string) string {
	m := usDateRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return value
	}
	pad := func(s string) string {
		if len(s) == 1 {
			return "0" + s
		}
		return s
	}
	return m[3] + "-" + pad(m[1]) + "-" + pad(m[2])
}
