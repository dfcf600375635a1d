// File: internal/classify/classify.go

// Package classify infers the semantic role of a form field from its weak
// textual signals. There is no canonical taxonomy across third-party
// application forms, so classification is an ordered rule table over keyword
// matches; order matters because several triggers are substrings of others.
package classify

import (
	"strings"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

// rule is one prioritized classification heuristic. Rules are evaluated in
// slice order and the first match wins.
type rule struct {
	role  schemas.FieldRole
	match func(haystack string, kind schemas.FieldKind) bool
}

func has(haystack string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

func hasAll(haystack string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

// rules is ordered most-specific first where it matters: "confirm password"
// must beat plain "password" and "first"+"name" must beat generic name
// handling. The phone rule deliberately precedes "phone type", so that
// phrase classifies as phone; phoneType is reachable only when a role is
// assigned out of band, as by remote analysis.
var rules = []rule{
	{schemas.RoleEmail, func(h string, k schemas.FieldKind) bool {
		return k == schemas.KindEmail || has(h, "email")
	}},
	{schemas.RolePhone, func(h string, k schemas.FieldKind) bool {
		return k == schemas.KindTel || has(h, "phone", "mobile")
	}},
	{schemas.RolePhoneType, func(h string, k schemas.FieldKind) bool {
		return has(h, "phone type")
	}},
	{schemas.RoleLogin, func(h string, k schemas.FieldKind) bool {
		return has(h, "username", "login")
	}},
	{schemas.RolePasswordConfirm, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "password", "confirm")
	}},
	{schemas.RolePassword, func(h string, k schemas.FieldKind) bool {
		return has(h, "password")
	}},
	{schemas.RoleFirstName, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "first", "name") || has(h, "fname")
	}},
	{schemas.RoleLastName, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "last", "name") || has(h, "lname", "surname")
	}},
	{schemas.RoleFullName, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "full", "name")
	}},
	{schemas.RoleAddressType, func(h string, k schemas.FieldKind) bool {
		return has(h, "address type")
	}},
	{schemas.RoleAddress, func(h string, k schemas.FieldKind) bool {
		return has(h, "address", "street")
	}},
	{schemas.RoleCity, func(h string, k schemas.FieldKind) bool {
		return has(h, "city")
	}},
	{schemas.RoleState, func(h string, k schemas.FieldKind) bool {
		return has(h, "state", "province")
	}},
	{schemas.RoleZip, func(h string, k schemas.FieldKind) bool {
		return has(h, "zip", "postal", "postcode")
	}},
	{schemas.RoleCountry, func(h string, k schemas.FieldKind) bool {
		return has(h, "country")
	}},
	{schemas.RoleResume, func(h string, k schemas.FieldKind) bool {
		return has(h, "resume", "cv", "curriculum")
	}},
	{schemas.RoleCoverLetter, func(h string, k schemas.FieldKind) bool {
		return has(h, "cover", "letter", "motivation")
	}},
	{schemas.RoleWorkHistory, func(h string, k schemas.FieldKind) bool {
		return has(h, "work", "experience", "employment")
	}},
	{schemas.RoleEduSchool, func(h string, k schemas.FieldKind) bool {
		return has(h, "school", "university", "college")
	}},
	{schemas.RoleEduDegree, func(h string, k schemas.FieldKind) bool {
		return has(h, "degree")
	}},
	{schemas.RoleEduMajor, func(h string, k schemas.FieldKind) bool {
		return has(h, "major", "field of study")
	}},
	{schemas.RoleEduGpa, func(h string, k schemas.FieldKind) bool {
		return has(h, "gpa")
	}},
	{schemas.RoleEduStartDate, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "start", "date")
	}},
	{schemas.RoleEduEndDate, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "end", "date")
	}},
	{schemas.RoleEduGradDate, func(h string, k schemas.FieldKind) bool {
		return hasAll(h, "graduation", "date")
	}},
	{schemas.RoleEducation, func(h string, k schemas.FieldKind) bool {
		return has(h, "education", "qualification")
	}},
	{schemas.RoleSkills, func(h string, k schemas.FieldKind) bool {
		return has(h, "skill")
	}},
	{schemas.RoleProjects, func(h string, k schemas.FieldKind) bool {
		return has(h, "project")
	}},
	{schemas.RoleSummary, func(h string, k schemas.FieldKind) bool {
		return has(h, "summary", "about", "bio")
	}},
}

// Classify maps a field's textual signals and widget kind to a semantic
// role. The four signals are lower-cased and concatenated into a single
// haystack; RoleOther is the expected outcome when nothing matches.
func Classify(name, label, placeholder, ariaLabel string, kind schemas.FieldKind) schemas.FieldRole {
	haystack := strings.ToLower(name + " " + label + " " + placeholder + " " + ariaLabel)
	for _, r := range rules {
		if r.match(haystack, kind) {
			return r.role
		}
	}
	return schemas.RoleOther
}

// ClassifySnapshot classifies a raw element snapshot using its harvested
// signals.
func ClassifySnapshot(snap schemas.ElementSnapshot, kind schemas.FieldKind) schemas.FieldRole {
	return Classify(snap.Name, snap.Label, snap.Placeholder, snap.AriaLabel, kind)
}
