// File: internal/classify/classify_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

func TestClassifyRulePriority(t *testing.T) {
	testCases := []struct {
		name        string
		fieldName   string
		label       string
		placeholder string
		ariaLabel   string
		kind        schemas.FieldKind
		expected    schemas.FieldRole
	}{
		{"email widget type alone", "contact", "", "", "", schemas.KindEmail, schemas.RoleEmail},
		{"email keyword", "user_email", "", "", "", schemas.KindText, schemas.RoleEmail},
		{"tel widget type alone", "contact", "", "", "", schemas.KindTel, schemas.RolePhone},
		{"phone keyword", "", "Phone Number", "", "", schemas.KindText, schemas.RolePhone},
		{"mobile keyword", "", "", "Mobile", "", schemas.KindText, schemas.RolePhone},
		{"phone type select still reads as phone", "", "Phone Type", "", "", schemas.KindSelect, schemas.RolePhone},
		{"login", "login", "", "", "", schemas.KindText, schemas.RoleLogin},
		{"username", "", "Username", "", "", schemas.KindText, schemas.RoleLogin},
		{"confirm beats plain password", "", "Confirm Password", "", "", schemas.KindText, schemas.RolePasswordConfirm},
		{"plain password", "password", "", "", "", schemas.KindText, schemas.RolePassword},
		{"first name", "first_name", "", "", "", schemas.KindText, schemas.RoleFirstName},
		{"fname shorthand", "fname", "", "", "", schemas.KindText, schemas.RoleFirstName},
		{"last name", "", "Last Name", "", "", schemas.KindText, schemas.RoleLastName},
		{"surname", "surname", "", "", "", schemas.KindText, schemas.RoleLastName},
		{"full name", "", "Full Name", "", "", schemas.KindText, schemas.RoleFullName},
		{"address type beats address", "", "Address Type", "", "", schemas.KindSelect, schemas.RoleAddressType},
		{"street address", "", "Street Address", "", "", schemas.KindText, schemas.RoleAddress},
		{"city", "city", "", "", "", schemas.KindText, schemas.RoleCity},
		{"state", "", "State", "", "", schemas.KindSelect, schemas.RoleState},
		{"province", "", "Province", "", "", schemas.KindText, schemas.RoleState},
		{"zip", "zip_code", "", "", "", schemas.KindText, schemas.RoleZip},
		{"postal", "", "Postal Code", "", "", schemas.KindText, schemas.RoleZip},
		{"country", "", "", "Country", "", schemas.KindSelect, schemas.RoleCountry},
		{"resume upload", "", "Upload your resume", "", "", schemas.KindFile, schemas.RoleResume},
		{"cv keyword", "cv_file", "", "", "", schemas.KindFile, schemas.RoleResume},
		{"cover letter", "", "Cover Letter", "", "", schemas.KindTextarea, schemas.RoleCoverLetter},
		{"work experience", "", "Work Experience", "", "", schemas.KindTextarea, schemas.RoleWorkHistory},
		{"employment", "employment_history", "", "", "", schemas.KindTextarea, schemas.RoleWorkHistory},
		{"school", "", "School", "", "", schemas.KindText, schemas.RoleEduSchool},
		{"university", "", "University Name", "", "", schemas.KindText, schemas.RoleEduSchool},
		{"degree", "degree", "", "", "", schemas.KindSelect, schemas.RoleEduDegree},
		{"major", "", "Major", "", "", schemas.KindText, schemas.RoleEduMajor},
		{"field of study", "", "Field of Study", "", "", schemas.KindText, schemas.RoleEduMajor},
		{"gpa", "gpa", "", "", "", schemas.KindText, schemas.RoleEduGpa},
		{"start date", "", "Start Date", "", "", schemas.KindDate, schemas.RoleEduStartDate},
		{"end date", "", "End Date", "", "", schemas.KindDate, schemas.RoleEduEndDate},
		{"education section", "", "Education", "", "", schemas.KindTextarea, schemas.RoleEducation},
		{"skills", "", "Skills", "", "", schemas.KindTextarea, schemas.RoleSkills},
		{"projects", "", "Projects", "", "", schemas.KindTextarea, schemas.RoleProjects},
		{"summary", "", "Professional Summary", "", "", schemas.KindTextarea, schemas.RoleSummary},
		{"about", "", "About you", "", "", schemas.KindTextarea, schemas.RoleSummary},
		{"no signals", "x7", "", "", "", schemas.KindText, schemas.RoleOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role := Classify(tc.fieldName, tc.label, tc.placeholder, tc.ariaLabel, tc.kind)
			assert.Equal(t, tc.expected, role)
		})
	}
}

func TestClassifyPhonePrecedesPhoneType(t *testing.T) {
	// "phone type" contains "phone" and the phone rule runs first, so the
	// phrase never reaches the phoneType rule.
	assert.Equal(t, schemas.RolePhone, Classify("", "Phone Type", "", "", schemas.KindSelect))
	assert.Equal(t, schemas.RolePhone, Classify("phone_type", "", "", "", schemas.KindText))
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 50; i++ {
		role := Classify("contact_field", "Confirm Password", "", "", schemas.KindText)
		assert.Equal(t, schemas.RolePasswordConfirm, role)
	}
}

func TestClassifyCombinesAllSignals(t *testing.T) {
	// Signals scattered across inputs still form one haystack.
	role := Classify("", "", "", "Graduation Date", schemas.KindDate)
	assert.Equal(t, schemas.RoleEduGradDate, role)
}
