// File: internal/fill/values_test.go
package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

func sampleRecord() schemas.UserRecord {
	return schemas.UserRecord{
		PersonalInfo: schemas.PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "555-0100",
			Address: schemas.Address{
				Street: "1 Main St", City: "Austin", State: "TX", Zip: "78701",
			},
		},
		WorkHistory: []schemas.WorkEntry{
			{Title: "Engineer", Company: "Acme", StartDate: "2020-01", EndDate: "present", Description: "Built things."},
			{Title: "Intern", Company: "初创", StartDate: "2019-06", EndDate: "2019-09"},
		},
		Education: []schemas.EducationEntry{
			{School: "State University", Degree: "BS", Major: "CS", Gpa: "3.8", StartDate: "2015", EndDate: "2019"},
		},
		Skills:   []string{"Go", "SQL", "Kubernetes"},
		Projects: []schemas.Project{{Name: "Tracker", Technologies: []string{"Go", "Postgres"}, Description: "A tracker."}},
		Summary:  "Seasoned engineer.",
	}
}

func TestValueForIdentityRoles(t *testing.T) {
	record := sampleRecord()

	assert.Equal(t, "Jane", ValueFor(schemas.RoleFirstName, record))
	assert.Equal(t, "Doe", ValueFor(schemas.RoleLastName, record))
	assert.Equal(t, "Jane Doe", ValueFor(schemas.RoleFullName, record))
	assert.Equal(t, "jane@example.com", ValueFor(schemas.RoleEmail, record))
	assert.Equal(t, "555-0100", ValueFor(schemas.RolePhone, record))
}

func TestValueForNameSplitFromFullName(t *testing.T) {
	record := schemas.UserRecord{
		PersonalInfo: schemas.PersonalInfo{FullName: "Mary Jane Watson"},
	}

	assert.Equal(t, "Mary", ValueFor(schemas.RoleFirstName, record))
	assert.Equal(t, "Jane Watson", ValueFor(schemas.RoleLastName, record))
}

func TestValueForFixedDefaults(t *testing.T) {
	record := sampleRecord()

	assert.Equal(t, "Mobile", ValueFor(schemas.RolePhoneType, record))
	assert.Equal(t, "Home", ValueFor(schemas.RoleAddressType, record))
	assert.Equal(t, "N/A", ValueFor(schemas.RolePassword, record))
	assert.Equal(t, "N/A", ValueFor(schemas.RolePasswordConfirm, record))
	assert.Equal(t, "jane@example.com", ValueFor(schemas.RoleLogin, record))
	// Country falls back when the address omits it.
	assert.Equal(t, "United States", ValueFor(schemas.RoleCountry, record))
}

func TestValueForWorkHistoryFormatting(t *testing.T) {
	got := ValueFor(schemas.RoleWorkHistory, sampleRecord())

	expected := "Engineer at Acme (2020-01 - Present)\nBuilt things.\n\nIntern at 初创 (2019-06 - 2019-09)"
	assert.Equal(t, expected, got)
}

func TestValueForEducationFormatting(t *testing.T) {
	record := sampleRecord()

	assert.Equal(t, "BS in CS (GPA: 3.8) from State University (2015 - 2019)", ValueFor(schemas.RoleEducation, record))
	assert.Equal(t, "State University", ValueFor(schemas.RoleEduSchool, record))
	assert.Equal(t, "BS", ValueFor(schemas.RoleEduDegree, record))
	assert.Equal(t, "CS", ValueFor(schemas.RoleEduMajor, record))
	assert.Equal(t, "3.8", ValueFor(schemas.RoleEduGpa, record))
	assert.Equal(t, "2015", ValueFor(schemas.RoleEduStartDate, record))
	assert.Equal(t, "2019", ValueFor(schemas.RoleEduEndDate, record))
	assert.Equal(t, "2019", ValueFor(schemas.RoleEduGradDate, record))
}

func TestValueForListsAndProjects(t *testing.T) {
	record := sampleRecord()

	assert.Equal(t, "Go, SQL, Kubernetes", ValueFor(schemas.RoleSkills, record))
	assert.Equal(t, "Tracker (Go, Postgres)\nA tracker.", ValueFor(schemas.RoleProjects, record))
}

func TestValueForSummaryAndFallbacks(t *testing.T) {
	record := sampleRecord()
	assert.Equal(t, "Seasoned engineer.", ValueFor(schemas.RoleSummary, record))
	assert.Equal(t, "Seasoned engineer.", ValueFor(schemas.RoleCoverLetter, record))

	record.Summary = ""
	assert.Equal(t, "Please see attached resume for details.", ValueFor(schemas.RoleCoverLetter, record))

	// Unclassified fields still get a non-empty neutral value.
	assert.Equal(t, "N/A", ValueFor(schemas.RoleOther, record))
	// Resume fields are file uploads, not text.
	assert.Empty(t, ValueFor(schemas.RoleResume, record))
}

func TestValueForEmptyEducation(t *testing.T) {
	record := schemas.UserRecord{}
	assert.Empty(t, ValueFor(schemas.RoleEduSchool, record))
	assert.Empty(t, ValueFor(schemas.RoleEducation, record))
}

func TestNormalizeDate(t *testing.T) {
	testCases := []struct {
		in, expected string
	}{
		{"05/09/2024", "2024-05-09"},
		{"5/9/2024", "2024-05-09"},
		{"12/31/1999", "1999-12-31"},
		{"2024-05-09", "2024-05-09"},
		{"May 2024", "May 2024"},
		{"", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NormalizeDate(tc.in), "input %q", tc.in)
	}
}
