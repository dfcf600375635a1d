// File: api/schemas/profile.go
package schemas

// -- Applicant Profile Schemas --

// Address is the postal address block of the static profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// PersonalInfo is the identity portion of the profile. It is sourced
// exclusively from the static profile store and never from a parsed resume.
type PersonalInfo struct {
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	FullName  string  `json:"fullName,omitempty"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Address   Address `json:"address"`
}

// WorkEntry is one position in the applicant's work history. EndDate is the
// literal string "present" (any case) for a current position.
type WorkEntry struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is one degree or program.
type EducationEntry struct {
	School    string `json:"school,omitempty"`
	Degree    string `json:"degree,omitempty"`
	Major     string `json:"major,omitempty"`
	Gpa       string `json:"gpa,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Project is one portfolio project.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// ResumeSections holds the career content parsed out of a resume. These
// sections are tailored per application and replace the corresponding static
// profile sections wholesale on every fill operation.
type ResumeSections struct {
	WorkHistory []WorkEntry      `json:"workHistory,omitempty"`
	Education   []EducationEntry `json:"education,omitempty"`
	Skills      []string         `json:"skills,omitempty"`
	Projects    []Project        `json:"projects,omitempty"`
	Summary     string           `json:"summary,omitempty"`
}

// Profile is the shape served by the static profile store: identity plus a
// baseline set of career sections used as fallback when a parsed resume is
// missing a section.
type Profile struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	ResumeSections
}

// UserRecord is the merged record the fill dispatcher resolves values from.
// PersonalInfo comes from the static profile; the career sections come from
// the current tailored resume, falling back to the profile's baseline when the
// resume omits a section.
type UserRecord struct {
	PersonalInfo PersonalInfo     `json:"personalInfo"`
	WorkHistory  []WorkEntry      `json:"workHistory,omitempty"`
	Education    []EducationEntry `json:"education,omitempty"`
	Skills       []string         `json:"skills,omitempty"`
	Projects     []Project        `json:"projects,omitempty"`
	Summary      string           `json:"summary,omitempty"`
}

// ResumeFormat tags the syntax of a resume payload sent to the parser.
type ResumeFormat string

const (
	ResumeFormatText  ResumeFormat = "text"
	ResumeFormatLatex ResumeFormat = "latex"
)
