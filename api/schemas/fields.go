// File: api/schemas/fields.go
package schemas

// -- Field Schemas --

// FieldKind is the syntactic widget type of a discovered field. It describes
// what the element *is* (a select, a contenteditable region), as opposed to
// FieldRole which describes what it *means*.
type FieldKind string

const (
	KindText            FieldKind = "text"
	KindEmail           FieldKind = "email"
	KindTel             FieldKind = "tel"
	KindTextarea        FieldKind = "textarea"
	KindSelect          FieldKind = "select"
	KindCombobox        FieldKind = "combobox"
	KindCheckbox        FieldKind = "checkbox"
	KindRadio           FieldKind = "radio"
	KindDate            FieldKind = "date"
	KindFile            FieldKind = "file"
	KindContentEditable FieldKind = "contenteditable"
	KindTextbox         FieldKind = "textbox"
	KindOther           FieldKind = "other"
)

// FieldRole is the inferred semantic meaning of a field. Classification is
// heuristic; RoleOther is a valid, expected outcome for fields the keyword
// rules cannot place.
type FieldRole string

const (
	RoleFirstName       FieldRole = "firstName"
	RoleLastName        FieldRole = "lastName"
	RoleFullName        FieldRole = "fullName"
	RoleEmail           FieldRole = "email"
	RolePhone           FieldRole = "phone"
	RolePhoneType       FieldRole = "phoneType"
	RoleLogin           FieldRole = "login"
	RolePassword        FieldRole = "password"
	RolePasswordConfirm FieldRole = "passwordConfirm"
	RoleAddress         FieldRole = "address"
	RoleAddressType     FieldRole = "addressType"
	RoleCity            FieldRole = "city"
	RoleState           FieldRole = "state"
	RoleZip             FieldRole = "zip"
	RoleCountry         FieldRole = "country"
	RoleResume          FieldRole = "resume"
	RoleCoverLetter     FieldRole = "coverLetter"
	RoleWorkHistory     FieldRole = "workHistory"
	RoleEduSchool       FieldRole = "educationSchool"
	RoleEduDegree       FieldRole = "educationDegree"
	RoleEduMajor        FieldRole = "educationMajor"
	RoleEduGpa          FieldRole = "educationGpa"
	RoleEduStartDate    FieldRole = "educationStartDate"
	RoleEduEndDate      FieldRole = "educationEndDate"
	RoleEduGradDate     FieldRole = "educationGradDate"
	RoleEducation       FieldRole = "education"
	RoleSkills          FieldRole = "skills"
	RoleProjects        FieldRole = "projects"
	RoleSummary         FieldRole = "summary"
	RoleOther           FieldRole = "other"
)

// Option is one entry of an enumerated widget (a <select> option, or a
// harvested combobox list item).
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// FieldDescriptor is the normalized record produced for every input-capable
// element found during a discovery pass. Descriptors are transient: they are
// rebuilt on every pass and discarded once the fill workflow ends, so a
// descriptor never outlives the DOM state it was derived from.
type FieldDescriptor struct {
	// Selector re-resolves to the originating element. DOM mutation can
	// invalidate it; consumers must tolerate a nil resolution.
	Selector    string    `json:"selector"`
	Kind        FieldKind `json:"kind"`
	Role        FieldRole `json:"role"`
	Label       string    `json:"label,omitempty"`
	Name        string    `json:"name,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	AriaLabel   string    `json:"ariaLabel,omitempty"`
	// Options is non-nil only for enumerated widgets.
	Options []Option `json:"options,omitempty"`
	// DocIndex identifies the owning document: 0 is the main frame, 1..n are
	// accessible same-origin iframes in discovery order.
	DocIndex int `json:"docIndex"`
}

// Step is one page of a step-paginated application form. Step structure only
// ever comes from the remote analysis pass; direct detection never infers it.
type Step struct {
	Name string `json:"name"`
	// Fields holds selectors; each must also appear in FormAnalysis.Fields.
	Fields             []string `json:"fields"`
	NextButtonSelector string   `json:"next_button,omitempty"`
	IsLastStep         bool     `json:"is_last_step"`
}

// FormAnalysis is the complete output of a discovery pass over a page.
type FormAnalysis struct {
	Fields []FieldDescriptor `json:"fields"`
	Steps  []Step            `json:"steps,omitempty"`
	// FileUploads lists the selectors of kind=file fields, the candidates for
	// the resume document upload.
	FileUploads []string `json:"file_uploads,omitempty"`
}

// Field returns the descriptor for the given selector, or nil.
func (fa *FormAnalysis) Field(selector string) *FieldDescriptor {
	for i := range fa.Fields {
		if fa.Fields[i].Selector == selector {
			return &fa.Fields[i]
		}
	}
	return nil
}

// ElementSnapshot is the raw, per-element data harvested by the in-page
// collection script. It carries everything the selector builder and the
// classifier need, so no second round trip to the page is required.
type ElementSnapshot struct {
	TagName         string   `json:"tagName"`
	Type            string   `json:"type,omitempty"`
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	ClassName       string   `json:"className,omitempty"`
	DataTestID      string   `json:"dataTestId,omitempty"`
	AriaLabel       string   `json:"ariaLabel,omitempty"`
	Placeholder     string   `json:"placeholder,omitempty"`
	Label           string   `json:"label,omitempty"`
	Widget          string   `json:"widget,omitempty"`
	Options         []Option `json:"options,omitempty"`
	NthOfType       int      `json:"nthOfType"`
	DocIndex        int      `json:"docIndex"`
	ContentEditable bool     `json:"contentEditable,omitempty"`
}
