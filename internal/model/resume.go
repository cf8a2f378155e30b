package model

// Go models for a single résumé page. Field names follow the record files
// under records/ and the embedded resume.schema.json.

type EducationEntry struct {
	School         string `json:"school" yaml:"school"`
	Degree         string `json:"degree" yaml:"degree"`
	GraduationDate string `json:"graduationDate" yaml:"graduationDate"`
	Description    string `json:"description" yaml:"description"`
}

type LinkEntry struct {
	Label string `json:"label" yaml:"label"`
	Link  string `json:"link" yaml:"link"`
}

type AchievementEntry struct {
	ProjectName    string `json:"projectName" yaml:"projectName"`
	Description    string `json:"description" yaml:"description"`
	Responsibility string `json:"responsibility" yaml:"responsibility"`
}

// EmploymentEntry dates are free text ("November 2022", "Present") and are
// never parsed.
type EmploymentEntry struct {
	JobTitle     string             `json:"jobTitle" yaml:"jobTitle"`
	StartDate    string             `json:"startDate" yaml:"startDate"`
	EndDate      string             `json:"endDate" yaml:"endDate"`
	Employer     string             `json:"employer" yaml:"employer"`
	City         string             `json:"city" yaml:"city"`
	Achievements []AchievementEntry `json:"achievements,omitempty" yaml:"achievements,omitempty"`
}

// ResumeRecord is the author-supplied résumé content. It is loaded once at
// startup and treated as read-only afterwards.
type ResumeRecord struct {
	FirstName           string            `json:"firstName" yaml:"firstName"`
	LastName            string            `json:"lastName" yaml:"lastName"`
	JobTitle            string            `json:"jobTitle" yaml:"jobTitle"`
	City                string            `json:"city" yaml:"city"`
	Country             string            `json:"country" yaml:"country"`
	PostalCode          string            `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	Phone               string            `json:"phone" yaml:"phone"`
	Email               string            `json:"email" yaml:"email"`
	Education           []EducationEntry  `json:"education" yaml:"education"`
	Links               []LinkEntry       `json:"links" yaml:"links"`
	Skills              []string          `json:"skills" yaml:"skills"`
	Languages           []string          `json:"languages" yaml:"languages"`
	ProfessionalSummary string            `json:"professionalSummary" yaml:"professionalSummary"`
	EmploymentHistory   []EmploymentEntry `json:"employmentHistory" yaml:"employmentHistory"`
	Photo               string            `json:"photo" yaml:"photo"`
}
