package provision

import "strings"

// FieldKind selects the coercion applied to one raw ticket field.
type FieldKind int

const (
	// SingleChoice reads the "value" sub-key of a select field.
	SingleChoice FieldKind = iota
	// NestedChoice reads the "child.value" sub-path of a cascading select.
	NestedChoice
	// PersonReference reads the displayName of the first entry of a
	// user-picker list.
	PersonReference
	// ReporterReference reads the displayName of a single user object.
	ReporterReference
	// MultiChoice collects every "value" of a checklist, in payload order.
	MultiChoice
	// FreeText takes the raw string, optionally regex-validated.
	FreeText
	// Numeric pattern-matches the string representation, then parses a float.
	Numeric
)

// Field is one entry of a ticket field table.
type Field struct {
	Kind           FieldKind
	SourceKey      string
	DestKey        string
	Mandatory      bool
	Pattern        string
	PatternMessage string
}

// Logical field names shared between extraction, validation, and synthesis.
const (
	KeyIssueKey          = "ISSUE_KEY"
	KeyDataSecurity      = "DATASECURITY"
	KeyProjectType       = "PROJECT_TYPE"
	KeyProjectTypeFolder = "PROJECT_TYPE_FOLDER"
	KeyEnvironment       = "ENVIRONMENT"
	KeyProjectName       = "PROJECT_NAME"
	KeyFolderName        = "FOLDER_NAME"
	KeyWBS               = "WBS"
	KeyEngagementManager = "ENGAGEMENT_MANAGER"
	KeyParentFolderID    = "PARENT_FOLDER_ID"
)

// BudgetKey returns the per-environment budget field name ("BUDGET_DEV").
func BudgetKey(env string) string {
	return "BUDGET_" + strings.ToUpper(env)
}

// EnvFolderKey returns the per-environment resolved folder id field
// name ("FOLDER_DEV").
func EnvFolderKey(env string) string {
	return "FOLDER_" + strings.ToUpper(env)
}

const (
	budgetPattern = `^[0-9]{1,10}\.[0-9]{1,5}$`
	budgetMessage = "must be a numeric value with up to 10 digits before and 5 digits after the decimal point."
)

// projectFields drives extraction for "New GCP Project Provisioning".
// Source keys are the Jira custom field ids of the request form.
var projectFields = []Field{
	{Kind: SingleChoice, SourceKey: "customfield_10550", DestKey: KeyDataSecurity, Mandatory: true},
	{Kind: SingleChoice, SourceKey: "customfield_10611", DestKey: KeyProjectType, Mandatory: true},
	{Kind: NestedChoice, SourceKey: "customfield_10611", DestKey: KeyProjectTypeFolder, Mandatory: true},
	{Kind: MultiChoice, SourceKey: "customfield_10549", DestKey: KeyEnvironment, Mandatory: true},
	{Kind: Numeric, SourceKey: "customfield_10579", DestKey: "BUDGET_DEV",
		Pattern: budgetPattern, PatternMessage: "'BUDGET_DEV' " + budgetMessage},
	{Kind: Numeric, SourceKey: "customfield_10613", DestKey: "BUDGET_TEST",
		Pattern: budgetPattern, PatternMessage: "'BUDGET_TEST' " + budgetMessage},
	{Kind: Numeric, SourceKey: "customfield_10614", DestKey: "BUDGET_PROD",
		Pattern: budgetPattern, PatternMessage: "'BUDGET_PROD' " + budgetMessage},
	{Kind: FreeText, SourceKey: "customfield_10551", DestKey: KeyProjectName, Mandatory: true,
		Pattern:        `^[0-9A-Za-z-_]{3,50}$`,
		PatternMessage: "Project names should be alphanumeric (letters, numbers, '-', '_') and between 3 and 50 characters."},
	{Kind: FreeText, SourceKey: "customfield_10578", DestKey: KeyFolderName, Mandatory: true,
		Pattern:        `^[0-9A-Za-z-_]{3,30}$`,
		PatternMessage: "'FOLDER_NAME' must be alphanumeric (letters, numbers, '-', '_') and between 3 and 30 characters long."},
	{Kind: FreeText, SourceKey: "customfield_10644", DestKey: KeyWBS,
		Pattern:        `^[0-9A-Za-z-_]{3,100}$`,
		PatternMessage: "'WBS' must be alphanumeric (letters, numbers, '-', '_') and between 3 and 100 characters long."},
	{Kind: ReporterReference, SourceKey: "reporter", DestKey: KeyEngagementManager},
}

// folderFields drives extraction for "New GCP Folder Provisioning".
var folderFields = []Field{
	{Kind: SingleChoice, SourceKey: "customfield_10611", DestKey: KeyProjectType, Mandatory: true},
	{Kind: NestedChoice, SourceKey: "customfield_10611", DestKey: KeyProjectTypeFolder, Mandatory: true},
	{Kind: FreeText, SourceKey: "customfield_10578", DestKey: KeyFolderName, Mandatory: true,
		Pattern:        `^[0-9A-Za-z-_]{3,30}$`,
		PatternMessage: "'FOLDER_NAME' must be alphanumeric (letters, numbers, '-', '_') and between 3 and 30 characters long."},
	{Kind: FreeText, SourceKey: "customfield_10644", DestKey: KeyWBS,
		Pattern:        `^[0-9A-Za-z-_]{3,100}$`,
		PatternMessage: "'WBS' must be alphanumeric (letters, numbers, '-', '_') and between 3 and 100 characters long."},
	{Kind: ReporterReference, SourceKey: "reporter", DestKey: KeyEngagementManager},
}

// environmentFolders maps an environment tag to the display name of its
// subfolder under the target parent folder.
var environmentFolders = map[string]string{
	"dev":  "Development",
	"test": "Test",
	"prod": "Production",
}

// dataSecurityTags maps a data security level to the policy tag bound
// to the project.
var dataSecurityTags = map[string]string{
	"l0": "tagValues/281478635840395",
	"l1": "tagValues/281481147692528",
	"l3": "tagValues/281476741727885",
}

// namePrefix prefixes every generated environment project name.
const namePrefix = "dw-"
