package provision

import (
	"encoding/base64"

	"gopkg.in/yaml.v3"
)

// FolderDocument is the declarative definition of one folder.
type FolderDocument struct {
	Parent string       `yaml:"parent"`
	Name   string       `yaml:"name"`
	Labels FolderLabels `yaml:"labels"`
}

type FolderLabels struct {
	ProjectType       string `yaml:"project_type"`
	ProjectSubType    string `yaml:"project_sub_type"`
	ProjectNameFolder string `yaml:"project_name_folder"`
}

// ProjectDocument is the declarative definition of one
// environment-specific project.
type ProjectDocument struct {
	Parent                 string           `yaml:"parent"`
	SharedVPCServiceConfig SharedVPCService `yaml:"shared_vpc_service_config"`
	BillingBudgets         []string         `yaml:"billing_budgets"`
	TagBindings            TagBindings      `yaml:"tag_bindings"`
	Labels                 ProjectLabels    `yaml:"labels"`
}

type SharedVPCService struct {
	HostProject  string   `yaml:"host_project"`
	NetworkUsers []string `yaml:"network_users"`
}

type TagBindings struct {
	DataType string `yaml:"data-type"`
}

type ProjectLabels struct {
	Environment       string `yaml:"environment"`
	ProjectType       string `yaml:"project_type"`
	ProjectSubType    string `yaml:"project_sub_type"`
	ProjectNameFolder string `yaml:"project_name_folder"`
	ProjectName       string `yaml:"project_name"`
	DataSecurity      string `yaml:"data_security"`
	EngagementManager string `yaml:"engagement_manager"`
	WBS               string `yaml:"wbs"`
}

// BudgetDocument is the declarative billing budget attached to one
// environment project.
type BudgetDocument struct {
	DisplayName    string            `yaml:"display_name"`
	Amount         BudgetAmount      `yaml:"amount"`
	Filter         BudgetFilter      `yaml:"filter"`
	ThresholdRules []ThresholdRule   `yaml:"threshold_rules"`
	UpdateRules    BudgetUpdateRules `yaml:"update_rules"`
}

type BudgetAmount struct {
	Units float64 `yaml:"units"`
}

type BudgetFilter struct {
	Period   BudgetPeriod `yaml:"period"`
	Projects []string     `yaml:"projects"`
}

type BudgetPeriod struct {
	Calendar string `yaml:"calendar"`
}

type ThresholdRule struct {
	Percent float64 `yaml:"percent"`
}

type BudgetUpdateRules struct {
	Default BudgetNotification `yaml:"default"`
}

type BudgetNotification struct {
	DisableDefaultIAMRecipients    bool     `yaml:"disable_default_iam_recipients"`
	MonitoringNotificationChannels []string `yaml:"monitoring_notification_channels"`
}

// EncodeDocument serializes a document to YAML and base64-encodes it
// for the contents API.
func EncodeDocument(doc any) (string, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecodeDocument reverses EncodeDocument into the given target.
func DecodeDocument(encoded string, target any) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, target)
}
