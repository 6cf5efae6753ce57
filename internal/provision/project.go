package provision

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
)

// EnvironmentTarget is one environment's synthesis-ready data: the
// generated project name, the resolved environment subfolder, and the
// declared budget.
type EnvironmentTarget struct {
	Env         string
	ProjectName string
	FolderID    string
	Budget      float64
}

// ProjectProvisioner validates and synthesizes a project creation
// request: one project plus one billing budget per declared environment.
type ProjectProvisioner struct {
	Request Request
	Index   *hierarchy.Index
	Opts    Options

	targets []EnvironmentTarget
}

// labelFormatted are the free-text fields rewritten into label-safe
// form before validation, so generated names and labels agree.
var labelFormatted = []string{
	KeyEngagementManager, KeyProjectName, KeyFolderName, KeyWBS, KeyDataSecurity,
}

// Validate runs the project state machine: label formatting, parent
// folder existence, per-environment name uniqueness and subfolder
// resolution (in declared order), and budget completeness.
func (p *ProjectProvisioner) Validate(ctx context.Context) error {
	log := ctxlog.From(ctx)

	p.formatLabelFields(ctx)

	folderName, _ := p.Request.String(KeyFolderName)
	parentResource, exists := p.Index.Exists(folderName, hierarchy.FolderAssetType)
	if !exists {
		return fmt.Errorf("%w: parent folder '%s' not found in the resource hierarchy", ErrValidation, folderName)
	}
	parentID, ok := hierarchy.FolderID(parentResource)
	if !ok {
		return fmt.Errorf("%w: could not extract folder id from '%s'", ErrValidation, parentResource)
	}
	log.Info("parent folder found", "folder", folderName, "id", parentID)

	projectName, _ := p.Request.String(KeyProjectName)
	environments, ok := p.Request.List(KeyEnvironment)
	if !ok || len(environments) == 0 {
		return fmt.Errorf("%w: the '%s' field is empty or missing", ErrValidation, KeyEnvironment)
	}

	for _, env := range environments {
		name := namePrefix + env + "-" + projectName
		if _, exists := p.Index.Exists(name, hierarchy.ProjectAssetType); exists {
			return fmt.Errorf("%w: project '%s' exists already in the resource hierarchy", ErrValidation, name)
		}
		log.Info("project name is free", "project", name)

		subfolderName, ok := environmentFolders[env]
		if !ok {
			return fmt.Errorf("%w: no folder mapping found for environment '%s'", ErrValidation, env)
		}
		subfolderResource, found := p.Index.SubfolderID(parentID, subfolderName)
		if !found {
			return fmt.Errorf("%w: subfolder '%s' not found under '%s'", ErrValidation, subfolderName, folderName)
		}
		envFolderID, ok := hierarchy.FolderID(subfolderResource)
		if !ok {
			return fmt.Errorf("%w: could not extract folder id from '%s'", ErrValidation, subfolderResource)
		}
		p.Request[EnvFolderKey(env)] = envFolderID
		log.Info("environment subfolder resolved", "env", env, "id", envFolderID)

		p.targets = append(p.targets, EnvironmentTarget{Env: env, ProjectName: name, FolderID: envFolderID})
	}

	for i, target := range p.targets {
		budget, ok := p.Request.Float(BudgetKey(target.Env))
		if !ok {
			return fmt.Errorf("%w: the '%s' environment has no associated budget key ('%s'), "+
				"please ensure this information is included in the request",
				ErrValidation, target.Env, BudgetKey(target.Env))
		}
		p.targets[i].Budget = budget
	}

	log.Info("project request validated", "targets", len(p.targets))
	return nil
}

func (p *ProjectProvisioner) formatLabelFields(ctx context.Context) {
	for _, key := range labelFormatted {
		value, ok := p.Request.String(key)
		if !ok {
			ctxlog.From(ctx).Warn("field not present for label formatting", "field", key)
			continue
		}
		p.Request[key] = FormatLabel(value)
	}
}

// Synthesize builds one project and one budget document per validated
// environment target, planning one publish unit each in declared
// environment order.
func (p *ProjectProvisioner) Synthesize(ctx context.Context) ([]PublishUnit, error) {
	if len(p.targets) == 0 {
		return nil, fmt.Errorf("%w: no environment targets, request was not validated", ErrValidation)
	}

	dataSecurity, _ := p.Request.String(KeyDataSecurity)
	dataTypeTag, ok := dataSecurityTags[dataSecurity]
	if !ok {
		return nil, fmt.Errorf("%w: no policy tag configured for data security level '%s'", ErrValidation, dataSecurity)
	}

	issueKey, _ := p.Request.String(KeyIssueKey)
	devBudget, hasDevBudget := p.Request.Float(BudgetKey("dev"))

	units := make([]PublishUnit, 0, len(p.targets))
	for _, target := range p.targets {
		encodedBudget, err := EncodeDocument(p.budgetDocument(target))
		if err != nil {
			return nil, fmt.Errorf("encoding budget document for %s: %w", target.ProjectName, err)
		}
		encodedProject, err := EncodeDocument(p.projectDocument(target, dataTypeTag))
		if err != nil {
			return nil, fmt.Errorf("encoding project document for %s: %w", target.ProjectName, err)
		}

		autoApprove := AllowAutoApprove(target.Env, dataSecurity, devBudget, hasDevBudget, p.Opts.BudgetLimit)
		ctxlog.From(ctx).Info("project documents synthesized",
			"project", target.ProjectName, "auto_approve", autoApprove)

		units = append(units, newProjectUnit(issueKey, target, encodedBudget, encodedProject, autoApprove))
	}
	return units, nil
}

func (p *ProjectProvisioner) projectDocument(target EnvironmentTarget, dataTypeTag string) ProjectDocument {
	return ProjectDocument{
		Parent: target.FolderID,
		SharedVPCServiceConfig: SharedVPCService{
			HostProject:  target.Env + "-spoke-0",
			NetworkUsers: []string{"gcp-devops"},
		},
		BillingBudgets: []string{target.ProjectName},
		TagBindings:    TagBindings{DataType: dataTypeTag},
		Labels: ProjectLabels{
			Environment:       target.Env,
			ProjectType:       p.Request.StringOr(KeyProjectType, ""),
			ProjectSubType:    p.Request.StringOr(KeyProjectTypeFolder, ""),
			ProjectNameFolder: p.Request.StringOr(KeyFolderName, ""),
			ProjectName:       target.ProjectName,
			DataSecurity:      p.Request.StringOr(KeyDataSecurity, ""),
			EngagementManager: p.Request.StringOr(KeyEngagementManager, ""),
			WBS:               p.Request.StringOr(KeyWBS, ""),
		},
	}
}

func (p *ProjectProvisioner) budgetDocument(target EnvironmentTarget) BudgetDocument {
	return BudgetDocument{
		DisplayName: "budget for " + target.ProjectName,
		Amount:      BudgetAmount{Units: target.Budget},
		Filter: BudgetFilter{
			Period:   BudgetPeriod{Calendar: "MONTH"},
			Projects: []string{target.ProjectName},
		},
		ThresholdRules: []ThresholdRule{{Percent: 0.5}, {Percent: 0.75}},
		UpdateRules: BudgetUpdateRules{
			Default: BudgetNotification{
				DisableDefaultIAMRecipients:    true,
				MonitoringNotificationChannels: []string{"billing-default"},
			},
		},
	}
}

// AllowAutoApprove is the auto-approval policy. Only the dev target can
// ever auto-approve, and only with the lowest data security tier and a
// declared dev budget strictly below the limit. The "dev" literal is
// deliberate: non-dev targets always need manual review.
func AllowAutoApprove(env, dataSecurity string, devBudget float64, hasDevBudget bool, limit float64) bool {
	if env != "dev" {
		return false
	}
	if dataSecurity != "l0" {
		return false
	}
	return hasDevBudget && devBudget < limit
}

// Summary renders the validated request for a ticket comment,
// including per-environment project names and budgets.
func (p *ProjectProvisioner) Summary() string {
	parts := []string{
		"*Jira Issue:* 🔑 " + p.Request.StringOr(KeyIssueKey, "N/A"),
		"*Target Folder:* 📂 " + p.Request.StringOr(KeyFolderName, "N/A"),
		"*Project Type:* 🏷️ " + p.Request.StringOr(KeyProjectType, "N/A"),
		"*Project Type Folder:* 🗂️ " + p.Request.StringOr(KeyProjectTypeFolder, "N/A"),
		"*Data Security Level:* " + p.Request.StringOr(KeyDataSecurity, "N/A") + " 🛡️",
		"*Target Environments:* 🌐",
	}
	for _, target := range p.targets {
		budget := "N/A"
		if b, ok := p.Request.Float(BudgetKey(target.Env)); ok {
			budget = strconv.FormatFloat(b, 'f', -1, 64)
		}
		parts = append(parts, fmt.Sprintf("- *%s*: Name: `%s`, Budget (euros): `%s`",
			strings.ToUpper(target.Env), target.ProjectName, budget))
	}
	return strings.Join(parts, "\n")
}
