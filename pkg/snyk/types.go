package snyk

import "fmt"

// Integration origins that can create GitHub-backed targets.
const (
	OriginGitHub           = "github"
	OriginGitHubEnterprise = "github-enterprise"
	OriginGitHubCloudApp   = "github-cloud-app"
)

// MigratableOrigins lists the origins whose targets can be moved to the
// GitHub Cloud App integration.
var MigratableOrigins = []string{OriginGitHub, OriginGitHubEnterprise}

// Organization is a Snyk organization within the token holder's group.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type orgsResponse struct {
	Orgs []Organization `json:"orgs"`
}

// Integrations maps integration type to integration ID for one
// organization. Only the keys matter to the migration flow.
type Integrations map[string]string

// Target is a tracked source-control reference inside Snyk, as returned by
// the REST targets endpoint.
type Target struct {
	ID            string              `json:"id"`
	Attributes    TargetAttributes    `json:"attributes"`
	Relationships TargetRelationships `json:"relationships"`
}

type TargetAttributes struct {
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
	IsPrivate   bool   `json:"is_private"`
}

type TargetRelationships struct {
	Integration TargetIntegration `json:"integration"`
}

type TargetIntegration struct {
	Data TargetIntegrationData `json:"data"`
}

type TargetIntegrationData struct {
	Attributes TargetIntegrationAttributes `json:"attributes"`
}

type TargetIntegrationAttributes struct {
	IntegrationType string `json:"integration_type"`
}

// Origin returns the integration type that created the target.
func (t Target) Origin() string {
	return t.Relationships.Integration.Data.Attributes.IntegrationType
}

// LogLine formats the target for human-readable result output.
func (t Target) LogLine() string {
	return fmt.Sprintf("ID: %s, Name: %s, Origin: %s, URL: %s",
		t.ID, t.Attributes.DisplayName, t.Origin(), t.Attributes.URL)
}

// targetsPage is one page of the cursor-paginated targets listing.
type targetsPage struct {
	Data  []Target  `json:"data"`
	Links pageLinks `json:"links"`
}

type pageLinks struct {
	Next string `json:"next"`
}
