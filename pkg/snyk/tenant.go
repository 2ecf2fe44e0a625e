package snyk

import "fmt"

// Tenant identifies a regional Snyk deployment. The zero value is the
// default US tenant.
type Tenant string

const (
	TenantDefault Tenant = ""
	TenantAU      Tenant = "au"
	TenantEU      Tenant = "eu"
)

// Endpoints bundles the base URLs of the three Snyk API families served by
// one tenant.
type Endpoints struct {
	V1Base     string
	RESTBase   string
	HiddenBase string
}

var tenantEndpoints = map[Tenant]Endpoints{
	TenantDefault: {
		V1Base:     "https://snyk.io/api/v1",
		RESTBase:   "https://api.snyk.io/rest",
		HiddenBase: "https://api.snyk.io/hidden",
	},
	TenantAU: {
		V1Base:     "https://api.au.snyk.io/v1",
		RESTBase:   "https://api.au.snyk.io/rest",
		HiddenBase: "https://api.au.snyk.io/hidden",
	},
	TenantEU: {
		V1Base:     "https://api.eu.snyk.io/v1",
		RESTBase:   "https://api.eu.snyk.io/rest",
		HiddenBase: "https://api.eu.snyk.io/hidden",
	},
}

// ResolveTenant validates a tenant name and returns the endpoint bundle for
// it. The bundle is resolved once at client construction, never per call.
func ResolveTenant(tenant string) (Endpoints, error) {
	endpoints, ok := tenantEndpoints[Tenant(tenant)]
	if !ok {
		return Endpoints{}, fmt.Errorf("invalid tenant %q, must be one of %q, %q or %q", tenant, TenantDefault, TenantAU, TenantEU)
	}
	return endpoints, nil
}
