package domain

import (
	"strings"

	"github.com/gosimple/slug"
)

// FlagKey is the slug of a feature flag known to the application.
type FlagKey string

type FeatureType string

const (
	FeatureTypeRelease     FeatureType = "release"
	FeatureTypeExperiment  FeatureType = "experiment"
	FeatureTypeOperational FeatureType = "operational"
	FeatureTypeKillSwitch  FeatureType = "kill_switch"
	FeatureTypePermission  FeatureType = "permission"
)

const (
	FlagCalendarCache     FlagKey = "calendar-cache"
	FlagEmails            FlagKey = "emails"
	FlagInsights          FlagKey = "insights"
	FlagTeams             FlagKey = "teams"
	FlagWebhooks          FlagKey = "webhooks"
	FlagWorkflows         FlagKey = "workflows"
	FlagOrganizations     FlagKey = "organizations"
	FlagEmailVerification FlagKey = "email-verification"
	FlagAttributes        FlagKey = "attributes"
	FlagDisableSignup     FlagKey = "disable-signup"
	FlagNewUI             FlagKey = "new-ui"
)

// FlagDefinition describes a flag in the registry. Enabled is the value
// seeded into the store when the flag is first created.
type FlagDefinition struct {
	Key         FlagKey
	Description string
	Type        FeatureType
	Enabled     bool
}

// AppFlags is the registry of every flag the application knows about.
var AppFlags = map[FlagKey]FlagDefinition{
	FlagCalendarCache:     {Key: FlagCalendarCache, Description: "Cache calendar availability lookups", Type: FeatureTypeOperational},
	FlagEmails:            {Key: FlagEmails, Description: "Outbound transactional emails", Type: FeatureTypeKillSwitch, Enabled: true},
	FlagInsights:          {Key: FlagInsights, Description: "Insights dashboard", Type: FeatureTypeRelease, Enabled: true},
	FlagTeams:             {Key: FlagTeams, Description: "Team features", Type: FeatureTypePermission, Enabled: true},
	FlagWebhooks:          {Key: FlagWebhooks, Description: "Webhook delivery", Type: FeatureTypeKillSwitch, Enabled: true},
	FlagWorkflows:         {Key: FlagWorkflows, Description: "Workflow automation", Type: FeatureTypeKillSwitch, Enabled: true},
	FlagOrganizations:     {Key: FlagOrganizations, Description: "Organizations", Type: FeatureTypeOperational},
	FlagEmailVerification: {Key: FlagEmailVerification, Description: "Require email verification on signup", Type: FeatureTypeOperational},
	FlagAttributes:        {Key: FlagAttributes, Description: "Member attributes", Type: FeatureTypeOperational},
	FlagDisableSignup:     {Key: FlagDisableSignup, Description: "Disable public signup", Type: FeatureTypeOperational},
	FlagNewUI:             {Key: FlagNewUI, Description: "Redesigned interface", Type: FeatureTypeExperiment},
}

// ParseFlagKey validates a raw slug coming from an untyped boundary (HTTP,
// CLI) and returns the registered key. Keys are hyphen separated, so an
// underscore is a shape error rather than an unknown flag.
func ParseFlagKey(raw string) (FlagKey, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || strings.Contains(value, "_") || !slug.IsSlug(value) {
		return "", ErrInvalidFlagKey
	}
	key := FlagKey(value)
	if _, ok := AppFlags[key]; !ok {
		return "", ErrUnknownFlag
	}
	return key, nil
}

func (k FlagKey) String() string {
	return string(k)
}
