package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Credentials identify one identity-provider project.
type Credentials struct {
	URL     string
	AnonKey string
}

// Registry reads provider credentials from an ini profile file
// (~/.wellfitcfg by convention), one section per environment.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetCredentials(ctx context.Context, profile string) (*Credentials, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetCredentials(_ context.Context, profile string) (*Credentials, error) {
	section := cr.cfg.Section(profile)
	if section == nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	url := section.Key("url").String()
	anonKey := section.Key("anon_key").String()
	if url == "" || anonKey == "" {
		return nil, fmt.Errorf("profile %s is missing url or anon_key", profile)
	}

	return &Credentials{
		URL:     url,
		AnonKey: anonKey,
	}, nil
}
