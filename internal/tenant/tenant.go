package tenant

import (
	"regexp"
	"strings"
	"time"
)

const DefaultTheme = "default"

type Features struct {
	Tasks         bool `json:"tasks"`
	Projects      bool `json:"projects"`
	Timeline      bool `json:"timeline"`
	Announcements bool `json:"announcements"`
}

func AllFeatures() Features {
	return Features{Tasks: true, Projects: true, Timeline: true, Announcements: true}
}

type Settings struct {
	CompanyName string   `json:"companyName"`
	Theme       string   `json:"theme"`
	Logo        *string  `json:"logo"`
	Industry    string   `json:"industry,omitempty"`
	Size        string   `json:"size,omitempty"`
	Domain      string   `json:"domain,omitempty"`
	Features    Features `json:"features"`
}

type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"createdAt"`
}

type Options struct {
	CompanyName string
	Theme       string
	Logo        *string
	Industry    string
	Size        string
	Domain      string
	// Features defaults to everything enabled when nil.
	Features *Features
}

func NewTenant(id, name string, opts Options) *Tenant {
	settings := Settings{
		CompanyName: opts.CompanyName,
		Theme:       opts.Theme,
		Logo:        opts.Logo,
		Industry:    opts.Industry,
		Size:        opts.Size,
		Domain:      opts.Domain,
		Features:    AllFeatures(),
	}
	if settings.CompanyName == "" {
		settings.CompanyName = name
	}
	if settings.Theme == "" {
		settings.Theme = DefaultTheme
	}
	if opts.Features != nil {
		settings.Features = *opts.Features
	}
	return &Tenant{
		ID:        id,
		Name:      name,
		Settings:  settings,
		CreatedAt: time.Now().UTC(),
	}
}

var nonIdentifier = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeID turns a domain into a tenant id: acme.com becomes acme_com.
func SanitizeID(domain string) string {
	return strings.ToLower(nonIdentifier.ReplaceAllString(domain, "_"))
}

// IDFromEmail derives the tenant id from the domain part of an email.
// It returns "" when the email has no domain.
func IDFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return SanitizeID(email[at+1:])
}
