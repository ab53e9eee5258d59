// Package tenant reads university profiles written by the external
// crawling pipeline.
package tenant

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/unirag/internal/domain"
)

// KeyPrefix namespaces tenant profile hashes.
const KeyPrefix = domain.KeyPrefix + "tenant:"

// store is the consumer interface for tenant lookups.
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements chat.TenantReader.
type Repo struct {
	store store
}

// New creates a tenant repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get resolves a tenant by id. Returns domain.ErrTenantNotFound when no
// profile exists under that id.
func (r *Repo) Get(ctx context.Context, tenantID string) (domain.Tenant, error) {
	fields, err := r.store.HGetAll(ctx, KeyPrefix+tenantID)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if len(fields) == 0 {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return tenantFromFields(tenantID, fields), nil
}

func tenantFromFields(id string, f map[string]string) domain.Tenant {
	name := f["name"]
	if name == "" {
		name = id
	}
	return domain.Tenant{
		ID:           id,
		Name:         name,
		WebsiteURL:   f["website_url"],
		Location:     f["location"],
		Kind:         f["type"],
		Established:  f["established"],
		ContactEmail: f["contact_email"],
		ContactPhone: f["contact_phone"],
	}
}
