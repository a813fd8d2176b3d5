package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission is one route entry. Permissions lists the roles allowed through; empty means any
// authenticated caller.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	return method + " " + strings.TrimSuffix(path, "/")
}

// FindPermissions looks up a chi route pattern such as /v1/bookings/{id}. Unknown routes get the zero
// Permission, which requires authentication and allows every role.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.buildIndex()
	}

	return r.index[routeKey(method, path)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := r.index[key]; dup {
			log.Warn().Str("route", key).Msg("duplicate permission entry, keeping the first")

			continue
		}

		r.index[key] = endpoint
	}
}

func Get() *PermissionData {
	permissions := &PermissionData{}

	if err := json.Unmarshal(permissionsData, permissions); err != nil {
		log.Err(err).Msg("embedded permissions are not valid JSON")

		return nil
	}

	permissions.buildIndex()

	log.Info().Int("endpoints", len(permissions.index)).Msg("permissions loaded")

	return permissions
}
