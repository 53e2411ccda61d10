package directory

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/graphmesh/graphmesh/pkg/auth"
)

type roleDefinition struct {
	Permissions []string `mapstructure:"permissions"`
	Members     []string `mapstructure:"members"`
}

type rolesFile struct {
	Roles map[string]roleDefinition `mapstructure:"roles"`
}

// LoadRoles reads a roles definition file into a fresh InMemoryDirectory.
//
// Permission strings are parsed here, at the configuration boundary: a
// malformed permission fails the load instead of surfacing during a
// request-time check.
func LoadRoles(path string) (*InMemoryDirectory, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading roles file %s", path)
	}

	var file rolesFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling roles file %s", path)
	}

	dir := NewInMemoryDirectory()
	for name, def := range file.Roles {
		perms := make([]auth.Permission, 0, len(def.Permissions))
		for _, raw := range def.Permissions {
			p, err := auth.ParsePermission(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "role %q", name)
			}
			perms = append(perms, p)
		}
		if err := dir.CreateRole(name, perms...); err != nil {
			return nil, err
		}
		for _, member := range def.Members {
			if err := dir.AssignRole(member, name); err != nil {
				return nil, err
			}
		}
	}
	return dir, nil
}
