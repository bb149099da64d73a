package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const redacted = "****"

const defaultHeader = `# askdb configuration. Values of the form ${VAR} are read from the
# environment; any key can also be set as ASKDB_<SECTION>_<KEY>.
`

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes a starter config file to path. Secrets are written as
// environment references. It refuses to overwrite unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	cfg := Default()
	cfg.Database.DSN = "${ASKDB_DATABASE_DSN}"
	cfg.OpenAI.APIKey = "${OPENAI_API_KEY}"
	cfg.OpenAI.BaseURL = "https://api.openai.com/v1"

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0600)
}

var (
	dsnPasswordParam = regexp.MustCompile(`(?i)(password|pwd)=[^;&]*`)
	// user:pass@tcp(host)/db as used by go-sql-driver/mysql.
	dsnUserinfo = regexp.MustCompile(`^([^:@/]+):[^@]*@`)
)

// Redacted returns a copy of cfg with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	if out.OpenAI.APIKey != "" {
		out.OpenAI.APIKey = redacted
	}
	if out.Auth.JWTSecret != "" {
		out.Auth.JWTSecret = redacted
	}
	out.Database.DSN = redactDSN(out.Database.DSN)
	return &out
}

func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), redacted)
			return dsnPasswordParam.ReplaceAllString(u.String(), "${1}="+redacted)
		}
	}
	if !strings.Contains(dsn, "://") {
		dsn = dsnUserinfo.ReplaceAllString(dsn, "${1}:"+redacted+"@")
	}
	return dsnPasswordParam.ReplaceAllString(dsn, "${1}="+redacted)
}
