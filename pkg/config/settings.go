// Package config loads the per-environment deploy configuration.
//
// Each environment directory holds one YAML file per application plus a
// global.yml shared by every application:
//
//	{dir}/{env}/{app}.yml
//	{dir}/{env}/global.yml
//
// Nested YAML mappings are flattened into dotted keys.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/storage"
	"gopkg.in/yaml.v3"
)

const (
	GlobalConfigName = "global"

	KeyBucketName = "aws_s3_bucket_name"
	KeyAccessKey  = "aws_s3_key"
	KeySecretKey  = "aws_s3_secret_key"
	KeyRegion     = "aws_s3_region"

	bindingsKey = "manifest_bindings"
)

// EnvFileKeys are the global settings exported to the build toolchain.
var EnvFileKeys = []string{
	KeyBucketName,
	KeyAccessKey,
	KeySecretKey,
	KeyRegion,
}

// Settings is a flattened configuration document.
type Settings map[string]string

func (s Settings) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvFile returns the variables written to the toolchain env file.
func (s Settings) EnvFile(bucketPrefix string) map[string]string {
	vars := make(map[string]string, len(EnvFileKeys)+1)
	for _, key := range EnvFileKeys {
		vars[key] = s[key]
	}
	vars[consts.BucketPrefixKey] = bucketPrefix
	return vars
}

// StorageCredentials reads the bucket credentials of an environment from its
// global settings.
func (s Settings) StorageCredentials() (storage.Credentials, error) {
	creds := storage.Credentials{
		AccessKey: s[KeyAccessKey],
		SecretKey: s[KeySecretKey],
		Region:    s[KeyRegion],
		Bucket:    s[KeyBucketName],
	}
	if creds.Bucket == "" {
		return storage.Credentials{}, fmt.Errorf("%s is not configured", KeyBucketName)
	}
	return creds, nil
}

// AppConfig is an application's settings plus its manifest bindings.
type AppConfig struct {
	App      string
	Settings Settings
	Bindings []ManifestBinding
}

type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) Dir() string {
	return l.dir
}

// LoadApp reads {dir}/{env}/{app}.yml. Applications without declared
// bindings get DefaultManifestBindings.
func (l *Loader) LoadApp(app string, env entities.DeployEnv) (*AppConfig, error) {
	raw, err := l.read(app, env)
	if err != nil {
		return nil, err
	}

	bindings, err := decodeBindings(raw[bindingsKey])
	if err != nil {
		return nil, fmt.Errorf("invalid %s in %s config: %w", bindingsKey, app, err)
	}
	delete(raw, bindingsKey)
	if len(bindings) == 0 {
		bindings = DefaultManifestBindings
	}

	return &AppConfig{
		App:      app,
		Settings: flatten(raw),
		Bindings: bindings,
	}, nil
}

// LoadGlobal reads {dir}/{env}/global.yml.
func (l *Loader) LoadGlobal(env entities.DeployEnv) (Settings, error) {
	raw, err := l.read(GlobalConfigName, env)
	if err != nil {
		return nil, err
	}
	return flatten(raw), nil
}

func (l *Loader) read(name string, env entities.DeployEnv) (map[string]interface{}, error) {
	if l.dir == "" {
		return nil, fmt.Errorf("%w: config dir is not set", entities.ErrConfigNotFound)
	}
	path := filepath.Join(l.dir, env.String(), name+".yml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", entities.ErrConfigNotFound, path)
	}
	return raw, nil
}

func decodeBindings(value interface{}) ([]ManifestBinding, error) {
	if value == nil {
		return nil, nil
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, err
	}
	var bindings []ManifestBinding
	if err := yaml.Unmarshal(data, &bindings); err != nil {
		return nil, err
	}
	for _, b := range bindings {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return bindings, nil
}

func flatten(raw map[string]interface{}) Settings {
	out := make(Settings)
	flattenInto(out, "", raw)
	return out
}

func flattenInto(out Settings, prefix string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flattenInto(out, joinKey(prefix, k), child)
		}
	case map[interface{}]interface{}:
		for k, child := range v {
			flattenInto(out, joinKey(prefix, fmt.Sprint(k)), child)
		}
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		out[prefix] = strings.Join(parts, ",")
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
