package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"go.uber.org/zap"
)

// Combinator computes one manifest value from several source values.
type Combinator func(values ...string) string

var combinators = map[string]Combinator{
	"url":   combineURL,
	"join":  combineJoin,
	"host":  combineHost,
	"first": combineFirst,
}

// literalPrefix marks a combinator arg that is used as is rather than looked up.
const literalPrefix = "="

// ManifestBinding maps one dotted manifest key either to a single source
// setting or to a named combinator over several source settings. Args
// starting with "=" are literals, e.g. "=/v1/".
type ManifestBinding struct {
	Target  string   `yaml:"target" json:"target"`
	Source  string   `yaml:"source,omitempty" json:"source,omitempty"`
	Combine string   `yaml:"combine,omitempty" json:"combine,omitempty"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
}

func (b ManifestBinding) Validate() error {
	if b.Target == "" {
		return errors.New("binding target is required")
	}
	if b.Combine == "" {
		if b.Source == "" {
			return fmt.Errorf("binding %s needs a source or a combinator", b.Target)
		}
		return nil
	}
	if _, ok := combinators[b.Combine]; !ok {
		return fmt.Errorf("binding %s uses unknown combinator %q", b.Target, b.Combine)
	}
	if len(b.Args) == 0 {
		return fmt.Errorf("binding %s has no combinator args", b.Target)
	}
	return nil
}

var DefaultManifestBindings = []ManifestBinding{
	{Target: "APP.S3_BUCKET", Source: KeyBucketName},
	{Target: "APP.S3_REGION", Source: KeyRegion},
}

// ResolveManifest writes every binding into manifest. Source values are read
// from app first and global second; a missing source is logged and resolves
// to the empty string.
func ResolveManifest(
	manifest map[string]interface{},
	bindings []ManifestBinding,
	app, global Settings,
) error {
	for _, binding := range bindings {
		if err := binding.Validate(); err != nil {
			return err
		}

		var value string
		if binding.Combine == "" {
			value = lookup(binding.Source, app, global)
		} else {
			args := make([]string, len(binding.Args))
			for i, arg := range binding.Args {
				args[i] = resolveArg(arg, app, global)
			}
			value = combinators[binding.Combine](args...)
		}

		if err := setPath(manifest, binding.Target, value); err != nil {
			return err
		}
	}
	return nil
}

func resolveArg(arg string, app, global Settings) string {
	if literal, ok := strings.CutPrefix(arg, literalPrefix); ok {
		return literal
	}
	return lookup(arg, app, global)
}

func lookup(key string, app, global Settings) string {
	if v, ok := app[key]; ok && v != "" {
		return v
	}
	if v, ok := global[key]; ok && v != "" {
		return v
	}
	logger.Warn("manifest source has no value",
		zap.String("key", key),
		zap.String("app", app["app"]))
	return ""
}

func setPath(manifest map[string]interface{}, route string, value string) error {
	parts := strings.Split(route, ".")
	target := manifest
	for _, part := range parts[:len(parts)-1] {
		next, ok := target[part]
		if !ok || next == nil {
			child := make(map[string]interface{})
			target[part] = child
			target = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("manifest key %s is not an object at %q", route, part)
		}
		target = child
	}
	target[parts[len(parts)-1]] = value
	return nil
}

// combineURL builds scheme://host[/path...]. An empty scheme means https.
func combineURL(values ...string) string {
	if len(values) < 2 {
		return ""
	}
	scheme, host := values[0], values[1]
	if host == "" {
		return ""
	}
	if scheme == "" {
		scheme = "https"
	}
	u := scheme + "://" + strings.TrimSuffix(host, "/")
	for _, p := range values[2:] {
		if p = strings.Trim(p, "/"); p != "" {
			u += "/" + p
		}
	}
	return u
}

func combineJoin(values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ",")
}

// combineHost extracts the host of the first value.
func combineHost(values ...string) string {
	if len(values) == 0 || values[0] == "" {
		return ""
	}
	raw := values[0]
	if !strings.Contains(raw, "://") {
		raw = "//" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return values[0]
	}
	return u.Host
}

func combineFirst(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
