package services

import (
	"context"
	"errors"
	"sync"

	"github.com/tokamak-network/frontend-deploy/pkg/config"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/toolchain"
)

type fakeLoader struct {
	apps    map[string]*config.AppConfig
	globals map[entities.DeployEnv]config.Settings
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		apps:    make(map[string]*config.AppConfig),
		globals: make(map[entities.DeployEnv]config.Settings),
	}
}

func (l *fakeLoader) LoadApp(app string, env entities.DeployEnv) (*config.AppConfig, error) {
	cfg, ok := l.apps[app+"/"+env.String()]
	if !ok {
		return nil, entities.ErrConfigNotFound
	}
	return cfg, nil
}

func (l *fakeLoader) LoadGlobal(env entities.DeployEnv) (config.Settings, error) {
	settings, ok := l.globals[env]
	if !ok {
		return nil, entities.ErrConfigNotFound
	}
	return settings, nil
}

type fakeVCS struct {
	info *entities.CommitInfo
	err  error
}

func (v *fakeVCS) CommitInfo(context.Context) (*entities.CommitInfo, error) {
	return v.info, v.err
}

type fakeToolchain struct {
	envFiles    map[entities.DeployEnv]map[string]string
	installErr  error
	manifest    map[string]interface{}
	manifestErr error
	written     map[string]interface{}
	buildOutput string
	buildErr    error
	builds      int
}

func newFakeToolchain(output string) *fakeToolchain {
	return &fakeToolchain{
		envFiles:    make(map[entities.DeployEnv]map[string]string),
		manifest:    map[string]interface{}{"APP": map[string]interface{}{"NAME": "myapp"}},
		buildOutput: output,
	}
}

func (f *fakeToolchain) WriteEnvFile(env entities.DeployEnv, vars map[string]string) (string, error) {
	f.envFiles[env] = vars
	return ".env.deploy." + env.String(), nil
}

func (f *fakeToolchain) Install(context.Context) error {
	return f.installErr
}

func (f *fakeToolchain) ReadManifest() (map[string]interface{}, error) {
	if f.manifestErr != nil {
		return nil, f.manifestErr
	}
	return f.manifest, nil
}

func (f *fakeToolchain) WriteManifest(manifest map[string]interface{}) ([]byte, error) {
	f.written = manifest
	return []byte(`{"APP":{"NAME":"myapp","S3_BUCKET":"mybucket"}}`), nil
}

func (f *fakeToolchain) Build(context.Context, entities.DeployEnv) (string, error) {
	f.builds++
	if f.buildErr != nil {
		return f.buildOutput, &toolchain.BuildError{Output: f.buildOutput, Err: f.buildErr}
	}
	return f.buildOutput, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return n.err
}

var errUnreachable = errors.New("connection refused")
