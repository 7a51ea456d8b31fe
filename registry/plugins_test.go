package registry

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/internal"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/plugin"
	"github.com/velkstack/velk/value"
)

// widgetClass is the type the test plugin registers during
// Initialize.
type widgetClass struct {
	object.Base
}

var widgetClassInfo = &core.ClassInfo{
	Uid:  core.MakeHash("PluginWidget"),
	Name: "PluginWidget",
}

func newWidgetClassFactory() object.Factory {
	return object.NewFactory(
		widgetClassInfo,
		func() *widgetClass { return &widgetClass{} },
		nil,
	)
}

// testPlugin registers a widget class and a value type on
// initialize. It deliberately does not unregister them on shutdown
// so the sweep behaviour is observable.
type testPlugin struct {
	classUid      core.Uid
	name          string
	deps          []core.Uid
	failInit      bool
	initCalls     int
	shutdownCalls int
}

func (p *testPlugin) ClassUid() core.Uid       { return p.classUid }
func (p *testPlugin) Name() string             { return p.name }
func (p *testPlugin) Version() plugin.Version  { return plugin.Version{Major: 1} }
func (p *testPlugin) Dependencies() []core.Uid { return p.deps }

func (p *testPlugin) Initialize(host plugin.Host) core.ReturnValue {
	p.initCalls++
	host.RegisterType(newWidgetClassFactory())
	host.RegisterAnyType(core.MakeHash("pluginValue"), func() value.Any {
		return value.NewAnyValue(value.Int32)
	})
	if p.failInit {
		return core.Fail
	}
	return core.Success
}

func (p *testPlugin) Shutdown(host plugin.Host) core.ReturnValue {
	p.shutdownCalls++
	return core.Success
}

// fakeLoader resolves paths to preconfigured plugins without
// touching the dynamic linker.
type fakeLoader struct {
	plugins map[string]plugin.Plugin
	closed  []string
}

type fakeLibrary struct {
	path   string
	loader *fakeLoader
}

func (l *fakeLibrary) Path() string { return l.path }

func (l *fakeLibrary) Close() error {
	l.loader.closed = append(l.loader.closed, l.path)
	return nil
}

func (l *fakeLoader) Load(path string) (plugin.Plugin, plugin.Library, error) {
	loaded, exists := l.plugins[path]
	if !exists {
		return nil, nil, fmt.Errorf("no plugin at %s", path)
	}
	return loaded, &fakeLibrary{path: path, loader: l}, nil
}

type PluginRegistryTestSuite struct {
	logger *internal.CaptureLogger
	loader *fakeLoader
	inst   Instance
	suite.Suite
}

func (s *PluginRegistryTestSuite) SetupTest() {
	s.logger = internal.NewCaptureLogger()
	s.loader = &fakeLoader{plugins: map[string]plugin.Plugin{}}
	s.inst = New(WithLogger(s.logger), WithLoader(s.loader))
}

func (s *PluginRegistryTestSuite) newTestPlugin(name string) *testPlugin {
	return &testPlugin{
		classUid: core.MakeHash(name),
		name:     name,
	}
}

func (s *PluginRegistryTestSuite) Test_load_plugin_registers_types() {
	p := s.newTestPlugin("widget-plugin")
	s.Require().Equal(core.Success, s.inst.LoadPlugin(p))
	s.Assert().Equal(1, p.initCalls)
	s.Assert().Equal(1, s.inst.PluginCount())
	s.Assert().Same(p, s.inst.FindPlugin(p.classUid))

	obj := s.inst.Create(widgetClassInfo.Uid)
	s.Require().NotNil(obj)
	obj.Unref()
}

func (s *PluginRegistryTestSuite) Test_loading_same_plugin_twice_is_a_no_op() {
	p := s.newTestPlugin("widget-plugin")
	s.Require().Equal(core.Success, s.inst.LoadPlugin(p))

	again := s.newTestPlugin("widget-plugin")
	s.Assert().Equal(core.NothingToDo, s.inst.LoadPlugin(again))
	s.Assert().Equal(0, again.initCalls)
	s.Assert().Equal(1, s.inst.PluginCount())
}

func (s *PluginRegistryTestSuite) Test_unload_sweeps_types_the_plugin_forgot() {
	p := s.newTestPlugin("widget-plugin")
	s.Require().Equal(core.Success, s.inst.LoadPlugin(p))
	s.Require().NotNil(s.inst.CreateAny(core.MakeHash("pluginValue")))

	s.Require().Equal(core.Success, s.inst.UnloadPlugin(p.classUid))
	s.Assert().Equal(1, p.shutdownCalls)
	s.Assert().Equal(0, s.inst.PluginCount())
	s.Assert().Nil(s.inst.FindPlugin(p.classUid))

	s.Assert().Nil(s.inst.Create(widgetClassInfo.Uid))
	s.Assert().Nil(s.inst.CreateAny(core.MakeHash("pluginValue")))
}

func (s *PluginRegistryTestSuite) Test_unload_unknown_plugin_is_a_no_op() {
	s.Assert().Equal(core.NothingToDo, s.inst.UnloadPlugin(core.MakeHash("never-loaded")))
}

func (s *PluginRegistryTestSuite) Test_failed_initialize_rolls_back_registrations() {
	p := s.newTestPlugin("broken-plugin")
	p.failInit = true

	s.Assert().Equal(core.Fail, s.inst.LoadPlugin(p))
	s.Assert().Equal(0, s.inst.PluginCount())
	s.Assert().Nil(s.inst.Create(widgetClassInfo.Uid))
	s.Assert().Nil(s.inst.CreateAny(core.MakeHash("pluginValue")))
	s.Assert().Equal(1, s.logger.CountLevel("error"))
}

func (s *PluginRegistryTestSuite) Test_load_plugin_from_path() {
	p := s.newTestPlugin("disk-plugin")
	s.loader.plugins["plugins/disk-plugin.so"] = p

	s.Require().Equal(core.Success, s.inst.LoadPluginFromPath("plugins/disk-plugin.so"))
	s.Assert().Equal(1, s.inst.PluginCount())
	s.Assert().Empty(s.loader.closed)

	s.Require().Equal(core.Success, s.inst.UnloadPlugin(p.classUid))
	s.Assert().Equal([]string{"plugins/disk-plugin.so"}, s.loader.closed)
}

func (s *PluginRegistryTestSuite) Test_library_closed_when_load_is_rejected() {
	p := s.newTestPlugin("broken-plugin")
	p.failInit = true
	s.loader.plugins["plugins/broken.so"] = p

	s.Assert().Equal(core.Fail, s.inst.LoadPluginFromPath("plugins/broken.so"))
	s.Assert().Equal([]string{"plugins/broken.so"}, s.loader.closed)
}

func (s *PluginRegistryTestSuite) Test_missing_library_fails_cleanly() {
	s.Assert().Equal(core.Fail, s.inst.LoadPluginFromPath("plugins/missing.so"))
	s.Assert().Equal(0, s.inst.PluginCount())
}

func (s *PluginRegistryTestSuite) Test_load_manifests_in_dependency_order() {
	base := s.newTestPlugin("base-plugin")
	dependent := s.newTestPlugin("dependent-plugin")
	s.loader.plugins["plugins/base.so"] = base
	s.loader.plugins["plugins/dependent.so"] = dependent

	fs := afero.NewMemMapFs()
	writeManifest := func(path, contents string) {
		s.Require().NoError(afero.WriteFile(fs, path, []byte(contents), 0o644))
	}
	// The dependent plugin sorts first by file name; dependency
	// ordering must still load the base plugin before it.
	writeManifest("plugins/a-dependent.yaml", fmt.Sprintf(
		"name: dependent-plugin\nclassUid: %s\nversion:\n  major: 1\ndependencies:\n  - %s\nlibrary: dependent.so\n",
		dependent.classUid, base.classUid,
	))
	writeManifest("plugins/b-base.yaml", fmt.Sprintf(
		"name: base-plugin\nclassUid: %s\nversion:\n  major: 1\nlibrary: base.so\n",
		base.classUid,
	))

	s.Require().Equal(core.Success, s.inst.LoadManifests(fs, "plugins"))
	loaded := s.inst.LoadedPlugins()
	s.Require().Len(loaded, 2)
	s.Assert().Equal(base.classUid, loaded[0])
	s.Assert().Equal(dependent.classUid, loaded[1])
}

func (s *PluginRegistryTestSuite) Test_load_manifests_empty_directory() {
	fs := afero.NewMemMapFs()
	s.Require().NoError(fs.MkdirAll("plugins", 0o755))
	s.Assert().Equal(core.NothingToDo, s.inst.LoadManifests(fs, "plugins"))
}

func TestPluginRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(PluginRegistryTestSuite))
}
