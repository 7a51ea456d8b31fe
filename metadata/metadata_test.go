package metadata

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/event"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/property"
	"github.com/velkstack/velk/value"
)

// fakeMemberFactory materialises members without a registry
// instance and records what was requested.
type fakeMemberFactory struct {
	propertyRequests []core.Uid
	defaults         [][]byte
	created          int
}

func (f *fakeMemberFactory) NewMemberProperty(typeUid core.Uid, defaultValue []byte) (*property.Property, core.ReturnValue) {
	f.propertyRequests = append(f.propertyRequests, typeUid)
	f.defaults = append(f.defaults, defaultValue)
	f.created++
	prop := property.New(property.Deps{
		NewEvent:    func() *event.Event { return event.New(nil) },
		NewFunction: func() *function.Function { return function.New(nil) },
	}, core.NewNopLogger())
	backing := value.NewAnyValue(value.Float32)
	if len(defaultValue) > 0 {
		backing.SetData(defaultValue, typeUid)
	}
	prop.SetAny(backing)
	return prop, core.Success
}

func (f *fakeMemberFactory) NewMemberEvent() (*event.Event, core.ReturnValue) {
	f.created++
	return event.New(nil), core.Success
}

func (f *fakeMemberFactory) NewMemberFunction() (*function.Function, core.ReturnValue) {
	f.created++
	return function.New(nil), core.Success
}

// gauge is a metadata-capable test class.
type gauge struct {
	Object
	scaled int32
}

var gaugeMembers = ConcatMembers(
	[]core.MemberDesc{
		{Kind: core.MemberKindProperty, Name: "level", TypeUid: value.Float32.Uid},
		{
			Kind:    core.MemberKindProperty,
			Name:    "limit",
			TypeUid: value.Float32.Uid,
			Default: value.Float32.Encode(10),
		},
	},
	[]core.MemberDesc{
		{Kind: core.MemberKindEvent, Name: "onAlarm"},
		{
			Kind: core.MemberKindFunction,
			Name: "scale",
			Bind: function.BoundFn(func(ctx any, args function.FnArgs) value.Any {
				owner := ctx.(*gauge)
				factor, ok := value.Int32.Get(args.At(0))
				if !ok {
					return nil
				}
				owner.scaled = factor * 2
				return value.NewAnyValueOf(value.Int32, owner.scaled)
			}),
		},
	},
)

var gaugeClassInfo = &core.ClassInfo{
	Uid:     core.MakeHash("Gauge"),
	Name:    "Gauge",
	Members: gaugeMembers,
}

func newGauge(factory MemberFactory) *gauge {
	g := &gauge{}
	g.InitObject(gaugeClassInfo, core.FlagNone)
	g.RegisterMetadataInterface()
	g.SetMetadataContainer(NewContainer(g, gaugeClassInfo.Members, factory))
	return g
}

type MetadataTestSuite struct {
	factory *fakeMemberFactory
	suite.Suite
}

func (s *MetadataTestSuite) SetupTest() {
	s.factory = &fakeMemberFactory{}
}

func (s *MetadataTestSuite) Test_static_metadata_concatenates_interface_declarations() {
	g := newGauge(s.factory)
	descs := g.StaticMetadata()
	s.Require().Len(descs, 4)
	s.Assert().Equal("level", descs[0].Name)
	s.Assert().Equal("limit", descs[1].Name)
	s.Assert().Equal("onAlarm", descs[2].Name)
	s.Assert().Equal("scale", descs[3].Name)
}

func (s *MetadataTestSuite) Test_members_materialise_lazily_and_cache() {
	g := newGauge(s.factory)
	s.Assert().Equal(0, s.factory.created)

	level := g.GetProperty("level")
	s.Require().NotNil(level)
	s.Assert().Equal(1, s.factory.created)
	s.Assert().Equal([]core.Uid{value.Float32.Uid}, s.factory.propertyRequests)

	s.Assert().Same(level, g.GetProperty("level"))
	s.Assert().Equal(1, s.factory.created)
}

func (s *MetadataTestSuite) Test_property_default_bytes_reach_factory() {
	g := newGauge(s.factory)
	limit := g.GetProperty("limit")
	s.Require().NotNil(limit)
	s.Require().Len(s.factory.defaults, 1)
	s.Assert().Equal(value.Float32.Encode(10), s.factory.defaults[0])

	stored, ok := value.Float32.Get(limit.Value())
	s.Require().True(ok)
	s.Assert().Equal(float32(10), stored)
}

func (s *MetadataTestSuite) Test_event_member_lookup() {
	g := newGauge(s.factory)
	onAlarm := g.GetEvent("onAlarm")
	s.Require().NotNil(onAlarm)
	s.Assert().Same(onAlarm, g.GetEvent("onAlarm"))
}

func (s *MetadataTestSuite) Test_function_member_binds_owner_as_context() {
	g := newGauge(s.factory)
	scale := g.GetFunction("scale")
	s.Require().NotNil(scale)

	result := scale.Invoke(function.Args(value.NewAnyValueOf(value.Int32, 4)), function.Immediate)
	s.Require().NotNil(result)
	got, ok := value.Int32.Get(result)
	s.Require().True(ok)
	s.Assert().Equal(int32(8), got)
	s.Assert().Equal(int32(8), g.scaled)
}

func (s *MetadataTestSuite) Test_lookup_is_case_sensitive_and_kind_aware() {
	g := newGauge(s.factory)
	s.Assert().Nil(g.GetProperty("Level"))
	s.Assert().Nil(g.GetProperty("unknown"))
	s.Assert().Nil(g.GetProperty("onAlarm"))
	s.Assert().Nil(g.GetEvent("level"))
	s.Assert().Nil(g.GetFunction("level"))
}

func (s *MetadataTestSuite) Test_metadata_capability_resolves_through_dispatch() {
	g := newGauge(s.factory)
	meta, ok := object.As[Metadata](g, InterfaceUid)
	s.Require().True(ok)
	s.Assert().Len(meta.StaticMetadata(), 4)
}

func (s *MetadataTestSuite) Test_object_without_container_returns_nil_members() {
	g := &gauge{}
	g.InitObject(gaugeClassInfo, core.FlagNone)
	s.Assert().Nil(g.GetProperty("level"))
	s.Assert().Nil(g.StaticMetadata())
}

func TestMetadataTestSuite(t *testing.T) {
	suite.Run(t, new(MetadataTestSuite))
}
