package object

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/velkstack/velk/core"
)

// widget is a minimal concrete class for exercising dispatch,
// refcounting and factory construction.
type widget struct {
	Base
	disposed bool
}

var widgetInterfaceUid = core.MakeHash("velktest.Widget")

var widgetClassInfo = &core.ClassInfo{
	Uid:  core.MakeHash("Widget"),
	Name: "Widget",
}

func (w *widget) Dispose() {
	w.disposed = true
}

func newWidgetFactory() Factory {
	return NewFactory(
		widgetClassInfo,
		func() *widget { return &widget{} },
		func(w *widget, _ core.ObjectFlags) {
			w.RegisterInterface(widgetInterfaceUid, w)
		},
	)
}

type ObjectTestSuite struct {
	suite.Suite
}

func (s *ObjectTestSuite) Test_get_interface_is_stable_and_reflexive() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)
	s.Require().NotNil(obj)
	defer block.DecStrong()

	first := obj.GetInterface(widgetInterfaceUid)
	s.Require().NotNil(first)
	second := obj.GetInterface(widgetInterfaceUid)
	s.Assert().Same(first.(*widget), second.(*widget))

	s.Assert().NotNil(obj.GetInterface(InterfaceUid))
	s.Assert().Nil(obj.GetInterface(core.MakeHash("velktest.Unknown")))
}

func (s *ObjectTestSuite) Test_as_resolves_typed_interface() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)
	defer block.DecStrong()

	w, ok := As[*widget](obj, widgetInterfaceUid)
	s.Require().True(ok)
	s.Assert().Same(obj.(*widget), w)

	_, ok = As[*widget](obj, core.MakeHash("velktest.Unknown"))
	s.Assert().False(ok)
}

func (s *ObjectTestSuite) Test_class_identity() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagReadOnly)
	defer block.DecStrong()

	s.Assert().Equal(widgetClassInfo.Uid, obj.ClassUid())
	s.Assert().Equal("Widget", obj.ClassName())
	s.Assert().True(obj.(*widget).ReadOnly())
}

func (s *ObjectTestSuite) Test_ref_unref_destroys_at_zero() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)
	w := obj.(*widget)

	obj.Ref()
	s.Assert().Equal(int32(2), block.StrongCount())
	obj.Unref()
	s.Assert().False(w.disposed)

	obj.Unref()
	s.Assert().True(w.disposed)
	s.Assert().True(block.Expired())
}

func (s *ObjectTestSuite) Test_weak_observes_expiration() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)
	strong := Adopt(obj, block)

	weak := strong.Weak()
	s.Assert().False(weak.Expired())

	promoted, ok := weak.Lock()
	s.Require().True(ok)
	s.Assert().Equal(int32(2), block.StrongCount())
	promoted.Release()

	strong.Release()
	s.Assert().True(weak.Expired())
	_, ok = weak.Lock()
	s.Assert().False(ok)
	weak.Release()
}

func (s *ObjectTestSuite) Test_strong_of_shares_ownership() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)
	strong := Adopt(obj, block)

	shared := StrongOf(obj)
	s.Require().True(shared.IsValid())
	s.Assert().Equal(int32(2), block.StrongCount())
	shared.Release()
	strong.Release()
	s.Assert().True(block.Expired())
}

func (s *ObjectTestSuite) Test_self_is_weak_and_promotable() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)
	initable := obj.(Initializer)
	strong := Adopt(obj, block)
	initable.StampSelf(strong)

	// Stamping must not extend the object's lifetime.
	s.Assert().Equal(int32(1), block.StrongCount())

	self := obj.Self()
	s.Require().True(self.IsValid())
	s.Assert().Same(obj.(*widget), self.Get().(*widget))
	self.Release()

	strong.Release()
	s.Assert().True(block.Expired())
	s.Assert().False(obj.Self().IsValid())
}

func (s *ObjectTestSuite) Test_factory_reports_instance_layout() {
	factory := newWidgetFactory()
	s.Assert().Equal(widgetClassInfo, factory.ClassInfo())
	s.Assert().Greater(int(factory.InstanceSize()), 0)
	s.Assert().Greater(int(factory.InstanceAlignment()), 0)
}

func (s *ObjectTestSuite) Test_pooled_construct_into_reuses_instance() {
	factory := newWidgetFactory()
	pooled, ok := factory.(PoolFactory)
	s.Require().True(ok)

	obj, block := factory.CreateInstance(core.FlagNone)
	w := obj.(*widget)
	pooled.DestroyInPlace(obj)
	s.Assert().True(w.disposed)
	// The pool keeps the memory; the original block is abandoned.
	_ = block

	ret := pooled.ConstructInto(obj, nil, core.FlagReadOnly)
	s.Require().Equal(core.Success, ret)
	s.Assert().False(w.disposed)
	s.Assert().True(w.ReadOnly())
	s.Assert().NotNil(obj.GetInterface(widgetInterfaceUid))

	obj.Unref()
	s.Assert().True(w.disposed)
}

func (s *ObjectTestSuite) Test_concurrent_ref_unref_is_balanced() {
	obj, block := newWidgetFactory().CreateInstance(core.FlagNone)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 1000; n++ {
				obj.Ref()
				obj.Unref()
			}
		}()
	}
	wg.Wait()

	s.Assert().Equal(int32(1), block.StrongCount())
	obj.Unref()
	s.Assert().True(block.Expired())
}

func TestObjectTestSuite(t *testing.T) {
	suite.Run(t, new(ObjectTestSuite))
}
