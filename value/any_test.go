package value

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/velkstack/velk/core"
)

type AnyTestSuite struct {
	suite.Suite
}

func (s *AnyTestSuite) Test_default_constructed_holds_zero_value() {
	a := NewAnyValue(Int32)
	s.Assert().Equal(int32(0), a.Get())
}

func (s *AnyTestSuite) Test_set_and_get_value() {
	a := NewAnyValue(Float32)
	s.Assert().Equal(core.Success, a.Set(42))
	s.Assert().Equal(float32(42), a.Get())
}

func (s *AnyTestSuite) Test_set_same_value_returns_nothing_to_do() {
	a := NewAnyValue(Int32)
	a.Set(5)
	s.Assert().Equal(core.NothingToDo, a.Set(5))
	s.Assert().Equal(core.Success, a.Set(6))
}

func (s *AnyTestSuite) Test_get_data_writes_exact_byte_pattern() {
	a := NewAnyValueOf(Int32, 7)
	dst := make([]byte, 4)
	s.Require().Equal(core.Success, a.GetData(dst, Int32.Uid))
	s.Assert().Equal([]byte{7, 0, 0, 0}, dst)
}

func (s *AnyTestSuite) Test_get_data_size_mismatch_fails() {
	a := NewAnyValueOf(Int32, 7)
	s.Assert().Equal(core.Fail, a.GetData(make([]byte, 8), Int32.Uid))
	s.Assert().Equal(core.Fail, a.GetData(make([]byte, 2), Int32.Uid))
}

func (s *AnyTestSuite) Test_set_data_incompatible_uid_fails_without_mutation() {
	a := NewAnyValueOf(Int32, 7)
	ret := a.SetData([]byte{1, 2, 3, 4}, Float32.Uid)
	s.Assert().Equal(core.Fail, ret)
	s.Assert().Equal(int32(7), a.Get())
}

func (s *AnyTestSuite) Test_set_data_size_mismatch_fails_without_mutation() {
	a := NewAnyValueOf(Int32, 7)
	s.Assert().Equal(core.Fail, a.SetData([]byte{1, 2}, Int32.Uid))
	s.Assert().Equal(int32(7), a.Get())
}

func (s *AnyTestSuite) Test_typed_wrapper_rejects_incompatible_container() {
	floats := NewAnyValueOf(Float32, 1)
	_, ok := Int32.Get(floats)
	s.Assert().False(ok)
}

func (s *AnyTestSuite) Test_clone_produces_independent_copy() {
	original := NewAnyValueOf(Float32, 99)
	cloned := original.Clone()
	s.Require().NotNil(cloned)

	original.Set(0)
	clonedVal, ok := Float32.Get(cloned)
	s.Require().True(ok)
	s.Assert().Equal(float32(99), clonedVal)
}

func (s *AnyTestSuite) Test_copy_from_compatible() {
	a := NewAnyValueOf(Int32, 42)
	b := NewAnyValue(Int32)
	s.Assert().Equal(core.Success, b.CopyFrom(a))
	s.Assert().Equal(int32(42), b.Get())
	s.Assert().Equal(core.NothingToDo, b.CopyFrom(a))
}

func (s *AnyTestSuite) Test_copy_from_incompatible_fails() {
	a := NewAnyValueOf(Int32, 42)
	b := NewAnyValue(Float32)
	s.Assert().Equal(core.Fail, b.CopyFrom(a))
}

func (s *AnyTestSuite) Test_copy_from_picks_first_compatible_uid() {
	legacy := core.MakeHash("int32-legacy")
	src := NewAnyValueOf(Int32.WithAliases(legacy), 11)
	dst := NewAnyValue(TypeDesc[int32]{
		Uid:     legacy,
		Name:    "int32-legacy",
		Size:    4,
		Aliases: []core.Uid{Int32.Uid},
		Encode:  Int32.Encode,
		Decode:  Int32.Decode,
	})

	uid, ok := FirstCompatible(dst, src)
	s.Require().True(ok)
	s.Assert().Equal(legacy, uid)
	s.Assert().Equal(core.Success, dst.CopyFrom(src))
	s.Assert().Equal(int32(11), dst.Get())
}

func (s *AnyTestSuite) Test_string_values_are_variable_length() {
	a := NewAnyValue(String)
	s.Assert().Equal(core.Success, a.Set("hello"))
	s.Assert().Equal("hello", a.Get())
	s.Assert().Equal([]byte("hello"), a.Encoded())
	s.Assert().Equal(core.NothingToDo, a.SetData([]byte("hello"), String.Uid))
	s.Assert().Equal(core.Success, a.SetData([]byte("longer string"), String.Uid))
}

func (s *AnyTestSuite) Test_uid_values_round_trip() {
	a := NewAnyValue(UidType)
	uid := core.MakeHash("Widget")
	s.Assert().Equal(core.Success, UidType.Set(a, uid))
	stored, ok := UidType.Get(a)
	s.Require().True(ok)
	s.Assert().Equal(uid, stored)
}

func TestAnyTestSuite(t *testing.T) {
	suite.Run(t, new(AnyTestSuite))
}

type AnyRefTestSuite struct {
	suite.Suite
}

func (s *AnyRefTestSuite) Test_read_write_through_external_pointer() {
	storage := float32(100)
	ref := NewAnyRef(Float32, &storage)

	s.Assert().Equal(float32(100), ref.Get())

	ref.Set(200)
	s.Assert().Equal(float32(200), storage)

	storage = 300
	s.Assert().Equal(float32(300), ref.Get())
}

func (s *AnyRefTestSuite) Test_clone_detaches_from_storage() {
	storage := float32(42)
	ref := NewAnyRef(Float32, &storage)
	cloned := ref.Clone()
	s.Require().NotNil(cloned)

	storage = 0
	clonedVal, ok := Float32.Get(cloned)
	s.Require().True(ok)
	s.Assert().Equal(float32(42), clonedVal)
}

func (s *AnyRefTestSuite) Test_set_same_value_returns_nothing_to_do() {
	storage := int32(5)
	ref := NewAnyRef(Int32, &storage)
	s.Assert().Equal(core.NothingToDo, ref.Set(5))
	s.Assert().Equal(core.Success, ref.Set(6))
}

func TestAnyRefTestSuite(t *testing.T) {
	suite.Run(t, new(AnyRefTestSuite))
}

func TestObjectAnyBoxesReference(t *testing.T) {
	type widget struct{ name string }

	w := &widget{name: "boxed"}
	uid := core.MakeHash("Widget")
	boxed := NewObjectAny(uid, w)

	unboxed, ok := ObjectFrom(boxed)
	if !ok || unboxed != any(w) {
		t.Fatalf("expected boxed widget back")
	}

	cloned := boxed.Clone()
	clonedObj, ok := ObjectFrom(cloned)
	if !ok || clonedObj != any(w) {
		t.Fatalf("expected clone to share the boxed reference")
	}

	if ret := boxed.SetData([]byte{1}, uid); ret != core.Fail {
		t.Fatalf("expected byte-level writes to fail, got %s", ret)
	}
}
