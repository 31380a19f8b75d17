package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/wordboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestVocabPatch(t *testing.T) {
	convey.Convey("Given a vocabulary patch document", t, func() {
		convey.Convey("When a field is omitted", func() {
			var p model.VocabPatch
			err := json.Unmarshal([]byte(`{"meaning":"a greeting"}`), &p)

			convey.Convey("Then only the present field is set", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.WordType.Set, convey.ShouldBeFalse)
				convey.So(p.Example.Set, convey.ShouldBeFalse)
				convey.So(p.Meaning.Set, convey.ShouldBeTrue)
				convey.So(*p.Meaning.Value, convey.ShouldEqual, "a greeting")
			})
		})

		convey.Convey("When a field is explicitly null", func() {
			var p model.VocabPatch
			err := json.Unmarshal([]byte(`{"example":null}`), &p)

			convey.Convey("Then it is present with a nil value", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Example.Set, convey.ShouldBeTrue)
				convey.So(p.Example.Value, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a field is an empty string", func() {
			var p model.VocabPatch
			err := json.Unmarshal([]byte(`{"word_type":""}`), &p)

			convey.Convey("Then it is present with an empty value", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.WordType.Set, convey.ShouldBeTrue)
				convey.So(p.WordType.Value, convey.ShouldNotBeNil)
				convey.So(*p.WordType.Value, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When a field has the wrong type", func() {
			var p model.VocabPatch
			err := json.Unmarshal([]byte(`{"meaning":42}`), &p)

			convey.Convey("Then decoding fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the document is empty", func() {
			var p model.VocabPatch
			err := json.Unmarshal([]byte(`{}`), &p)

			convey.Convey("Then the patch is empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Empty(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestVocabPatchApply(t *testing.T) {
	convey.Convey("Given an existing entry", t, func() {
		noun, meaning := "noun", "old meaning"
		e := model.VocabEntry{ID: 7, Word: "hello", WordType: &noun, Meaning: &meaning}

		convey.Convey("When applying a patch that sets one field and clears another", func() {
			p := model.VocabPatch{WordType: model.SetTo("interjection"), Meaning: model.SetNull()}
			p.Apply(&e)

			convey.Convey("Then only those fields change", func() {
				convey.So(*e.WordType, convey.ShouldEqual, "interjection")
				convey.So(e.Meaning, convey.ShouldBeNil)
				convey.So(e.Example, convey.ShouldBeNil)
				convey.So(e.Word, convey.ShouldEqual, "hello")
				convey.So(e.ID, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When applying an empty patch", func() {
			before := e
			model.VocabPatch{}.Apply(&e)

			convey.Convey("Then nothing changes", func() {
				convey.So(e, convey.ShouldResemble, before)
			})
		})
	})
}

func TestVocabInputBlank(t *testing.T) {
	convey.Convey("Given vocabulary inputs", t, func() {
		var missing *model.VocabInput

		convey.So(missing.Blank(), convey.ShouldBeTrue)
		convey.So((&model.VocabInput{Word: "   "}).Blank(), convey.ShouldBeTrue)
		convey.So((&model.VocabInput{Word: "hello"}).Blank(), convey.ShouldBeFalse)
	})
}

func TestWordSet(t *testing.T) {
	convey.Convey("Given a word set", t, func() {
		convey.Convey("When it is empty", func() {
			data, err := json.Marshal(model.BulkResult{WordsReceived: 3, WordsInserted: 3})

			convey.Convey("Then it is reported as none", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, `{"words_received":3,"words_inserted":3,"existing_words":"none"}`)
			})
		})

		convey.Convey("When words repeat", func() {
			s := model.NewWordSet("existing", "other", "existing")

			convey.Convey("Then each is kept once in insertion order", func() {
				convey.So(s.Len(), convey.ShouldEqual, 2)
				convey.So(s.Words(), convey.ShouldResemble, []string{"existing", "other"})
				convey.So(s.Contains("other"), convey.ShouldBeTrue)
				convey.So(s.Contains("missing"), convey.ShouldBeFalse)

				data, err := json.Marshal(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, `["existing","other"]`)
			})
		})

		convey.Convey("When decoding both wire forms", func() {
			var none, list model.WordSet
			errNone := json.Unmarshal([]byte(`"none"`), &none)
			errList := json.Unmarshal([]byte(`["a","b"]`), &list)

			convey.Convey("Then both decode", func() {
				convey.So(errNone, convey.ShouldBeNil)
				convey.So(none.Len(), convey.ShouldEqual, 0)
				convey.So(errList, convey.ShouldBeNil)
				convey.So(list.Words(), convey.ShouldResemble, []string{"a", "b"})
			})
		})
	})
}
