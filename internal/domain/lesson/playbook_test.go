package lesson_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/lessongen/internal/domain/lesson"
	. "github.com/smartystreets/goconvey/convey"
)

func always(v float64) func(float64) (float64, bool) {
	return func(float64) (float64, bool) { return v, true }
}

func TestPlaybook_Evaluate(t *testing.T) {
	Convey("Given a playbook whose rules all fire", t, func() {
		drill := func(title string) *lesson.Drill {
			return &lesson.Drill{Title: title, Why: "w", Steps: []string{"s"}}
		}
		pb := lesson.Playbook[float64]{
			Mode:    lesson.ModeHitting,
			Summary: "flagged",
			Rules: []lesson.Rule[float64]{
				{Metric: "A", Target: "t1", Note: "first", Check: always(1), Priority: "p1", Drill: drill("d1")},
				{Metric: "B", Target: "t2", Note: "n", Check: always(2), Priority: "p2", Drill: drill("d2")},
				{Metric: "A", Target: "t3", Note: "second", Check: always(3), Priority: "p1", Drill: drill("d3")},
				{Metric: "C", Target: "t4", Note: "n", Check: always(4), Priority: "p3", UnlessListed: "p2", Drill: drill("d4")},
			},
			Fallback: lesson.Fallback{Summary: "clean", Priority: "keep going", Drill: *drill("base")},
		}

		Convey("When evaluating", func() {
			res := pb.Evaluate(0)

			Convey("Then a repeated metric should overwrite in place", func() {
				So(res.MetricFlags.Keys(), ShouldResemble, []string{"A", "B", "C"})
				f, _ := res.MetricFlags.Get("A")
				So(f.Value, ShouldEqual, 3)
				So(f.Note, ShouldEqual, "second")
				So(f.Target, ShouldEqual, "t3")
			})

			Convey("And priorities should be deduplicated with the guarded one skipped", func() {
				So(res.Priorities, ShouldResemble, []string{"p1", "p2"})
			})

			Convey("And drills should be capped at three in firing order", func() {
				So(titles(res.Drills), ShouldResemble, []string{"d1", "d2", "d3"})
				So(res.Summary, ShouldEqual, "flagged")
			})

			Convey("And the JSON object should follow insertion order", func() {
				b, err := json.Marshal(res.MetricFlags)
				So(err, ShouldBeNil)
				So(string(b), ShouldStartWith, `{"A":{"value":3,"target":"t3","note":"second","flag":true},"B":`)
			})
		})
	})

	Convey("Given a playbook whose rules never fire", t, func() {
		pb := lesson.Playbook[float64]{
			Mode:    lesson.ModePitching,
			Summary: "flagged",
			Rules: []lesson.Rule[float64]{
				{Metric: "A", Check: func(float64) (float64, bool) { return 0, false }, Priority: "p1"},
			},
			Fallback: lesson.Fallback{Summary: "clean", Priority: "keep going", Drill: lesson.Drill{Title: "base"}},
		}

		Convey("Then the fallback should be used", func() {
			res := pb.Evaluate(1)
			So(res.Summary, ShouldEqual, "clean")
			So(res.Priorities, ShouldResemble, []string{"keep going"})
			So(titles(res.Drills), ShouldResemble, []string{"base"})
			So(res.MetricFlags.Len(), ShouldEqual, 0)
		})
	})
}

func TestMetricFlags_UnmarshalJSON(t *testing.T) {
	Convey("Given encoded flags", t, func() {
		Convey("When decoding an ordered object", func() {
			var m lesson.MetricFlags
			err := json.Unmarshal([]byte(`{"Z":{"value":1,"target":"a","note":"b","flag":true},"A":{"value":2,"target":"c","note":"d","flag":true}}`), &m)

			Convey("Then order should be kept", func() {
				So(err, ShouldBeNil)
				So(m.Keys(), ShouldResemble, []string{"Z", "A"})
			})
		})

		Convey("When decoding null", func() {
			var m lesson.MetricFlags
			So(json.Unmarshal([]byte(`null`), &m), ShouldBeNil)
			So(m.Len(), ShouldEqual, 0)
		})

		Convey("When decoding a non-object", func() {
			var m lesson.MetricFlags
			So(json.Unmarshal([]byte(`[1,2]`), &m), ShouldNotBeNil)
		})
	})
}
