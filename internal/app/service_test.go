package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	service "github.com/okian/lessongen/internal/app"
	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
	"github.com/okian/lessongen/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type fakeRecorder struct {
	mu       sync.Mutex
	lessons  map[string][]string
	rejected map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{lessons: map[string][]string{}, rejected: map[string]int{}}
}

func (f *fakeRecorder) RecordLesson(mode string, flagged []string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lessons[mode] = append(f.lessons[mode], flagged...)
}

func (f *fakeRecorder) RecordValidationFailure(mode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[mode]++
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats, ShouldContainKey, "pitching")
			So(stats, ShouldContainKey, "hitting")
		})
	})
}

func TestService_Pitching(t *testing.T) {
	Convey("Given a service with a fake recorder", t, func() {
		rec := newFakeRecorder()
		svc := service.New(service.WithRecorder(rec), service.WithLogger(logger.Get()))
		ctx := context.Background()

		Convey("When a valid fastball is submitted", func() {
			res, err := svc.Pitching(ctx, model.PitchingMetrics{
				Velocity:       88,
				PitchType:      model.FourSeamFastball,
				SpinEfficiency: model.Float(82),
			})

			Convey("Then the lesson should be returned and recorded", func() {
				So(err, ShouldBeNil)
				So(res.Mode, ShouldEqual, lesson.ModePitching)
				So(rec.lessons["pitching"], ShouldResemble, []string{"Spin Efficiency"})
			})

			Convey("And stats should count it as flagged", func() {
				stats := svc.GetStats()["pitching"].(map[string]interface{})
				So(stats["served"], ShouldEqual, int64(1))
				So(stats["flagged"], ShouldEqual, int64(1))
				So(stats["clean"], ShouldEqual, int64(0))
			})
		})

		Convey("When an out-of-range record is submitted", func() {
			_, err := svc.Pitching(ctx, model.PitchingMetrics{
				Velocity:   88,
				PitchType:  model.Slider,
				GyroDegree: model.Float(120),
			})

			Convey("Then it should be rejected before evaluation", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(model.Fields(err), ShouldHaveLength, 1)
				So(rec.rejected["pitching"], ShouldEqual, 1)
				So(rec.lessons["pitching"], ShouldBeEmpty)
			})
		})
	})
}

func TestService_Hitting(t *testing.T) {
	Convey("Given a service with a fixed clock", t, func() {
		rec := newFakeRecorder()
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		now := base
		svc := service.New(service.WithRecorder(rec), service.WithClock(func() time.Time { return now }))
		ctx := context.Background()

		Convey("When a clean batted ball is submitted", func() {
			res, err := svc.Hitting(ctx, model.HittingMetrics{ExitVelocity: 95, Distance: 300, LaunchAngle: 20})

			Convey("Then the fallback lesson should be returned", func() {
				So(err, ShouldBeNil)
				So(res.MetricFlags.Len(), ShouldEqual, 0)
				So(res.Drills, ShouldHaveLength, 1)
			})

			Convey("And stats should count it as clean", func() {
				now = base.Add(90 * time.Second)
				stats := svc.GetStats()
				hitting := stats["hitting"].(map[string]interface{})
				So(hitting["clean"], ShouldEqual, int64(1))
				So(stats["uptimeSeconds"], ShouldEqual, int64(90))
			})
		})

		Convey("When concurrent requests are submitted", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = svc.Hitting(ctx, model.HittingMetrics{ExitVelocity: float64(60 + i), Distance: 250, LaunchAngle: 15})
				}(i)
			}
			wg.Wait()

			Convey("Then every request should be counted", func() {
				hitting := svc.GetStats()["hitting"].(map[string]interface{})
				So(hitting["served"], ShouldEqual, int64(50))
				So(hitting["flagged"], ShouldEqual, int64(20)) // exit velocity 60..79
			})
		})
	})
}
