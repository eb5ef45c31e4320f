package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/lessongen/internal/adapters/http/api"
	service "github.com/okian/lessongen/internal/app"
	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
	"github.com/okian/lessongen/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
	goleak.VerifyTestMain(m)
}

type failingDeps struct{}

func (failingDeps) Pitching(context.Context, model.PitchingMetrics) (lesson.Result, error) {
	return lesson.Result{}, errors.New("boom")
}

func (failingDeps) Hitting(context.Context, model.HittingMetrics) (lesson.Result, error) {
	return lesson.Result{}, errors.New("boom")
}

func newHandler(opts ...api.Option) (http.Handler, *service.Service) {
	svc := service.New(service.WithLogger(logger.Get()))
	srv := api.NewServer(svc, svc, opts...)
	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	return srv.Handler(mux), svc
}

func do(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []model.FieldError `json:"details"`
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var e errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e
}

func TestLessonPitching(t *testing.T) {
	Convey("Given the lesson API", t, func() {
		h, svc := newHandler()

		Convey("When posting a flagged four-seam fastball", func() {
			body := `{"velocity":88,"total_spin":2200,"pitch_type":"Four-Seam Fastball","spin_efficiency":82,"gyro_degree":25,"vertical_break":8,"horizontal_break":5}`
			w := do(h, http.MethodPost, "/lesson/pitching", body)

			Convey("Then the lesson should match the local evaluation byte for byte", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

				var in model.PitchingMetrics
				So(json.Unmarshal([]byte(body), &in), ShouldBeNil)
				want, err := json.Marshal(lesson.Pitching(in))
				So(err, ShouldBeNil)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, string(want))
			})

			Convey("And the metric flags should keep rule order on the wire", func() {
				So(w.Body.String(), ShouldContainSubstring, `"metric_flags":{"Spin Efficiency":`)
				So(strings.Index(w.Body.String(), `"Gyro Degree"`), ShouldBeLessThan, strings.Index(w.Body.String(), `"Vertical Break"`))
			})

			Convey("And the service should count it", func() {
				stats := svc.GetStats()["pitching"].(map[string]interface{})
				So(stats["served"], ShouldEqual, int64(1))
				So(stats["flagged"], ShouldEqual, int64(1))
			})
		})

		Convey("When posting a pitch with only required fields", func() {
			w := do(h, http.MethodPost, "/lesson/pitching", `{"velocity":80,"pitch_type":"Changeup"}`)

			Convey("Then the fallback lesson should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res lesson.Result
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.Mode, ShouldEqual, lesson.ModePitching)
				So(res.MetricFlags.Len(), ShouldEqual, 0)
				So(res.Drills, ShouldHaveLength, 1)
				So(w.Body.String(), ShouldContainSubstring, `"metric_flags":{}`)
			})
		})

		Convey("When optional fields are explicitly null", func() {
			w := do(h, http.MethodPost, "/lesson/pitching", `{"velocity":92,"pitch_type":"Sinker","horizontal_break":null,"spin_efficiency":null}`)

			Convey("Then they should be treated as absent", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"metric_flags":{}`)
			})
		})

		Convey("When the pitch type is unknown", func() {
			w := do(h, http.MethodPost, "/lesson/pitching", `{"velocity":90,"pitch_type":"Knuckleball"}`)

			Convey("Then a validation error naming the field should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				e := decodeError(w)
				So(e.Code, ShouldEqual, "validation_error")
				So(e.Details, ShouldNotBeEmpty)
				So(e.Details[0].Field, ShouldEqual, "/pitch_type")
			})
		})

		Convey("When a required field is missing", func() {
			w := do(h, http.MethodPost, "/lesson/pitching", `{"pitch_type":"Slider"}`)

			Convey("Then it should be rejected with 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w).Details, ShouldNotBeEmpty)
			})
		})

		Convey("When spin direction is out of range", func() {
			w := do(h, http.MethodPost, "/lesson/pitching", `{"velocity":90,"pitch_type":"Slider","spin_direction":400}`)

			Convey("Then it should be rejected with 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w).Details[0].Field, ShouldEqual, "/spin_direction")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(h, http.MethodPost, "/lesson/pitching", `{"velocity":`)

			Convey("Then it should be rejected with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When the endpoint is called with GET", func() {
			w := do(h, http.MethodGet, "/lesson/pitching", "")

			Convey("Then the method should not be allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestLessonHitting(t *testing.T) {
	Convey("Given the lesson API", t, func() {
		h, _ := newHandler()

		Convey("When posting a weak pulled ground ball", func() {
			w := do(h, http.MethodPost, "/lesson/hitting", `{"exit_velocity":70,"distance":90,"launch_angle":-4,"exit_direction":-31}`)

			Convey("Then three drills and three flags should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res lesson.Result
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.Mode, ShouldEqual, lesson.ModeHitting)
				So(res.MetricFlags.Keys(), ShouldResemble, []string{"Launch Angle", "Exit Velocity", "Exit Direction"})
				So(res.Drills, ShouldHaveLength, 3)
			})
		})

		Convey("When a hitting field has the wrong type", func() {
			w := do(h, http.MethodPost, "/lesson/hitting", `{"exit_velocity":"fast","distance":90,"launch_angle":10}`)

			Convey("Then it should be rejected with 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w).Details[0].Field, ShouldEqual, "/exit_velocity")
			})
		})
	})
}

func TestLessonLimits(t *testing.T) {
	Convey("Given a server with a tiny body cap", t, func() {
		h, _ := newHandler(api.WithMaxBodyBytes(16))

		Convey("When the body exceeds the cap", func() {
			w := do(h, http.MethodPost, "/lesson/hitting", `{"exit_velocity":95,"distance":300,"launch_angle":20}`)

			Convey("Then 413 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeError(w).Code, ShouldEqual, "payload_too_large")
			})
		})
	})

	Convey("Given a dependency that fails unexpectedly", t, func() {
		srv := api.NewServer(failingDeps{}, nil)
		mux := http.NewServeMux()
		srv.Register(context.Background(), mux)

		Convey("Then an internal error should be returned", func() {
			w := do(srv.Handler(mux), http.MethodPost, "/lesson/pitching", `{"velocity":90,"pitch_type":"Cutter"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w).Code, ShouldEqual, "internal_error")
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the lesson API", t, func() {
		h, _ := newHandler()

		Convey("Then /healthz should report ok", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"ok":true}`)
		})

		Convey("Then /stats should expose both modes", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats, ShouldContainKey, "pitching")
			So(stats, ShouldContainKey, "hitting")
		})

		Convey("Then /metrics should serve the registry", func() {
			do(h, http.MethodGet, "/healthz", "")
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "lessongen_api_http_requests_total")
		})

		Convey("Then a browser at / should be redirected to the docs", func() {
			w := do(h, http.MethodGet, "/", "", "Accept", "text/html,application/xhtml+xml")
			So(w.Code, ShouldEqual, http.StatusFound)
			So(w.Header().Get("Location"), ShouldEqual, "/api-docs")
		})

		Convey("Then an API client at / should get a JSON description", func() {
			w := do(h, http.MethodGet, "/", "", "Accept", "application/json")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"service":"Rapsodo Lesson Generator"`)
			So(w.Body.String(), ShouldContainSubstring, "POST /lesson/pitching")
		})

		Convey("Then unknown paths should 404", func() {
			w := do(h, http.MethodGet, "/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given docs are disabled", t, func() {
		h, _ := newHandler(api.WithDocs(false))

		Convey("Then the root should not redirect", func() {
			w := do(h, http.MethodGet, "/", "", "Accept", "text/html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldNotContainSubstring, "/api-docs")
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the request ID middleware", t, func() {
		h, _ := newHandler()

		Convey("When the caller sends an ID", func() {
			w := do(h, http.MethodGet, "/healthz", "", api.HeaderRequestID, "abc-123")

			Convey("Then it should be echoed", func() {
				So(w.Header().Get(api.HeaderRequestID), ShouldEqual, "abc-123")
			})
		})

		Convey("When the caller sends none", func() {
			w := do(h, http.MethodGet, "/healthz", "")

			Convey("Then one should be generated", func() {
				So(w.Header().Get(api.HeaderRequestID), ShouldHaveLength, 36)
			})
		})

		Convey("When a handler reads the context", func() {
			var seen string
			inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = logger.RequestID(r.Context())
			})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.HeaderRequestID, "ctx-id")
			api.RequestID(inner).ServeHTTP(w, req)

			Convey("Then the ID should be on the context", func() {
				So(seen, ShouldEqual, "ctx-id")
			})
		})
	})

	Convey("Given the access log", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithFormat(logger.FormatJSON), logger.WithOutput(&buf)), ShouldBeNil)
		Reset(func() { _ = logger.Init(logger.WithOutput(io.Discard)) })

		h, _ := newHandler()
		do(h, http.MethodGet, "/healthz", "", api.HeaderRequestID, "log-id")

		Convey("Then one line with status and request ID should be written", func() {
			So(buf.String(), ShouldContainSubstring, `"msg":"request completed"`)
			So(buf.String(), ShouldContainSubstring, `"status":200`)
			So(buf.String(), ShouldContainSubstring, `"request_id":"log-id"`)
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given a wildcard origin policy", t, func() {
		h, _ := newHandler(api.WithAllowedOrigins("*"))

		Convey("Then any origin should be allowed", func() {
			w := do(h, http.MethodGet, "/healthz", "", "Origin", "https://coach.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			So(w.Header().Get("Access-Control-Allow-Credentials"), ShouldBeEmpty)
		})

		Convey("Then a preflight should return 204", func() {
			w := do(h, http.MethodOptions, "/lesson/pitching", "",
				"Origin", "https://coach.example",
				"Access-Control-Request-Method", "POST")
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "POST")
		})
	})

	Convey("Given an explicit origin list", t, func() {
		h, _ := newHandler(api.WithAllowedOrigins("https://a.example", "https://b.example"))

		Convey("Then a listed origin should be echoed with credentials", func() {
			w := do(h, http.MethodGet, "/healthz", "", "Origin", "https://b.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://b.example")
			So(w.Header().Get("Access-Control-Allow-Credentials"), ShouldEqual, "true")
			So(w.Header().Get("Vary"), ShouldContainSubstring, "Origin")
		})

		Convey("Then an unlisted origin should get no CORS headers", func() {
			w := do(h, http.MethodGet, "/healthz", "", "Origin", "https://evil.example")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})
	})
}

func TestKindError(t *testing.T) {
	Convey("Given a wrapped kind error", t, func() {
		cause := errors.New("unexpected EOF")
		err := api.WrapKind("parse body", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause should match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, api.ErrValidation), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "parse body: bad request: unexpected EOF")
		})

		Convey("Then a bare kind should format without a cause", func() {
			So(api.NewKind("read body", api.ErrPayloadTooLarge).Error(), ShouldEqual, "read body: payload too large")
		})
	})
}
