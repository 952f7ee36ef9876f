package metrics

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/model"
)

var _ aggregator.Observer = (*Manager)(nil)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			m := NewManager()

			Convey("Then it owns a private registry", func() {
				So(m, ShouldNotBeNil)
				So(m.Registry(), ShouldNotBeNil)
				So(m.Registry(), ShouldNotEqual, prometheus.DefaultRegisterer)
			})
		})

		Convey("When creating two managers", func() {
			Convey("Then registration does not collide", func() {
				So(func() {
					NewManager()
					NewManager()
				}, ShouldNotPanic)
			})
		})

		Convey("When creating with a custom registry and namespace", func() {
			reg := prometheus.NewRegistry()
			m := NewManager(WithRegistry(reg), WithNamespace("test"), WithSubsystem("run"),
				WithHistogramBuckets([]float64{0.1, 1}))
			m.PlayerDiscovered()

			Convey("Then metric names use the namespace", func() {
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_run_players_discovered_total")
			})
		})
	})
}

func TestObserverCounts(t *testing.T) {
	Convey("Given a manager used as an ingestion observer", t, func() {
		m := NewManager()
		store := aggregator.NewStore(aggregator.WithObserver(m))

		events := []model.EventRecord{
			{Type: model.EventPass, Player: "Riyad Mahrez", MatchID: "1"},
			{Type: model.EventPass, Player: "Riyad Mahrez", MatchID: "1"},
			{Type: model.EventShot, Player: "Jamie Vardy", MatchID: "1"},
			{Type: model.EventPass, Player: "", MatchID: "1"},
		}
		for i := range events {
			So(store.Record(&events[i]), ShouldBeNil)
		}

		Convey("Then counters follow the recorded events", func() {
			So(testutil.ToFloat64(m.eventsRecorded.WithLabelValues("Pass")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.eventsRecorded.WithLabelValues("Shot")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.eventsDropped.WithLabelValues(aggregator.DropNoPlayer)), ShouldEqual, 1)
			So(testutil.ToFloat64(m.playersDiscovered), ShouldEqual, 2)
		})

		Convey("When the pass is observed", func() {
			m.ObserveIngest(250*time.Millisecond, store.Len())

			Convey("Then the finalized gauge is set", func() {
				So(testutil.ToFloat64(m.playersFinalized), ShouldEqual, 2)
			})
		})
	})
}

func TestExposition(t *testing.T) {
	Convey("Given a manager with HTTP observations", t, func() {
		m := NewManager()
		m.ObserveHTTP("/api/v1/players", 200, 5*time.Millisecond)
		m.LocationRejected()

		Convey("When serving the handler", func() {
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

			Convey("Then the exposition contains both metrics", func() {
				So(rec.Code, ShouldEqual, 200)
				body := rec.Body.String()
				So(body, ShouldContainSubstring, `fbmetrics_http_requests_total{code="200",route="/api/v1/players"} 1`)
				So(body, ShouldContainSubstring, "fbmetrics_ingest_locations_rejected_total 1")
			})
		})

		Convey("When writing a textfile", func() {
			path := filepath.Join(t.TempDir(), "fbmetrics.prom")
			err := m.WriteToTextfile(path)

			Convey("Then the file holds the exposition", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(strings.Contains(string(data), "fbmetrics_ingest_locations_rejected_total"), ShouldBeTrue)
			})
		})
	})
}
