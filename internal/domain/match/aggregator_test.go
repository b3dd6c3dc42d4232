package match_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/breakside/internal/domain/match"
	"github.com/okian/breakside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func closedPoint() []model.Event {
	return []model.Event{
		{Seq: 1, Type: model.EventPickup, Player: "Ash", Thrower: model.Opponent},
		{Seq: 2, Type: model.EventScore, Player: "Blair", Thrower: "Ash", DistanceM: 30.2},
	}
}

func TestScoreCounters(t *testing.T) {
	Convey("Given a fresh aggregator", t, func() {
		a := match.New()

		Convey("When terminal events are scored", func() {
			So(a.ScoreFor(model.EventScore), ShouldBeNil)
			So(a.ScoreFor(model.EventScore), ShouldBeNil)
			So(a.ScoreFor(model.EventOpponentScore), ShouldBeNil)

			Convey("Then each team's counter tracks its terminal type", func() {
				So(a.Home(), ShouldEqual, 2)
				So(a.Away(), ShouldEqual, 1)
			})
		})

		Convey("When adjusting manually", func() {
			So(a.Adjust(match.TeamHome, 3), ShouldBeNil)
			So(a.Adjust(match.TeamAway, 1), ShouldBeNil)
			So(a.Adjust(match.TeamHome, -1), ShouldBeNil)

			Convey("Then deltas apply to the named counter", func() {
				So(a.Home(), ShouldEqual, 2)
				So(a.Away(), ShouldEqual, 1)
			})

			Convey("And the counter clamps at zero", func() {
				So(a.Adjust(match.TeamAway, -5), ShouldBeNil)
				So(a.Away(), ShouldEqual, 0)
			})
		})

		Convey("When adjusting an unknown team", func() {
			err := a.Adjust(match.Team("neutral"), 1)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, match.ErrUnknownTeam), ShouldBeTrue)
			})
		})
	})
}

func TestPointArchive(t *testing.T) {
	Convey("Given an aggregator with a fixed clock", t, func() {
		ts := time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
		a := match.New(match.WithClock(func() time.Time { return ts }))

		Convey("When closing a point", func() {
			p, err := a.ClosePoint(closedPoint())

			Convey("Then the point is archived with an id and timestamp", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldNotBeEmpty)
				So(p.ClosedAt.Equal(ts), ShouldBeTrue)
				So(len(a.Points()), ShouldEqual, 1)
			})

			Convey("And match-scope events include the archive plus the open point", func() {
				open := []model.Event{{Seq: 1, Type: model.EventPickup, Player: "Cam"}}
				all := a.AllEvents(open)
				So(len(all), ShouldEqual, 3)
				So(all[2].Player, ShouldEqual, "Cam")
			})
		})

		Convey("When recording hold samples", func() {
			a.RecordHold("Ash", 2.5)
			a.RecordHold("Ash", 4.0)

			Convey("Then Holds returns an independent copy", func() {
				h := a.Holds()
				So(h["Ash"], ShouldResemble, []float64{2.5, 4.0})
				h["Ash"][0] = 99
				So(a.Holds()["Ash"][0], ShouldEqual, 2.5)
			})

			Convey("And the open point sees the same samples", func() {
				So(a.PointHolds()["Ash"], ShouldResemble, []float64{2.5, 4.0})
			})

			Convey("And closing the point empties only the point bucket", func() {
				_, err := a.ClosePoint(closedPoint())
				So(err, ShouldBeNil)
				So(len(a.PointHolds()), ShouldEqual, 0)
				So(a.Holds()["Ash"], ShouldResemble, []float64{2.5, 4.0})

				a.RecordHold("Blair", 1.5)
				So(a.PointHolds()["Blair"], ShouldResemble, []float64{1.5})
				So(len(a.Holds()), ShouldEqual, 2)
			})
		})

		Convey("When points close as the score moves", func() {
			p1, err := a.ClosePoint(closedPoint())
			So(err, ShouldBeNil)
			So(a.ScoreFor(model.EventScore), ShouldBeNil)
			p2, err := a.ClosePoint(closedPoint())
			So(err, ShouldBeNil)

			Convey("Then each point records the score it started at", func() {
				So(p1.StartHome, ShouldEqual, 0)
				So(p1.StartAway, ShouldEqual, 0)
				So(p2.StartHome, ShouldEqual, 1)
				So(p2.StartAway, ShouldEqual, 0)
			})
		})

		Convey("When taking a snapshot", func() {
			_, err := a.ClosePoint(closedPoint())
			So(err, ShouldBeNil)
			So(a.ScoreFor(model.EventScore), ShouldBeNil)
			open := []model.Event{{Seq: 1, Type: model.EventPickup, Player: "Cam"}}

			snap := a.Snapshot(open)

			Convey("Then it captures scores, history, and the open point", func() {
				So(snap.ID, ShouldNotBeEmpty)
				So(snap.HomeScore, ShouldEqual, 1)
				So(snap.AwayScore, ShouldEqual, 0)
				So(len(snap.Points), ShouldEqual, 1)
				So(len(snap.OpenEvents), ShouldEqual, 1)
				So(snap.Ended, ShouldBeFalse)
			})
		})

		Convey("When the aggregator carries fixture metadata", func() {
			m := match.New(match.WithMeta(model.MatchMeta{
				Tournament: "Spring Open",
				Opponent:   "Riverside",
				Weather:    "light rain",
			}))

			Convey("Then every snapshot labels the fixture", func() {
				snap := m.Snapshot(nil)
				So(snap.Meta.Tournament, ShouldEqual, "Spring Open")
				So(snap.Meta.Opponent, ShouldEqual, "Riverside")
				So(snap.Meta.Weather, ShouldEqual, "light rain")
			})

			Convey("And a reset keeps the labels", func() {
				So(m.EndMatch(nil), ShouldBeNil)
				m.ResetMatch()
				So(m.Snapshot(nil).Meta.Opponent, ShouldEqual, "Riverside")
			})
		})
	})
}

func TestMatchLifecycle(t *testing.T) {
	Convey("Given a match in progress", t, func() {
		a := match.New()
		_, err := a.ClosePoint(closedPoint())
		So(err, ShouldBeNil)
		So(a.ScoreFor(model.EventScore), ShouldBeNil)

		Convey("When the match ends mid-point", func() {
			open := []model.Event{{Seq: 1, Type: model.EventPickup, Player: "Cam"}}
			err := a.EndMatch(open)

			Convey("Then the partial point is archived and the match frozen", func() {
				So(err, ShouldBeNil)
				So(a.Ended(), ShouldBeTrue)
				So(len(a.Points()), ShouldEqual, 2)
			})

			Convey("And further mutation is rejected", func() {
				So(errors.Is(a.ScoreFor(model.EventScore), match.ErrMatchEnded), ShouldBeTrue)
				So(errors.Is(a.Adjust(match.TeamHome, 1), match.ErrMatchEnded), ShouldBeTrue)
				_, err := a.ClosePoint(nil)
				So(errors.Is(err, match.ErrMatchEnded), ShouldBeTrue)
				So(errors.Is(a.EndMatch(nil), match.ErrMatchEnded), ShouldBeTrue)
			})

			Convey("And hold samples are silently dropped", func() {
				a.RecordHold("Ash", 3.0)
				So(len(a.Holds()), ShouldEqual, 0)
			})
		})

		Convey("When the match is reset", func() {
			a.RecordHold("Ash", 3.0)
			So(a.EndMatch(nil), ShouldBeNil)
			a.ResetMatch()

			Convey("Then everything returns to a cold start", func() {
				So(a.Home(), ShouldEqual, 0)
				So(a.Away(), ShouldEqual, 0)
				So(len(a.Points()), ShouldEqual, 0)
				So(len(a.Holds()), ShouldEqual, 0)
				So(a.Ended(), ShouldBeFalse)
			})
		})
	})
}
